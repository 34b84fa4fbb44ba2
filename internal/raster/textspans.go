// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package raster

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// defaultLineHeight stands in when a block declares no usable
// line-height or font-size, in points.
const defaultLineHeight = 12.0

// glyphWidthRatio estimates a glyph's advance as a fraction of the font
// size; embedded fonts rarely expose real metrics through the HTML
// layer, and the locator only needs the label's rough horizontal extent.
const glyphWidthRatio = 0.5

// parseTextSpans walks MuPDF structured-text HTML and turns each
// absolutely positioned <p> block into one TextSpan. Blocks without
// top/left style coordinates are skipped.
func parseTextSpans(markup string) ([]types.TextSpan, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing text layer markup: %w", err)
	}

	var spans []types.TextSpan
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "p" {
			if span, ok := blockToSpan(n); ok {
				spans = append(spans, span)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return spans, nil
}

// blockToSpan converts one positioned paragraph node into a span.
func blockToSpan(n *html.Node) (types.TextSpan, bool) {
	style := parseStyle(attrValue(n, "style"))

	top, hasTop := style["top"]
	left, hasLeft := style["left"]
	if !hasTop || !hasLeft {
		return types.TextSpan{}, false
	}

	text := strings.TrimSpace(nodeText(n))
	if text == "" {
		return types.TextSpan{}, false
	}

	height, ok := style["line-height"]
	if !ok {
		height, ok = style["font-size"]
	}
	if !ok || height <= 0 {
		height = defaultLineHeight
	}

	fontSize, ok := style["font-size"]
	if !ok || fontSize <= 0 {
		fontSize = height
	}
	width := fontSize * glyphWidthRatio * float64(utf8.RuneCountInString(text))

	return types.TextSpan{
		Text: text,
		BBox: types.BBox{
			X0: left,
			Y0: top,
			X1: left + width,
			Y1: top + height,
		},
	}, true
}

// parseStyle extracts point-valued properties from an inline style
// attribute like "top:123.4pt;left:56.7pt;line-height:10.5pt".
func parseStyle(style string) map[string]float64 {
	props := make(map[string]float64)
	for _, decl := range strings.Split(style, ";") {
		name, value, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(strings.ToLower(name))
		value = strings.TrimSpace(value)
		value = strings.TrimSuffix(value, "pt")
		value = strings.TrimSuffix(value, "px")
		v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			continue
		}
		props[name] = v
	}
	return props
}

// nodeText concatenates the text content beneath n, including styled
// children like <b> and <i> runs.
func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(nodeText(c))
	}
	return b.String()
}

// attrValue returns the value of the named attribute, or "".
func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
