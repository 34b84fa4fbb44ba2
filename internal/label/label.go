// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package label scans a page's text layer for exercise-number markers.
// See docs/ARCHITECTURE § Label Locator.
package label

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// markerPattern matches an exercise marker prefix ("No.", "Number", or
// "Exercise"), whitespace, and a digit run at the start of a span.
var markerPattern = regexp.MustCompile(`(?i)^(?:no\.|number|exercise)\s+(\d+)`)

// Locate returns the exercise labels found in spans, sorted ascending
// by y-position and scaled from page points into pixel coordinates.
// Span text is NFKC-folded before matching so fullwidth digits and
// ligatures from embedded fonts still match. When two spans carry the
// same exercise number, only the first (lowest y-position) survives;
// later duplicates are dropped, never an error. An empty result is the
// signal to fall back to visual segmentation.
func Locate(spans []types.TextSpan, scale float64) []types.Label {
	var labels []types.Label
	for _, span := range spans {
		text := strings.TrimSpace(norm.NFKC.String(span.Text))
		m := markerPattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		number, err := strconv.Atoi(m[1])
		if err != nil || number <= 0 {
			continue
		}
		labels = append(labels, types.Label{
			Number: number,
			Y:      span.BBox.Y0 * scale,
			BBox: types.BBox{
				X0: span.BBox.X0 * scale,
				Y0: span.BBox.Y0 * scale,
				X1: span.BBox.X1 * scale,
				Y1: span.BBox.Y1 * scale,
			},
		})
	}

	sort.SliceStable(labels, func(i, j int) bool {
		return labels[i].Y < labels[j].Y
	})

	// First occurrence wins on duplicate numbers.
	seen := make(map[int]bool, len(labels))
	deduped := labels[:0]
	for _, l := range labels {
		if seen[l.Number] {
			continue
		}
		seen[l.Number] = true
		deduped = append(deduped, l)
	}
	return deduped
}
