// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package raster wraps MuPDF document rasterization behind the Source
// interface the pipeline consumes. The segmentation engine never
// touches a PDF directly. See docs/ARCHITECTURE § Page Rasterizer.
package raster

import (
	"fmt"

	"github.com/gen2brain/go-fitz"
	"gocv.io/x/gocv"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// pdfDPI is the native resolution of PDF page coordinates: one point is
// 1/72 inch, so rendering at 72*scale DPI makes pixel coordinates equal
// point coordinates times scale.
const pdfDPI = 72

// Source produces pixel arrays and text layers for the pages of one
// document. Implementations must be safe for concurrent use across
// pages.
type Source interface {
	// Path returns the document's filesystem path.
	Path() string

	// PageCount returns the number of pages in the document.
	PageCount() int

	// Pixels renders page (0-based) at the given scale factor into a
	// 3-channel Mat. The caller owns the Mat and must Close it.
	Pixels(page int, scale float64) (gocv.Mat, error)

	// TextSpans returns the positioned text runs of page (0-based) in
	// page points at scale 1.0.
	TextSpans(page int) ([]types.TextSpan, error)

	Close() error
}

// FitzSource reads a PDF through go-fitz (MuPDF).
type FitzSource struct {
	doc   *fitz.Document
	path  string
	pages int
}

// Open validates the document at path and caches its page count. An
// unreadable or corrupt document is the one fatal error class of a run.
func Open(path string) (*FitzSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	return &FitzSource{doc: doc, path: path, pages: doc.NumPage()}, nil
}

// Path returns the document's filesystem path.
func (f *FitzSource) Path() string { return f.path }

// PageCount returns the cached page count.
func (f *FitzSource) PageCount() int { return f.pages }

// Pixels renders the page at DPI 72*scale and converts the RGBA frame
// to a 3-channel BGR Mat. A fitz handle is not safe for concurrent
// page rendering, so each call opens its own.
func (f *FitzSource) Pixels(page int, scale float64) (gocv.Mat, error) {
	if scale <= 0 {
		scale = 1.0
	}

	doc, err := fitz.New(f.path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("opening document %s: %w", f.path, err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(page, pdfDPI*scale)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("rendering page %d: %w", page+1, err)
	}

	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("converting page %d pixels: %w", page+1, err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// TextSpans extracts the page's structured-text HTML and parses the
// absolutely positioned blocks into spans. Coordinates are unscaled
// page points.
func (f *FitzSource) TextSpans(page int) ([]types.TextSpan, error) {
	doc, err := fitz.New(f.path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", f.path, err)
	}
	defer doc.Close()

	markup, err := doc.HTML(page)
	if err != nil {
		return nil, fmt.Errorf("extracting text layer of page %d: %w", page+1, err)
	}
	return parseTextSpans(markup)
}

// Close releases the validated document handle.
func (f *FitzSource) Close() error {
	return f.doc.Close()
}
