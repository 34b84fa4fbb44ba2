// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// BBox is an axis-aligned bounding box. Coordinates follow image
// conventions: the origin is the top-left corner, Y grows downward.
type BBox struct {
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
}

// TextSpan is one positioned run of text from a page's embedded text
// layer. Coordinates are page points at rasterization scale 1.0.
type TextSpan struct {
	// Text is the literal span content.
	Text string `json:"text" yaml:"text"`

	// BBox locates the span on the page in points.
	BBox BBox `json:"bbox" yaml:"bbox"`
}

// Label is a detected exercise-number marker.
type Label struct {
	// Number is the exercise number parsed from the label text.
	Number int `json:"number" yaml:"number"`

	// Y is the label's top edge in pixels at the working scale.
	Y float64 `json:"y" yaml:"y"`

	// BBox is the label's bounding box in pixels at the working scale.
	BBox BBox `json:"bbox" yaml:"bbox"`
}

// StaffRegion is the pixel row marking the center of a detected
// horizontal-line cluster (one staff system band).
type StaffRegion = int

// Crop is the rectangular pixel region assigned to one exercise
// before output padding. 0 <= Top < Bottom <= pageH and
// 0 <= Left < Right <= pageW hold for every resolved crop.
type Crop struct {
	// Number identifies the exercise: the label number when labels
	// drove segmentation, or a 1-based sequential index otherwise.
	Number int `json:"number" yaml:"number"`

	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
}

// Height returns the crop height in pixels.
func (c Crop) Height() int {
	return c.Bottom - c.Top
}

// Strategy names the segmentation path chosen for a page.
type Strategy string

const (
	// StrategyLabels segments by textual exercise labels anchored to
	// staff geometry.
	StrategyLabels Strategy = "labels"

	// StrategyVisual segments by staff-line peak clustering alone.
	StrategyVisual Strategy = "visual"

	// StrategyWholePage emits the entire page as a single unit.
	StrategyWholePage Strategy = "whole-page"
)

// Document holds per-document extraction metadata for the catalog.
type Document struct {
	// ID is a slug derived from the document filename (e.g. "354-reading-exercises").
	ID string `json:"id" yaml:"id"`

	// Path is the local filesystem path to the source PDF.
	Path string `json:"path" yaml:"path"`

	// Pages is the page count of the document.
	Pages int `json:"pages" yaml:"pages"`

	// Scale is the rasterization scale factor used for extraction.
	Scale float64 `json:"scale" yaml:"scale"`

	// ExtractedAt is when the extraction run finished.
	ExtractedAt time.Time `json:"extracted_at" yaml:"extracted_at"`
}

// Exercise records one emitted exercise image.
type Exercise struct {
	// DocumentID links back to the source document.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Page is the 1-based page number the exercise came from.
	Page int `json:"page" yaml:"page"`

	// Strategy is the segmentation path that produced the exercise.
	Strategy Strategy `json:"strategy" yaml:"strategy"`

	// Number is the exercise number or sequential index.
	Number int `json:"number" yaml:"number"`

	// File is the emitted image filename, relative to the document's
	// exercises directory.
	File string `json:"file" yaml:"file"`

	// Top and Bottom are the resolved crop bounds in page pixels.
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`

	// Width and Height are the emitted image dimensions after padding.
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}
