// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the per-page segmentation flow over a document:
// rasterize, locate labels, detect staff regions, plan, crop, normalize,
// and encode one image per exercise.
// See docs/ARCHITECTURE § Pipeline.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/scoresplit/internal/label"
	"github.com/pdiddy/scoresplit/internal/output"
	"github.com/pdiddy/scoresplit/internal/raster"
	"github.com/pdiddy/scoresplit/internal/segment"
	"github.com/pdiddy/scoresplit/internal/staff"
	"github.com/pdiddy/scoresplit/pkg/types"
)

const (
	exercisesDir = "exercises"
	metadataDir  = "metadata"
)

// PageResult holds the outcome of one page's segmentation pass.
type PageResult struct {
	// Page is the 1-based page number.
	Page int

	Strategy types.Strategy

	// Labels and Regions count what the locator and detector found.
	Labels  int
	Regions int

	// Exercises lists the images emitted for this page.
	Exercises []types.Exercise

	// Warnings holds recoverable per-page conditions, such as a broken
	// text layer that routed the page into the visual fallback.
	Warnings []string

	// Err is set when the page failed entirely (staff detection or
	// every crop failing to emit). The run continues past it.
	Err error
}

// DocumentResult summarizes an extraction run over one document.
type DocumentResult struct {
	DocID string
	Pages []PageResult

	Emitted int
	Failed  int
}

// Total returns the number of pages processed.
func (r DocumentResult) Total() int {
	return len(r.Pages)
}

// HasFailures reports whether any page failed.
func (r DocumentResult) HasFailures() bool {
	return r.Failed > 0
}

// Exercises returns every emitted exercise across all pages, in page
// order.
func (r DocumentResult) Exercises() []types.Exercise {
	var all []types.Exercise
	for _, p := range r.Pages {
		all = append(all, p.Exercises...)
	}
	return all
}

// ProcessDocument runs every page of src through the segmentation flow,
// emitting image files under cfg.OutDir/exercises/<docID>/ and a YAML
// manifest under cfg.OutDir/metadata/. Pages run concurrently up to
// cfg.Workers; results keep page order regardless. Per-page failures
// are counted and the run continues; only rasterization failures abort.
// Progress is printed to w one line per page after all pages finish.
func ProcessDocument(ctx context.Context, src raster.Source, docID string, cfg types.Config, w io.Writer) (DocumentResult, error) {
	n := src.PageCount()
	outDir := filepath.Join(cfg.OutDir, exercisesDir, docID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return DocumentResult{}, fmt.Errorf("creating output directory %s: %w", outDir, err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]PageResult, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for p := 0; p < n; p++ {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			pr, fatal := processPage(src, p, outDir, cfg)
			results[p] = pr
			return fatal
		})
	}
	if err := g.Wait(); err != nil {
		return DocumentResult{}, fmt.Errorf("rasterizing %s: %w", docID, err)
	}

	result := DocumentResult{DocID: docID, Pages: results}
	for i := range results {
		for j := range results[i].Exercises {
			results[i].Exercises[j].DocumentID = docID
		}
	}
	for _, pr := range results {
		for _, warning := range pr.Warnings {
			fmt.Fprintf(w, "  warning: page %d: %s\n", pr.Page, warning)
		}
		if pr.Err != nil {
			fmt.Fprintf(w, "failed:  page %d (%v)\n", pr.Page, pr.Err)
			result.Failed++
			continue
		}
		fmt.Fprintf(w, "segmented: page %d (%s, %d exercise(s))\n",
			pr.Page, pr.Strategy, len(pr.Exercises))
		result.Emitted += len(pr.Exercises)
	}

	if err := writeManifest(src.Path(), cfg, result); err != nil {
		fmt.Fprintf(w, "  warning: manifest write failed: %v\n", err)
	}
	return result, nil
}

// processPage segments one 0-based page. The returned error is non-nil
// only for pixel rendering failures, which are fatal for the run; every
// other deficiency degrades or is recorded on the PageResult.
func processPage(src raster.Source, page int, outDir string, cfg types.Config) (PageResult, error) {
	pr := PageResult{Page: page + 1}

	pixels, err := src.Pixels(page, cfg.Scale)
	if err != nil {
		return pr, err
	}
	defer pixels.Close()

	spans, err := src.TextSpans(page)
	if err != nil {
		// A broken text layer is recoverable: the page routes into the
		// visual fallback, which exists precisely for label-less pages.
		pr.Warnings = append(pr.Warnings, fmt.Sprintf("text layer unavailable: %v", err))
		spans = nil
	}

	labels := label.Locate(spans, cfg.Scale)
	pr.Labels = len(labels)

	regions, err := staff.Detect(pixels, cfg.Staff)
	if err != nil {
		pr.Err = fmt.Errorf("detecting staff regions: %w", err)
		return pr, nil
	}
	pr.Regions = len(regions)

	plan := segment.Plan(labels, regions, pixels.Cols(), pixels.Rows(), cfg.Segment, cfg.Fallback)
	pr.Strategy = plan.Strategy

	var failed int
	for i, crop := range plan.Crops {
		ex, err := emitCrop(pixels, crop, i, plan.Strategy, pr.Page, outDir, cfg)
		if err != nil {
			pr.Warnings = append(pr.Warnings, fmt.Sprintf("exercise %d: %v", crop.Number, err))
			failed++
			continue
		}
		pr.Exercises = append(pr.Exercises, ex)
	}
	if failed > 0 && len(pr.Exercises) == 0 {
		pr.Err = fmt.Errorf("all %d crop(s) failed to emit", failed)
	}
	return pr, nil
}

// emitCrop slices one crop out of the page, normalizes it, and writes
// the image file. The crop index within the page picks the bleed rule:
// label-driven crops overlap their neighbors slightly at the cut so no
// note is lost to the boundary.
func emitCrop(pixels gocv.Mat, crop types.Crop, index int, strategy types.Strategy, page int, outDir string, cfg types.Config) (types.Exercise, error) {
	top, bottom := crop.Top, crop.Bottom
	if strategy == types.StrategyLabels {
		// The first crop's lead-in already covers its top; adding bleed
		// there would double the margin.
		if index > 0 {
			top -= cfg.Segment.TopBleed
		}
		bottom += cfg.Segment.BottomBleed
	}
	if top < 0 {
		top = 0
	}
	if bottom > pixels.Rows() {
		bottom = pixels.Rows()
	}

	region := pixels.Region(image.Rect(crop.Left, top, crop.Right, bottom))
	defer region.Close()

	final, err := output.Normalize(region, cfg.Output)
	if err != nil {
		return types.Exercise{}, err
	}
	defer final.Close()

	name := cropFilename(crop, strategy, page, cfg.Output.Format)
	if err := output.WriteImage(final, filepath.Join(outDir, name)); err != nil {
		return types.Exercise{}, err
	}

	return types.Exercise{
		Page:     page,
		Strategy: strategy,
		Number:   crop.Number,
		File:     name,
		Top:      crop.Top,
		Bottom:   crop.Bottom,
		Width:    final.Cols(),
		Height:   final.Rows(),
	}, nil
}

// cropFilename names an output image deterministically: by exercise
// number when labels were available, by sequential index plus page
// number for visual fallback groups, and by page number alone for
// whole-page output.
func cropFilename(crop types.Crop, strategy types.Strategy, page int, format types.ImageFormat) string {
	switch strategy {
	case types.StrategyLabels:
		return fmt.Sprintf("exercise_%d.%s", crop.Number, format.Ext())
	case types.StrategyVisual:
		return fmt.Sprintf("exercise_visual_%d_page_%d.%s", crop.Number, page, format.Ext())
	default:
		return fmt.Sprintf("page_%d.%s", page, format.Ext())
	}
}
