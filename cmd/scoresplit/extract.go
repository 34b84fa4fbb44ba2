package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/spf13/cobra"

	"github.com/pdiddy/scoresplit/internal/catalog"
	"github.com/pdiddy/scoresplit/internal/pipeline"
	"github.com/pdiddy/scoresplit/internal/raster"
	"github.com/pdiddy/scoresplit/pkg/types"
)

// workerMemoryBudget is the rough per-page working set at scale 2.0
// (pixel array plus morphology intermediates), used to auto-size the
// worker pool.
const workerMemoryBudget = 256 << 20

var extractCmd = &cobra.Command{
	Use:   "extract [documents...]",
	Short: "Split documents into per-exercise images",
	Long: `Extract rasterizes every page of each document, segments it into
exercises, and writes one image per exercise plus a YAML manifest and a
catalog entry. Pages with no exercise labels fall back to visual
staff-line clustering; pages with no detectable structure are emitted
whole, so every page yields at least one image.`,
	RunE: runExtract,
}

func init() {
	tuningFlags(extractCmd)
	extractCmd.Flags().String("out-dir", "", "base output directory (default \"output\")")
	extractCmd.Flags().String("format", "", "output image format: png, tiff, or bmp (default png)")
	extractCmd.Flags().Int("workers", -1, "pages processed concurrently; 0 sizes from CPU count and available memory (default 1)")
	extractCmd.Flags().Int("side-margin", 0, "columns clipped off each side of a crop (default 0)")
	extractCmd.Flags().Int("border", 0, "white border width around each output image (default 20)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document paths")
	}

	cfg := buildConfig(cmd)
	cfg.OutDir = stringSetting(cmd, "out-dir", cfg.OutDir)
	cfg.Output.Format = types.ImageFormat(stringSetting(cmd, "format", string(cfg.Output.Format)))
	cfg.Output.SideMargin = intSetting(cmd, "side-margin", cfg.Output.SideMargin)
	cfg.Output.Border = intSetting(cmd, "border", cfg.Output.Border)

	switch cfg.Output.Format {
	case types.FormatPNG, types.FormatTIFF, types.FormatBMP:
	default:
		return fmt.Errorf("unsupported format %q: use png, tiff, or bmp", cfg.Output.Format)
	}

	workers := intSetting(cmd, "workers", cfg.Workers)
	if workers == 0 {
		workers = autoWorkers()
		fmt.Fprintf(os.Stderr, "Using %d page worker(s)\n", workers)
	}
	if workers < 1 {
		workers = 1
	}
	cfg.Workers = workers

	store, err := catalog.Open(cfg.OutDir)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	var emitted, failedDocs int
	for _, path := range args {
		result, err := extractDocument(ctx, path, cfg, store)
		if err != nil {
			fmt.Fprintf(os.Stdout, "failed:  %s (%v)\n", path, err)
			failedDocs++
			continue
		}
		emitted += result.Emitted
		if result.HasFailures() {
			failedDocs++
		}
	}

	fmt.Fprintf(os.Stdout, "\nBatch summary: %d exercise image(s) from %d document(s), %d failed\n",
		emitted, len(args), failedDocs)
	if failedDocs > 0 {
		return fmt.Errorf("%d document(s) had failures", failedDocs)
	}
	return nil
}

// extractDocument runs the pipeline over one document and records the
// outcome in the catalog.
func extractDocument(ctx context.Context, path string, cfg types.Config, store *catalog.Store) (pipeline.DocumentResult, error) {
	src, err := raster.Open(path)
	if err != nil {
		return pipeline.DocumentResult{}, err
	}
	defer src.Close()

	docID := documentID(path)
	fmt.Fprintf(os.Stdout, "extracting: %s (%d page(s))\n", docID, src.PageCount())

	result, err := pipeline.ProcessDocument(ctx, src, docID, cfg, os.Stdout)
	if err != nil {
		return pipeline.DocumentResult{}, err
	}

	doc := types.Document{
		ID:          docID,
		Path:        path,
		Pages:       src.PageCount(),
		Scale:       cfg.Scale,
		ExtractedAt: time.Now().UTC(),
	}
	if err := store.Record(ctx, doc, result.Exercises()); err != nil {
		fmt.Fprintf(os.Stdout, "  warning: catalog record failed: %v\n", err)
	}
	return result, nil
}

// documentID slugs the document filename: lowercase basename without
// extension, spaces replaced.
func documentID(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.ReplaceAll(strings.ToLower(base), " ", "-")
}

// autoWorkers sizes the page worker pool from the CPU count, capped by
// available memory.
func autoWorkers() int {
	workers := runtime.NumCPU()
	if vm, err := mem.VirtualMemory(); err == nil {
		byMemory := int(vm.Available / workerMemoryBudget)
		if byMemory < workers {
			workers = byMemory
		}
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}
