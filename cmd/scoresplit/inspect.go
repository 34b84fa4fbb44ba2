package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scoresplit/internal/label"
	"github.com/pdiddy/scoresplit/internal/raster"
	"github.com/pdiddy/scoresplit/internal/segment"
	"github.com/pdiddy/scoresplit/internal/staff"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [document]",
	Short: "Analyze a document's segmentation without writing images",
	Long: `Inspect runs the full segmentation analysis per page and prints the
detected labels, staff-region peaks, chosen strategy, and resolved crop
table. No image files are written. Use it to tune detection thresholds
before an extract run.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	tuningFlags(inspectCmd)
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg := buildConfig(cmd)

	src, err := raster.Open(args[0])
	if err != nil {
		return err
	}
	defer src.Close()

	fmt.Fprintf(os.Stdout, "%s: %d page(s), scale %.1f\n", documentID(args[0]), src.PageCount(), cfg.Scale)

	for p := 0; p < src.PageCount(); p++ {
		pixels, err := src.Pixels(p, cfg.Scale)
		if err != nil {
			return fmt.Errorf("rasterizing page %d: %w", p+1, err)
		}

		spans, err := src.TextSpans(p)
		if err != nil {
			fmt.Fprintf(os.Stdout, "  warning: page %d text layer unavailable: %v\n", p+1, err)
			spans = nil
		}
		labels := label.Locate(spans, cfg.Scale)

		regions, err := staff.Detect(pixels, cfg.Staff)
		if err != nil {
			pixels.Close()
			return fmt.Errorf("detecting staff regions on page %d: %w", p+1, err)
		}

		plan := segment.Plan(labels, regions, pixels.Cols(), pixels.Rows(), cfg.Segment, cfg.Fallback)
		pixels.Close()

		fmt.Fprintf(os.Stdout, "\npage %d: strategy=%s labels=%d staff-regions=%d\n",
			p+1, plan.Strategy, len(labels), len(regions))
		fmt.Fprintf(os.Stdout, "  %-10s  %-8s  %-8s  %-8s\n", "exercise", "top", "bottom", "height")
		for _, c := range plan.Crops {
			fmt.Fprintf(os.Stdout, "  %-10d  %-8d  %-8d  %-8d\n", c.Number, c.Top, c.Bottom, c.Height())
		}
	}
	return nil
}
