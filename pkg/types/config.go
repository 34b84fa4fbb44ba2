// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// StaffConfig holds the staff-region detection thresholds. The defaults
// are tuned for scans rasterized at scale 2.0 (144 DPI); denser prints
// or other resolutions tune these rather than the detector code.
type StaffConfig struct {
	// KernelWidth is the width in pixels of the 1px-tall structuring
	// element used to isolate long horizontal strokes (default 45).
	KernelWidth int `json:"kernel_width" yaml:"kernel_width"`

	// HeightFraction is the minimum peak height as a fraction of the
	// global maximum of the row-sum profile (default 0.30).
	HeightFraction float64 `json:"height_fraction" yaml:"height_fraction"`

	// MinDistance is the minimum vertical distance in pixels between
	// accepted peaks, so the five lines of one staff system collapse
	// into a single region (default 100).
	MinDistance int `json:"min_distance" yaml:"min_distance"`

	// MinWidth is the minimum peak width in pixels at half the peak
	// height (default 12).
	MinWidth int `json:"min_width" yaml:"min_width"`

	// SmoothingSigma is the Gaussian sigma applied to the row-sum
	// profile before peak detection (default 4.0).
	SmoothingSigma float64 `json:"smoothing_sigma" yaml:"smoothing_sigma"`
}

// SegmentConfig holds the label-driven boundary resolution parameters.
type SegmentConfig struct {
	// FirstLeadIn is the fixed lead-in in pixels above the first
	// label, covering a page header or title (default 200).
	FirstLeadIn int `json:"first_lead_in" yaml:"first_lead_in"`

	// LabelGap is subtracted from the next label's y-position when no
	// staff region anchors the boundary (default 20).
	LabelGap int `json:"label_gap" yaml:"label_gap"`

	// TrailMargin is added below the last staff region of an exercise
	// when anchoring its bottom boundary (default 60).
	TrailMargin int `json:"trail_margin" yaml:"trail_margin"`

	// MinHeight is the crop height floor in pixels; shorter crops are
	// extended downward (default 200).
	MinHeight int `json:"min_height" yaml:"min_height"`

	// TopBleed and BottomBleed expand each crop at pixel-slice time so
	// neighboring images overlap slightly at the cut. The resolved
	// rectangles stay contiguous; only the emitted pixels overlap.
	// The first crop's lead-in already covers its top, so TopBleed is
	// not applied there (defaults 40 and 20).
	TopBleed    int `json:"top_bleed" yaml:"top_bleed"`
	BottomBleed int `json:"bottom_bleed" yaml:"bottom_bleed"`
}

// FallbackConfig holds the visual fallback clustering parameters.
type FallbackConfig struct {
	// GapThreshold is the peak separation in pixels at or above which
	// a new exercise group starts (default 200).
	GapThreshold int `json:"gap_threshold" yaml:"gap_threshold"`

	// TopMargin and BottomMargin extend each group's crop beyond its
	// first and last peak, clamped to page bounds (defaults 100/100).
	TopMargin    int `json:"top_margin" yaml:"top_margin"`
	BottomMargin int `json:"bottom_margin" yaml:"bottom_margin"`
}

// ImageFormat selects the output image encoding.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatTIFF ImageFormat = "tiff"
	FormatBMP  ImageFormat = "bmp"
)

// Ext returns the file extension for the format, without the dot.
func (f ImageFormat) Ext() string {
	if f == "" {
		return string(FormatPNG)
	}
	return string(f)
}

// OutputConfig holds the padding-normalization and encoding parameters.
type OutputConfig struct {
	// SideMargin is clipped off the left and right edges of each crop
	// before padding; skipped when it would leave no width (default 0).
	SideMargin int `json:"side_margin" yaml:"side_margin"`

	// Border is the uniform white border width in pixels added on all
	// four sides of the final image (default 20).
	Border int `json:"border" yaml:"border"`

	// Format selects the output encoding: png, tiff, or bmp.
	Format ImageFormat `json:"format" yaml:"format"`
}

// Config groups all extraction settings for one run.
type Config struct {
	// Scale is the rasterization scale factor; pixel coordinates are
	// page points multiplied by Scale (default 2.0).
	Scale float64 `json:"scale" yaml:"scale"`

	// OutDir is the base output directory (contains exercises/,
	// metadata/, index/).
	OutDir string `json:"out_dir" yaml:"out_dir"`

	// Workers is the number of pages processed concurrently. Pages
	// have no cross-page dependencies, so they parallelize freely;
	// 1 processes pages strictly in order (default 1).
	Workers int `json:"workers" yaml:"workers"`

	Staff    StaffConfig    `json:"staff" yaml:"staff"`
	Segment  SegmentConfig  `json:"segment" yaml:"segment"`
	Fallback FallbackConfig `json:"fallback" yaml:"fallback"`
	Output   OutputConfig   `json:"output" yaml:"output"`
}

// DefaultConfig returns the extraction settings tuned for scale 2.0
// piano-method scans.
func DefaultConfig() Config {
	return Config{
		Scale:   2.0,
		OutDir:  "output",
		Workers: 1,
		Staff: StaffConfig{
			KernelWidth:    45,
			HeightFraction: 0.30,
			MinDistance:    100,
			MinWidth:       12,
			SmoothingSigma: 4.0,
		},
		Segment: SegmentConfig{
			FirstLeadIn: 200,
			LabelGap:    20,
			TrailMargin: 60,
			MinHeight:   200,
			TopBleed:    40,
			BottomBleed: 20,
		},
		Fallback: FallbackConfig{
			GapThreshold: 200,
			TopMargin:    100,
			BottomMargin: 100,
		},
		Output: OutputConfig{
			SideMargin: 0,
			Border:     20,
			Format:     FormatPNG,
		},
	}
}
