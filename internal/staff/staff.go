// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package staff detects vertical bands of a page containing musical
// staff lines via horizontal-line morphology.
// See docs/ARCHITECTURE § Staff Region Detector.
package staff

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// Detect returns the pixel rows marking the centers of detected
// staff-line bands, ascending. The page is reduced to an inverted
// grayscale image, opened with a wide 1px-tall kernel so only long
// horizontal strokes survive, and collapsed into a per-row intensity
// profile. Peaks in the Gaussian-smoothed profile are the regions.
// An empty result is valid output, not an error.
func Detect(page gocv.Mat, cfg types.StaffConfig) ([]types.StaffRegion, error) {
	if page.Empty() {
		return nil, fmt.Errorf("detecting staff regions: empty page")
	}

	var gray gocv.Mat
	if page.Channels() > 1 {
		gray = gocv.NewMat()
		gocv.CvtColor(page, &gray, gocv.ColorBGRToGray)
	} else {
		gray = page.Clone()
	}
	defer gray.Close()

	// Ink is dark on paper; invert so staff lines are the bright signal.
	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(gray, &inverted)

	kernelWidth := cfg.KernelWidth
	if kernelWidth <= 0 {
		kernelWidth = 45
	}
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(kernelWidth, 1))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(inverted, &opened, gocv.MorphOpen, kernel)

	smoothed := smooth(rowProfile(opened), cfg.SmoothingSigma)

	maxVal := 0.0
	for _, v := range smoothed {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return nil, nil
	}

	peaks := findPeaks(smoothed, cfg.HeightFraction*maxVal, cfg.MinDistance, cfg.MinWidth)
	regions := make([]types.StaffRegion, len(peaks))
	copy(regions, peaks)
	return regions, nil
}

// rowProfile sums pixel intensities per row into a 1-D signal over the
// page height.
func rowProfile(m gocv.Mat) []float64 {
	sums := gocv.NewMat()
	defer sums.Close()
	gocv.Reduce(m, &sums, 1, gocv.ReduceSum, gocv.MatTypeCV64F)

	rows := sums.Rows()
	profile := make([]float64, rows)
	for y := 0; y < rows; y++ {
		profile[y] = sums.GetDoubleAt(y, 0)
	}
	return profile
}

// smooth applies a Gaussian kernel with the given sigma to the profile,
// suppressing single-row noise before peak detection.
func smooth(profile []float64, sigma float64) []float64 {
	if sigma <= 0 || len(profile) == 0 {
		return profile
	}

	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	out := make([]float64, len(profile))
	for y := range profile {
		acc := 0.0
		for i, k := range kernel {
			src := y + i - radius
			// Replicate edge samples.
			if src < 0 {
				src = 0
			} else if src >= len(profile) {
				src = len(profile) - 1
			}
			acc += k * profile[src]
		}
		out[y] = acc
	}
	return out
}
