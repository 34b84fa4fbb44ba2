// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output turns raw exercise crops into final padded image
// files. See docs/ARCHITECTURE § Padding Normalizer.
package output

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/pdiddy/scoresplit/pkg/types"
)

// white is the constant border fill for padded output.
var white = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// Normalize produces the final output image for a crop: clip the side
// margins, add a uniform white border on all four sides, and run a
// light 2x2 morphological closing on the intensity channel to remove
// scan speckles. Single- and multi-channel inputs are handled
// identically and the original channel layout is restored. Output
// dimensions are exactly (h + 2*Border) x (w - 2*SideMargin + 2*Border).
// The caller owns the returned Mat and must Close it.
func Normalize(crop gocv.Mat, cfg types.OutputConfig) (gocv.Mat, error) {
	if crop.Empty() {
		return gocv.Mat{}, fmt.Errorf("normalizing crop: empty input")
	}

	clipped := clipSides(crop, cfg.SideMargin)
	defer clipped.Close()

	bordered := gocv.NewMat()
	defer bordered.Close()
	b := cfg.Border
	if b < 0 {
		b = 0
	}
	gocv.CopyMakeBorder(clipped, &bordered, b, b, b, b, gocv.BorderConstant, white)

	return denoise(bordered), nil
}

// clipSides removes margin columns from the left and right edges,
// skipped when the remaining width would be nonpositive.
func clipSides(m gocv.Mat, margin int) gocv.Mat {
	w, h := m.Cols(), m.Rows()
	if margin <= 0 || w-2*margin <= 0 {
		return m.Clone()
	}
	region := m.Region(image.Rect(margin, 0, w-margin, h))
	defer region.Close()
	return region.Clone()
}

// denoise applies a 2x2 morphological closing on the intensity channel
// and restores the input's channel count. Closing fills the one-pixel
// gaps rasterization leaves in thin strokes without moving edges.
func denoise(m gocv.Mat) gocv.Mat {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(2, 2))
	defer kernel.Close()

	if m.Channels() == 1 {
		out := gocv.NewMat()
		gocv.MorphologyEx(m, &out, gocv.MorphClose, kernel)
		return out
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(m, &gray, gocv.ColorBGRToGray)

	closed := gocv.NewMat()
	defer closed.Close()
	gocv.MorphologyEx(gray, &closed, gocv.MorphClose, kernel)

	out := gocv.NewMat()
	gocv.CvtColor(closed, &out, gocv.ColorGrayToBGR)
	return out
}
