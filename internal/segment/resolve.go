// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment resolves per-exercise crop rectangles from label
// positions and staff-region geometry. Labels carry exercise identity
// and ordering; staff regions correct each boundary to a point between
// the last line of one exercise and the first line of the next.
// See docs/ARCHITECTURE § Boundary Resolver.
package segment

import (
	"github.com/pdiddy/scoresplit/pkg/types"
)

// ResolveByLabels produces one crop per label, covering the page
// contiguously: crop[i].Bottom == crop[i+1].Top for all i. Labels and
// regions must be sorted ascending by y-position. Every crop satisfies
// 0 <= Top < Bottom <= pageH and Bottom-Top >= cfg.MinHeight except
// when capped by the page edge. Labels left with no rows after a crop
// is capped at the page bottom are absorbed into that crop rather than
// resolved to degenerate rectangles.
func ResolveByLabels(labels []types.Label, regions []types.StaffRegion, pageW, pageH int, cfg types.SegmentConfig) []types.Crop {
	if len(labels) == 0 || pageH <= 0 {
		return nil
	}

	crops := make([]types.Crop, 0, len(labels))
	top := labels[0].Y - float64(cfg.FirstLeadIn)
	if top < 0 {
		top = 0
	}
	prevBottom := int(top)

	for i, l := range labels {
		// Once a capped floor extension has consumed the rest of the
		// page, the remaining labels have no rows left; the crop that
		// reached the bottom absorbs them.
		if prevBottom >= pageH {
			break
		}

		c := types.Crop{
			Number: l.Number,
			Top:    prevBottom,
			Left:   0,
			Right:  pageW,
		}

		if i == len(labels)-1 {
			c.Bottom = pageH
		} else {
			c.Bottom = boundary(l.Y, labels[i+1].Y, regions, c.Top, cfg)
		}

		if c.Bottom-c.Top < cfg.MinHeight {
			c.Bottom = c.Top + cfg.MinHeight
		}
		if c.Bottom > pageH {
			c.Bottom = pageH
		}

		// The next crop starts where this one ends, before any bleed
		// or padding is applied.
		prevBottom = c.Bottom
		crops = append(crops, c)
	}
	return crops
}

// boundary resolves the bottom edge of the exercise whose label sits at
// y, given the next label at nextY. The label gap alone mis-splits
// because the printed number does not align with the true visual break,
// so the last staff region between the two labels anchors the boundary
// when it yields a tighter cut.
func boundary(y, nextY float64, regions []types.StaffRegion, top int, cfg types.SegmentConfig) int {
	bottom := int(nextY) - cfg.LabelGap

	anchor, ok := lastRegionBetween(regions, y, nextY)
	if ok {
		anchored := anchor + cfg.TrailMargin
		if anchored < bottom && anchored > top {
			bottom = anchored
		}
	}
	return bottom
}

// lastRegionBetween returns the largest region strictly between lo and
// hi, and whether one exists.
func lastRegionBetween(regions []types.StaffRegion, lo, hi float64) (int, bool) {
	last, found := 0, false
	for _, r := range regions {
		if float64(r) > lo && float64(r) < hi {
			last = r
			found = true
		}
	}
	return last, found
}
