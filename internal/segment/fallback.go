// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"github.com/pdiddy/scoresplit/pkg/types"
)

// ResolveByRegions groups staff-region peaks into exercise clusters
// using only their mutual spacing: consecutive peaks separated by less
// than cfg.GapThreshold belong to the same group; a separation at or
// above it starts a new one. Each group's crop spans from its first
// peak minus TopMargin to its last peak plus BottomMargin, clamped to
// page bounds. Groups are numbered sequentially from 1 within the page.
// Regions must be sorted ascending.
func ResolveByRegions(regions []types.StaffRegion, pageW, pageH int, cfg types.FallbackConfig) []types.Crop {
	if len(regions) == 0 || pageH <= 0 {
		return nil
	}

	var groups [][2]int
	start := regions[0]
	last := regions[0]
	for _, r := range regions[1:] {
		if r-last >= cfg.GapThreshold {
			groups = append(groups, [2]int{start, last})
			start = r
		}
		last = r
	}
	groups = append(groups, [2]int{start, last})

	crops := make([]types.Crop, 0, len(groups))
	for i, g := range groups {
		top := g[0] - cfg.TopMargin
		if top < 0 {
			top = 0
		}
		bottom := g[1] + cfg.BottomMargin
		if bottom > pageH {
			bottom = pageH
		}
		crops = append(crops, types.Crop{
			Number: i + 1,
			Top:    top,
			Bottom: bottom,
			Left:   0,
			Right:  pageW,
		})
	}
	return crops
}
