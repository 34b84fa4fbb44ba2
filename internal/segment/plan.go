// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"github.com/pdiddy/scoresplit/pkg/types"
)

// PagePlan is the segmentation decision for one page: which strategy
// was chosen and the crops it produced.
type PagePlan struct {
	Strategy types.Strategy
	Crops    []types.Crop
}

// Plan chooses the segmentation strategy for a page. The fallback chain
// is driven purely by the emptiness of intermediate results, never by
// raised failures: labels drive segmentation when present; otherwise
// staff-region clustering; otherwise the whole page is one unit. A page
// of nonzero height always yields at least one crop.
func Plan(labels []types.Label, regions []types.StaffRegion, pageW, pageH int, segCfg types.SegmentConfig, fbCfg types.FallbackConfig) PagePlan {
	if len(labels) > 0 {
		return PagePlan{
			Strategy: types.StrategyLabels,
			Crops:    ResolveByLabels(labels, regions, pageW, pageH, segCfg),
		}
	}
	if len(regions) > 0 {
		return PagePlan{
			Strategy: types.StrategyVisual,
			Crops:    ResolveByRegions(regions, pageW, pageH, fbCfg),
		}
	}
	return PagePlan{
		Strategy: types.StrategyWholePage,
		Crops: []types.Crop{{
			Number: 1,
			Top:    0,
			Bottom: pageH,
			Left:   0,
			Right:  pageW,
		}},
	}
}
