// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"testing"

	"github.com/pdiddy/scoresplit/pkg/types"
)

func testSegmentConfig() types.SegmentConfig {
	return types.SegmentConfig{
		FirstLeadIn: 200,
		LabelGap:    20,
		TrailMargin: 60,
		MinHeight:   200,
		TopBleed:    40,
		BottomBleed: 20,
	}
}

func labelAt(number int, y float64) types.Label {
	return types.Label{Number: number, Y: y}
}

// checkInvariants verifies the resolved crops tile the page: ascending,
// contiguous, within bounds.
func checkInvariants(t *testing.T, crops []types.Crop, pageH int) {
	t.Helper()
	for i, c := range crops {
		if c.Top < 0 || c.Bottom > pageH || c.Top >= c.Bottom {
			t.Errorf("crop[%d] bounds invalid: top=%d bottom=%d pageH=%d", i, c.Top, c.Bottom, pageH)
		}
		if i > 0 && crops[i-1].Bottom != c.Top {
			t.Errorf("gap between crop[%d].Bottom=%d and crop[%d].Top=%d", i-1, crops[i-1].Bottom, i, c.Top)
		}
	}
}

func TestResolveByLabels_StaffAnchoredBoundary(t *testing.T) {
	// Two labels in page points at y=100 and y=500, scale 2.0 puts
	// them at pixel rows 200 and 1000 on a 2000px page. Staff regions
	// sit under the first exercise and below the second label.
	labels := []types.Label{labelAt(1, 200), labelAt(2, 1000)}
	regions := []types.StaffRegion{360, 440, 520, 1080, 1160}

	crops := ResolveByLabels(labels, regions, 1600, 2000, testSegmentConfig())
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(crops))
	}
	checkInvariants(t, crops, 2000)

	// Lead-in 200 clamps the first top to 0.
	if crops[0].Top != 0 {
		t.Errorf("crop[0].Top = %d, want 0", crops[0].Top)
	}
	// The last staff region before the next label (520) plus the trail
	// margin beats the label-gap candidate 1000-20=980.
	if crops[0].Bottom != 580 {
		t.Errorf("crop[0].Bottom = %d, want 580 (staff anchor 520+60)", crops[0].Bottom)
	}
	if crops[1].Top != 580 {
		t.Errorf("crop[1].Top = %d, want crop[0].Bottom", crops[1].Top)
	}
	// Last exercise runs to the page bottom.
	if crops[1].Bottom != 2000 {
		t.Errorf("crop[1].Bottom = %d, want 2000", crops[1].Bottom)
	}
	if crops[0].Number != 1 || crops[1].Number != 2 {
		t.Errorf("crop numbers = %d, %d, want 1, 2", crops[0].Number, crops[1].Number)
	}
}

func TestResolveByLabels_LabelGapFallback(t *testing.T) {
	// No staff region between the labels: the boundary falls back to
	// the next label's position minus the gap.
	labels := []types.Label{labelAt(1, 300), labelAt(2, 900)}
	regions := []types.StaffRegion{1500} // below both labels

	crops := ResolveByLabels(labels, regions, 1600, 2000, testSegmentConfig())
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(crops))
	}
	checkInvariants(t, crops, 2000)
	if crops[0].Bottom != 880 {
		t.Errorf("crop[0].Bottom = %d, want 880 (900-20)", crops[0].Bottom)
	}
}

func TestResolveByLabels_MinHeightFloor(t *testing.T) {
	// Two labels 50px apart: the computed boundary would leave a 130px
	// crop, below the 200px floor.
	labels := []types.Label{labelAt(1, 100), labelAt(2, 150)}

	crops := ResolveByLabels(labels, nil, 1600, 2000, testSegmentConfig())
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(crops))
	}
	checkInvariants(t, crops, 2000)
	if crops[0].Top != 0 {
		t.Errorf("crop[0].Top = %d, want 0", crops[0].Top)
	}
	if crops[0].Bottom != 200 {
		t.Errorf("crop[0].Bottom = %d, want extended to top+200", crops[0].Bottom)
	}
	if crops[1].Top != 200 {
		t.Errorf("crop[1].Top = %d, want 200", crops[1].Top)
	}
}

func TestResolveByLabels_FloorCappedAtPageBottom(t *testing.T) {
	// The last label sits near the page bottom; the floor cannot push
	// past the page edge.
	labels := []types.Label{labelAt(1, 300), labelAt(2, 1950)}

	crops := ResolveByLabels(labels, nil, 1600, 2000, testSegmentConfig())
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2", len(crops))
	}
	checkInvariants(t, crops, 2000)
	if crops[1].Bottom != 2000 {
		t.Errorf("crop[1].Bottom = %d, want 2000", crops[1].Bottom)
	}
}

func TestResolveByLabels_FirstLeadIn(t *testing.T) {
	// A label far from the page top keeps the full lead-in.
	labels := []types.Label{labelAt(3, 600)}

	crops := ResolveByLabels(labels, nil, 1600, 2000, testSegmentConfig())
	if len(crops) != 1 {
		t.Fatalf("got %d crops, want 1", len(crops))
	}
	if crops[0].Top != 400 {
		t.Errorf("crop[0].Top = %d, want 400 (600-200)", crops[0].Top)
	}
	if crops[0].Bottom != 2000 {
		t.Errorf("crop[0].Bottom = %d, want 2000", crops[0].Bottom)
	}
}

func TestResolveByLabels_ManyLabelsContiguous(t *testing.T) {
	labels := []types.Label{
		labelAt(1, 250), labelAt(2, 750), labelAt(3, 1250), labelAt(4, 1750),
	}
	regions := []types.StaffRegion{400, 500, 900, 1000, 1400, 1500, 1900}

	crops := ResolveByLabels(labels, regions, 1600, 2200, testSegmentConfig())
	if len(crops) != 4 {
		t.Fatalf("got %d crops, want 4", len(crops))
	}
	checkInvariants(t, crops, 2200)
	for i, c := range crops {
		if i < len(crops)-1 && c.Height() < 200 {
			t.Errorf("crop[%d] height %d below floor", i, c.Height())
		}
	}
}

func TestResolveByLabels_LabelsCrowdedAtPageBottom(t *testing.T) {
	// The middle crop's floor extension caps at the page bottom, leaving
	// no rows for the third label. It merges into the capped crop
	// instead of resolving to a zero-height rectangle.
	labels := []types.Label{labelAt(1, 1700), labelAt(2, 1990), labelAt(3, 1995)}

	crops := ResolveByLabels(labels, nil, 1600, 2000, testSegmentConfig())
	if len(crops) != 2 {
		t.Fatalf("got %d crops, want 2 (trailing label absorbed)", len(crops))
	}
	checkInvariants(t, crops, 2000)
	for i, c := range crops {
		if c.Top >= c.Bottom {
			t.Errorf("crop[%d] degenerate: top=%d bottom=%d", i, c.Top, c.Bottom)
		}
	}
	if crops[1].Bottom != 2000 {
		t.Errorf("crop[1].Bottom = %d, want capped at 2000", crops[1].Bottom)
	}
}

func TestResolveByLabels_Empty(t *testing.T) {
	if crops := ResolveByLabels(nil, nil, 1600, 2000, testSegmentConfig()); crops != nil {
		t.Errorf("ResolveByLabels(nil) = %v, want nil", crops)
	}
}

func TestResolveByLabels_CropWidth(t *testing.T) {
	labels := []types.Label{labelAt(1, 400)}

	crops := ResolveByLabels(labels, nil, 1234, 2000, testSegmentConfig())
	if len(crops) != 1 {
		t.Fatalf("got %d crops, want 1", len(crops))
	}
	if crops[0].Left != 0 || crops[0].Right != 1234 {
		t.Errorf("crop spans [%d, %d), want [0, 1234)", crops[0].Left, crops[0].Right)
	}
}
