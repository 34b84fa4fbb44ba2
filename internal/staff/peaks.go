// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package staff

// findPeaks returns the indices of local maxima in signal that satisfy
// three joint constraints: absolute height at least minHeight, at least
// minDistance samples from any taller accepted peak, and a run of at
// least minWidth samples above half the peak's height around the peak.
// Plateaus count as a single peak at their midpoint. Indices are
// returned in ascending order.
func findPeaks(signal []float64, minHeight float64, minDistance, minWidth int) []int {
	candidates := localMaxima(signal)

	var qualified []int
	for _, idx := range candidates {
		if signal[idx] < minHeight {
			continue
		}
		if minWidth > 0 && widthAtHalfHeight(signal, idx) < minWidth {
			continue
		}
		qualified = append(qualified, idx)
	}

	return enforceDistance(signal, qualified, minDistance)
}

// localMaxima finds strict local maxima, reducing each flat plateau to
// its midpoint sample.
func localMaxima(signal []float64) []int {
	var maxima []int
	n := len(signal)
	i := 1
	for i < n-1 {
		if signal[i] <= signal[i-1] {
			i++
			continue
		}
		// Rising edge at i; walk the plateau.
		j := i
		for j < n-1 && signal[j+1] == signal[j] {
			j++
		}
		if j < n-1 && signal[j+1] < signal[j] {
			maxima = append(maxima, (i+j)/2)
		}
		i = j + 1
	}
	return maxima
}

// widthAtHalfHeight counts the contiguous samples around idx whose
// value stays at or above half the peak's height.
func widthAtHalfHeight(signal []float64, idx int) int {
	half := signal[idx] / 2
	width := 1
	for i := idx - 1; i >= 0 && signal[i] >= half; i-- {
		width++
	}
	for i := idx + 1; i < len(signal) && signal[i] >= half; i++ {
		width++
	}
	return width
}

// enforceDistance keeps the tallest peaks first and drops any peak
// closer than minDistance to one already kept, then restores ascending
// index order.
func enforceDistance(signal []float64, peaks []int, minDistance int) []int {
	if minDistance <= 1 || len(peaks) == 0 {
		return peaks
	}

	order := make([]int, len(peaks))
	copy(order, peaks)
	// Insertion sort by descending height; peak counts are small.
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && signal[order[j]] > signal[order[j-1]]; j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	var kept []int
	for _, p := range order {
		tooClose := false
		for _, k := range kept {
			if abs(p-k) < minDistance {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, p)
		}
	}

	// Back to ascending index order.
	for i := 1; i < len(kept); i++ {
		for j := i; j > 0 && kept[j] < kept[j-1]; j-- {
			kept[j], kept[j-1] = kept[j-1], kept[j]
		}
	}
	return kept
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
