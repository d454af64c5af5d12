package astro

import "math"

// DefaultMaxTrackPoints is the historical track length above which
// charts decimate the series before plotting. Scanned archive tracks
// can run to tens of thousands of rows, far more than a scatter glyph
// per point can usefully show.
const DefaultMaxTrackPoints = 2000

// DecimateTrack reduces a dated series to at most target points while
// preserving the visual shape of the track. It adapts the
// largest-triangle-three-buckets idea to a 2D track: points are
// bucketed in date order and each bucket keeps the point spanning the
// largest triangle with the previously kept point and the next
// bucket's centroid, measured in the XY plane. The first and last
// observations are always kept.
func DecimateTrack(hist DatedSeries, target int) DatedSeries {
	// Endpoints plus at least one interior bucket need three slots, so
	// smaller targets clamp up before the pass-through check. Tracks no
	// longer than the clamped target return unchanged.
	if target < 3 {
		target = 3
	}
	n := hist.Len()
	if target >= n || n == 0 {
		return hist
	}

	keep := make([]int, 0, target)
	keep = append(keep, 0)

	bucketSize := float64(n-2) / float64(target-2)
	a := 0

	for i := 0; i < target-2; i++ {
		// Centroid of the following bucket
		avgStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		avgEnd := int(math.Floor(float64(i+2)*bucketSize)) + 1
		if avgEnd > n {
			avgEnd = n
		}
		avgX := 0.0
		avgY := 0.0
		for j := avgStart; j < avgEnd; j++ {
			avgX += hist.X[j]
			avgY += hist.Y[j]
		}
		count := float64(avgEnd - avgStart)
		avgX /= count
		avgY /= count

		rangeStart := int(math.Floor(float64(i)*bucketSize)) + 1
		rangeEnd := int(math.Floor(float64(i+1)*bucketSize)) + 1

		ax := hist.X[a]
		ay := hist.Y[a]

		maxArea := -1.0
		best := rangeStart
		for j := rangeStart; j < rangeEnd; j++ {
			area := math.Abs((ax-avgX)*(hist.Y[j]-ay)-(ax-hist.X[j])*(avgY-ay)) * 0.5
			if area > maxArea {
				maxArea = area
				best = j
			}
		}

		keep = append(keep, best)
		a = best
	}

	keep = append(keep, n-1)

	out := DatedSeries{
		Series: Series{
			X: make([]float64, len(keep)),
			Y: make([]float64, len(keep)),
		},
		Dates: make([]float64, len(keep)),
	}
	for i, idx := range keep {
		out.X[i] = hist.X[idx]
		out.Y[i] = hist.Y[idx]
		out.Dates[i] = hist.Dates[idx]
	}
	return out
}
