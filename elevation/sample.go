package elevation

import (
	"math"
)

// RegionMean maps a pixel-space bounding box onto the grid and returns the
// mean of the covered cells. The bbox is [x1,y1,x2,y2] in an image of
// imgWidth x imgHeight pixels; coordinate order within each axis does not
// matter. The index range is clamped to the grid, and a bbox that misses
// the grid entirely samples as 0.
func RegionMean(g *Grid, bbox []float64, imgWidth, imgHeight int) float64 {
	if !g.HasData() || len(bbox) != 4 || imgWidth <= 0 || imgHeight <= 0 {
		return 0
	}
	x1, x2 := math.Min(bbox[0], bbox[2]), math.Max(bbox[0], bbox[2])
	y1, y2 := math.Min(bbox[1], bbox[3]), math.Max(bbox[1], bbox[3])

	c1, c2 := pixelSpanToIndexRange(x1, x2, imgWidth, g.cols)
	r1, r2 := pixelSpanToIndexRange(y1, y2, imgHeight, g.rows)
	if c1 >= c2 || r1 >= r2 {
		return 0
	}

	total := 0.0
	n := 0
	for r := r1; r < r2; r++ {
		for c := c1; c < c2; c++ {
			total += g.At(r, c)
			n++
		}
	}
	return total / float64(n)
}

// pixelSpanToIndexRange converts a pixel interval [lo, hi] on an axis of
// extent pixels into a half-open grid index range [from, to), clamped to
// [0, cells). The range always covers at least one cell when the interval
// touches the image at all.
func pixelSpanToIndexRange(lo, hi float64, extent, cells int) (int, int) {
	scale := float64(cells) / float64(extent)
	from := int(math.Floor(lo * scale))
	to := int(math.Ceil(hi * scale))
	if to == from {
		to = from + 1
	}
	if from < 0 {
		from = 0
	}
	if to > cells {
		to = cells
	}
	return from, to
}
