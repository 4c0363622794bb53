package elevation

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Normalize rescales every sample into [0, targetMaxHeight] by a min-max
// scan over the whole grid. A flat grid (max == min) normalizes to all
// zeros: "no relief" is zero elevation, not an error. The output grid has
// the same dimensions as the input; the input is not modified.
func Normalize(g *Grid, targetMaxHeight float64) *Grid {
	if !g.HasData() {
		return &Grid{}
	}
	out := NewEmptyGrid(g.rows, g.cols)
	low := floats.Min(g.data)
	high := floats.Max(g.data)
	if high == low {
		return out
	}
	span := high - low
	for i, v := range g.data {
		out.data[i] = (v - low) / span * targetMaxHeight
	}
	return out
}

// Summary is a cheap stand-in for a full grid when downstream consumers
// only need its shape and average relief.
type Summary struct {
	Rows int     `json:"rows"`
	Cols int     `json:"cols"`
	Mean float64 `json:"mean"`
}

// Summarize computes a transport summary of the grid.
func Summarize(g *Grid) Summary {
	if !g.HasData() {
		return Summary{}
	}
	return Summary{Rows: g.rows, Cols: g.cols, Mean: stat.Mean(g.data, nil)}
}
