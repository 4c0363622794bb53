// Package elevation holds the depth/height grid produced by the external
// depth-estimation service and the normalization and sampling used to place
// reconstructed objects vertically.
package elevation

import (
	"github.com/pkg/errors"
)

// Grid is a rectangular rows x cols grid of elevation samples. The zero
// value has no data.
type Grid struct {
	rows int
	cols int

	data []float64
}

// NewGrid builds a grid from row-major values. Every row must have the same
// length.
func NewGrid(values [][]float64) (*Grid, error) {
	if len(values) == 0 {
		return &Grid{}, nil
	}
	cols := len(values[0])
	g := &Grid{rows: len(values), cols: cols, data: make([]float64, 0, len(values)*cols)}
	for i, row := range values {
		if len(row) != cols {
			return nil, errors.Errorf("grid is not rectangular: row 0 has %d columns, row %d has %d", cols, i, len(row))
		}
		g.data = append(g.data, row...)
	}
	return g, nil
}

// NewEmptyGrid builds a zero-filled grid of the given dimensions.
func NewEmptyGrid(rows, cols int) *Grid {
	if rows <= 0 || cols <= 0 {
		return &Grid{}
	}
	return &Grid{rows: rows, cols: cols, data: make([]float64, rows*cols)}
}

// HasData reports whether the grid holds any samples.
func (g *Grid) HasData() bool {
	return g != nil && g.rows > 0 && g.cols > 0
}

// Rows returns the number of grid rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of grid columns.
func (g *Grid) Cols() int {
	return g.cols
}

// At returns the sample at the given row and column.
func (g *Grid) At(row, col int) float64 {
	return g.data[row*g.cols+col]
}

// Set overwrites the sample at the given row and column.
func (g *Grid) Set(row, col int, v float64) {
	g.data[row*g.cols+col] = v
}

// Values returns the grid as row-major nested slices, for serialization.
func (g *Grid) Values() [][]float64 {
	out := make([][]float64, g.rows)
	for r := 0; r < g.rows; r++ {
		row := make([]float64, g.cols)
		copy(row, g.data[r*g.cols:(r+1)*g.cols])
		out[r] = row
	}
	return out
}
