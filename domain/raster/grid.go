package raster

import (
	"vegtrend/internal/errors"
)

// Grid is a rectangular 2-D array of scalar cell values for one acquisition
// date. Row-major: Grid[row][col].
type Grid [][]float64

// Mask is a boolean inclusion grid of identical shape to its Grid. Only cells
// where the mask is true participate in spatial statistics; excluded cells are
// never read.
type Mask [][]bool

// Rows returns the number of grid rows.
func (g Grid) Rows() int { return len(g) }

// Cols returns the number of grid columns (0 for an empty grid).
func (g Grid) Cols() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Validate checks that the grid is rectangular.
func (g Grid) Validate() error {
	cols := g.Cols()
	for _, row := range g {
		if len(row) != cols {
			return errors.InvalidConfiguration("grid rows have unequal lengths")
		}
	}
	return nil
}

// Rows returns the number of mask rows.
func (m Mask) Rows() int { return len(m) }

// Cols returns the number of mask columns (0 for an empty mask).
func (m Mask) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

// Count returns the number of included cells.
func (m Mask) Count() int {
	n := 0
	for _, row := range m {
		for _, ok := range row {
			if ok {
				n++
			}
		}
	}
	return n
}

// ValidateShape checks that grid and mask share the same rectangular shape.
func ValidateShape(g Grid, m Mask) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if g.Rows() != m.Rows() || g.Cols() != m.Cols() {
		return errors.InvalidConfiguration("grid and mask shapes differ")
	}
	return nil
}

// MaskedValues collects the values of all included cells in row-major order.
func MaskedValues(g Grid, m Mask) []float64 {
	values := make([]float64, 0, m.Count())
	for i := range g {
		for j := range g[i] {
			if m[i][j] {
				values = append(values, g[i][j])
			}
		}
	}
	return values
}

// Adjacency selects the neighbor relation used by spatial weight matrices.
type Adjacency string

const (
	// Adjacency4 connects horizontal and vertical neighbors (rook).
	Adjacency4 Adjacency = "4-connected"
	// Adjacency8 additionally connects diagonal neighbors (queen).
	Adjacency8 Adjacency = "8-connected"
)

// Offsets returns the relative (row, col) neighbor offsets for the adjacency.
func (a Adjacency) Offsets() ([][2]int, error) {
	switch a {
	case Adjacency4:
		return [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}, nil
	case Adjacency8:
		return [][2]int{
			{-1, -1}, {-1, 0}, {-1, 1},
			{0, -1}, {0, 1},
			{1, -1}, {1, 0}, {1, 1},
		}, nil
	default:
		return nil, errors.InvalidConfiguration("unknown adjacency " + string(a))
	}
}
