package raster

import (
	"sort"
	"time"

	"vegtrend/internal/errors"
)

// Snapshot pairs one acquisition date with its grid.
type Snapshot struct {
	Date time.Time `json:"date"`
	Grid Grid      `json:"-"`
}

// Stack is the in-memory hand-off from the grid & mask provider: one grid per
// acquisition date plus a single inclusion mask valid for every date. Dates
// need not be evenly spaced.
type Stack struct {
	Snapshots []Snapshot
	Mask      Mask
}

// NewStack builds a date-sorted stack from a date→grid mapping and validates
// that every grid matches the mask shape and that no date repeats.
func NewStack(grids map[time.Time]Grid, mask Mask) (*Stack, error) {
	if len(grids) == 0 {
		return nil, errors.InsufficientData("stack requires at least one dated grid")
	}
	snapshots := make([]Snapshot, 0, len(grids))
	for date, grid := range grids {
		if err := ValidateShape(grid, mask); err != nil {
			return nil, errors.Wrapf(err, "grid for %s", date.Format("2006-01-02"))
		}
		snapshots = append(snapshots, Snapshot{Date: date, Grid: grid})
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].Date.Before(snapshots[j].Date) })
	return &Stack{Snapshots: snapshots, Mask: mask}, nil
}

// Dates returns the acquisition dates in chronological order.
func (s *Stack) Dates() []time.Time {
	dates := make([]time.Time, len(s.Snapshots))
	for i, snap := range s.Snapshots {
		dates[i] = snap.Date
	}
	return dates
}

// TemporalMean computes the per-pixel mean across all dates. The result keeps
// the stack's shape; excluded cells are left at zero and must only be read
// through the mask.
func (s *Stack) TemporalMean() (Grid, error) {
	if len(s.Snapshots) == 0 {
		return nil, errors.InsufficientData("stack has no snapshots")
	}
	rows, cols := s.Mask.Rows(), s.Mask.Cols()
	mean := make(Grid, rows)
	for i := range mean {
		mean[i] = make([]float64, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !s.Mask[i][j] {
				continue
			}
			sum := 0.0
			for _, snap := range s.Snapshots {
				sum += snap.Grid[i][j]
			}
			mean[i][j] = sum / float64(len(s.Snapshots))
		}
	}
	return mean, nil
}

// SpatialMeans reduces every snapshot to the mean over included cells,
// producing the aggregate value used for region-level temporal analysis.
func (s *Stack) SpatialMeans() ([]float64, error) {
	n := s.Mask.Count()
	if n == 0 {
		return nil, errors.DegenerateInput("all cells are masked out")
	}
	means := make([]float64, len(s.Snapshots))
	for k, snap := range s.Snapshots {
		sum := 0.0
		for i := range snap.Grid {
			for j := range snap.Grid[i] {
				if s.Mask[i][j] {
					sum += snap.Grid[i][j]
				}
			}
		}
		means[k] = sum / float64(n)
	}
	return means, nil
}
