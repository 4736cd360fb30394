// Package testkit generates seeded synthetic series and rasters with known
// statistical structure, for tests and local demo runs.
package testkit

import (
	"context"
	"math/rand"
	"time"

	"vegtrend/domain/core"
	"vegtrend/domain/raster"
	"vegtrend/domain/timeseries"
	"vegtrend/internal/errors"
)

// BaseDate anchors generated series at a fixed, reproducible origin.
var BaseDate = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// LinearSeries builds n observations stepDays apart following
// start + slopePerDay*t exactly.
func LinearSeries(start, slopePerDay float64, n, stepDays int) timeseries.Series {
	series := make(timeseries.Series, n)
	for i := 0; i < n; i++ {
		days := i * stepDays
		series[i] = timeseries.Observation{
			Date:  BaseDate.AddDate(0, 0, days),
			Value: start + slopePerDay*float64(days),
		}
	}
	return series
}

// NoisySeries adds seeded uniform noise of the given amplitude to a linear
// series.
func NoisySeries(start, slopePerDay float64, n, stepDays int, noise float64, seed int64) timeseries.Series {
	rng := rand.New(rand.NewSource(seed))
	series := LinearSeries(start, slopePerDay, n, stepDays)
	for i := range series {
		series[i].Value += (rng.Float64()*2 - 1) * noise
	}
	return series
}

// PiecewiseSeries follows slope1 for the first half and slope2 afterwards,
// switching at the midpoint observation.
func PiecewiseSeries(start, slope1, slope2 float64, n, stepDays int) timeseries.Series {
	series := make(timeseries.Series, n)
	mid := n / 2
	value := start
	for i := 0; i < n; i++ {
		series[i] = timeseries.Observation{
			Date:  BaseDate.AddDate(0, 0, i*stepDays),
			Value: value,
		}
		if i < mid {
			value += slope1 * float64(stepDays)
		} else {
			value += slope2 * float64(stepDays)
		}
	}
	return series
}

// FullMask includes every cell.
func FullMask(rows, cols int) raster.Mask {
	mask := make(raster.Mask, rows)
	for i := range mask {
		mask[i] = make([]bool, cols)
		for j := range mask[i] {
			mask[i][j] = true
		}
	}
	return mask
}

// ConstantGrid fills every cell with one value.
func ConstantGrid(rows, cols int, value float64) raster.Grid {
	grid := make(raster.Grid, rows)
	for i := range grid {
		grid[i] = make([]float64, cols)
		for j := range grid[i] {
			grid[i][j] = value
		}
	}
	return grid
}

// UniformGrid fills cells with seeded uniform values in [lo, hi).
func UniformGrid(rows, cols int, lo, hi float64, seed int64) raster.Grid {
	rng := rand.New(rand.NewSource(seed))
	grid := make(raster.Grid, rows)
	for i := range grid {
		grid[i] = make([]float64, cols)
		for j := range grid[i] {
			grid[i][j] = lo + rng.Float64()*(hi-lo)
		}
	}
	return grid
}

// BimodalGrid alternates cells between two seeded narrow bands around the
// given centers, producing a clean two-cluster value distribution.
func BimodalGrid(rows, cols int, low, high float64, seed int64) raster.Grid {
	rng := rand.New(rand.NewSource(seed))
	grid := make(raster.Grid, rows)
	for i := range grid {
		grid[i] = make([]float64, cols)
		for j := range grid[i] {
			center := low
			if (i*cols+j)%2 == 1 {
				center = high
			}
			grid[i][j] = center + (rng.Float64()*2-1)*0.02
		}
	}
	return grid
}

// SetBlock overwrites a rectangular block of cells with one value.
func SetBlock(grid raster.Grid, row, col, height, width int, value float64) {
	for i := row; i < row+height; i++ {
		for j := col; j < col+width; j++ {
			grid[i][j] = value
		}
	}
}

// TrendStack builds a dated stack whose spatial mean declines (or rises)
// linearly at slopePerDay, with seeded per-cell jitter.
func TrendStack(rows, cols, dates, stepDays int, start, slopePerDay, jitter float64, seed int64) (*raster.Stack, error) {
	rng := rand.New(rand.NewSource(seed))
	grids := make(map[time.Time]raster.Grid, dates)
	for d := 0; d < dates; d++ {
		level := start + slopePerDay*float64(d*stepDays)
		grid := make(raster.Grid, rows)
		for i := range grid {
			grid[i] = make([]float64, cols)
			for j := range grid[i] {
				grid[i][j] = level + (rng.Float64()*2-1)*jitter
			}
		}
		grids[BaseDate.AddDate(0, 0, d*stepDays)] = grid
	}
	return raster.NewStack(grids, FullMask(rows, cols))
}

// MemoryProvider serves pre-built stacks, standing in for the external grid
// & mask collaborator.
type MemoryProvider struct {
	Stacks map[core.IndexKey]*raster.Stack
	Order  []core.IndexKey
}

// NewMemoryProvider creates a provider over the given stacks, preserving
// insertion order of keys.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{Stacks: make(map[core.IndexKey]*raster.Stack)}
}

// Add registers one index stack.
func (p *MemoryProvider) Add(key core.IndexKey, stack *raster.Stack) {
	if _, exists := p.Stacks[key]; !exists {
		p.Order = append(p.Order, key)
	}
	p.Stacks[key] = stack
}

// Indices lists registered index keys in insertion order.
func (p *MemoryProvider) Indices(ctx context.Context) ([]core.IndexKey, error) {
	return append([]core.IndexKey(nil), p.Order...), nil
}

// Load returns the stack registered for key.
func (p *MemoryProvider) Load(ctx context.Context, key core.IndexKey) (*raster.Stack, error) {
	stack, ok := p.Stacks[key]
	if !ok {
		return nil, errors.InvalidConfiguration("unknown index " + key.String())
	}
	return stack, nil
}
