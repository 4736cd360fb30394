package spatial

import (
	"math"

	"vegtrend/domain/raster"
	"vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

// Difference subtracts an earlier grid from a later one cell by cell and
// classifies each masked cell as strong increase, strong decrease, or stable.
// The change threshold is half the standard deviation of the difference
// population.
func (e *Engine) Difference(earlier, later raster.Grid, mask raster.Mask) (*spatial.DifferenceResult, error) {
	if err := raster.ValidateShape(earlier, mask); err != nil {
		return nil, err
	}
	if err := raster.ValidateShape(later, mask); err != nil {
		return nil, err
	}
	n := mask.Count()
	if n == 0 {
		return nil, errors.DegenerateInput("all cells are masked out")
	}

	rows, cols := mask.Rows(), mask.Cols()
	diff := make([][]float64, rows)
	var sum float64
	min, max := math.Inf(1), math.Inf(-1)
	for i := 0; i < rows; i++ {
		diff[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if !mask[i][j] {
				continue
			}
			d := later[i][j] - earlier[i][j]
			diff[i][j] = d
			sum += d
			if d < min {
				min = d
			}
			if d > max {
				max = d
			}
		}
	}
	mean := sum / float64(n)

	variance := 0.0
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if mask[i][j] {
				dv := diff[i][j] - mean
				variance += dv * dv
			}
		}
	}
	std := math.Sqrt(variance / float64(n))
	threshold := std * 0.5

	classes := make([][]spatial.DiffClass, rows)
	var inc, dec, stable int
	for i := 0; i < rows; i++ {
		classes[i] = make([]spatial.DiffClass, cols)
		for j := 0; j < cols; j++ {
			if !mask[i][j] {
				classes[i][j] = spatial.DiffExcluded
				continue
			}
			switch {
			case diff[i][j] > threshold:
				classes[i][j] = spatial.DiffIncrease
				inc++
			case diff[i][j] < -threshold:
				classes[i][j] = spatial.DiffDecrease
				dec++
			default:
				classes[i][j] = spatial.DiffStable
				stable++
			}
		}
	}

	if err := finiteAll("grid difference", mean, std, min, max); err != nil {
		return nil, err
	}

	return &spatial.DifferenceResult{
		Diff:        diff,
		Classes:     classes,
		Mean:        mean,
		Std:         std,
		Min:         min,
		Max:         max,
		Threshold:   threshold,
		Increase:    inc,
		Decrease:    dec,
		Stable:      stable,
		IncreasePct: float64(inc) / float64(n) * 100,
		DecreasePct: float64(dec) / float64(n) * 100,
		StablePct:   float64(stable) / float64(n) * 100,
	}, nil
}
