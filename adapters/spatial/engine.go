// Package spatial implements the single-grid pattern statistics: hot/cold
// spot detection, value clustering, global Moran's I, and grid differencing.
// Every computation reads only mask-included cells.
package spatial

import (
	"math"

	"github.com/montanaflynn/stats"

	"vegtrend/domain/raster"
	"vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

// Engine computes spatial pattern statistics. Stateless and safe for
// concurrent use; all tunables arrive as explicit per-call configs.
type Engine struct{}

// NewEngine creates a spatial engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Summary computes the descriptive statistics of the masked population.
func (e *Engine) Summary(grid raster.Grid, mask raster.Mask) (*spatial.GridSummary, error) {
	if err := raster.ValidateShape(grid, mask); err != nil {
		return nil, err
	}
	values := raster.MaskedValues(grid, mask)
	if len(values) == 0 {
		return nil, errors.DegenerateInput("all cells are masked out")
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	std, _ := stats.StandardDeviationPopulation(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	quartiles, err := stats.Quartile(values)
	if err != nil {
		return nil, errors.Wrap(err, "quartiles")
	}

	cv := 0.0
	if mean != 0 {
		cv = std / math.Abs(mean) * 100
	}

	summary := &spatial.GridSummary{
		N:      len(values),
		Mean:   mean,
		Median: median,
		Std:    std,
		Min:    min,
		Max:    max,
		Range:  max - min,
		CV:     cv,
		Q1:     quartiles.Q1,
		Q3:     quartiles.Q3,
		IQR:    quartiles.Q3 - quartiles.Q1,
	}
	if err := finiteAll("grid summary", mean, median, std, min, max, cv); err != nil {
		return nil, err
	}
	return summary, nil
}

// finiteAll validates computed statistics before they leave the engine.
func finiteAll(context string, values ...float64) error {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.NumericalInstability("non-finite value in " + context)
		}
	}
	return nil
}
