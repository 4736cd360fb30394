package spatial

import (
	"github.com/montanaflynn/stats"

	"vegtrend/domain/raster"
	"vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

// HotColdConfig selects and parameterizes the detection strategy.
type HotColdConfig struct {
	Method spatial.HotColdMethod
	// ZThreshold is the z-score cutoff for the zscore method.
	ZThreshold float64
	// IQRFactor is the fence multiplier k for the iqr method.
	IQRFactor float64
}

// DefaultHotColdConfig returns the zscore strategy at 1.5 sigma.
func DefaultHotColdConfig() HotColdConfig {
	return HotColdConfig{
		Method:     spatial.MethodZScore,
		ZThreshold: 1.5,
		IQRFactor:  1.5,
	}
}

// spotDetector derives the cold/hot bounds for one masked population. A flat
// population short-circuits to all-neutral rather than dividing by zero.
type spotDetector interface {
	bounds(values []float64) (lo, hi float64, flat bool, err error)
}

type zscoreDetector struct{ threshold float64 }

func (d zscoreDetector) bounds(values []float64) (float64, float64, bool, error) {
	mean, _ := stats.Mean(values)
	std, _ := stats.StandardDeviationPopulation(values)
	if std == 0 {
		return 0, 0, true, nil
	}
	return mean - d.threshold*std, mean + d.threshold*std, false, nil
}

type iqrDetector struct{ factor float64 }

func (d iqrDetector) bounds(values []float64) (float64, float64, bool, error) {
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)
	if min == max {
		return 0, 0, true, nil
	}
	quartiles, err := stats.Quartile(values)
	if err != nil {
		return 0, 0, false, errors.Wrap(err, "quartiles")
	}
	iqr := quartiles.Q3 - quartiles.Q1
	return quartiles.Q1 - d.factor*iqr, quartiles.Q3 + d.factor*iqr, false, nil
}

func newDetector(cfg HotColdConfig) (spotDetector, error) {
	switch cfg.Method {
	case spatial.MethodZScore:
		return zscoreDetector{threshold: cfg.ZThreshold}, nil
	case spatial.MethodIQR:
		return iqrDetector{factor: cfg.IQRFactor}, nil
	default:
		return nil, errors.InvalidConfiguration("unknown hot/cold method " + string(cfg.Method))
	}
}

// HotCold classifies every masked cell as hotspot, coldspot, or neutral
// against the masked population, using the configured strategy.
func (e *Engine) HotCold(grid raster.Grid, mask raster.Mask, cfg HotColdConfig) (*spatial.HotColdResult, error) {
	if err := raster.ValidateShape(grid, mask); err != nil {
		return nil, err
	}
	detector, err := newDetector(cfg)
	if err != nil {
		return nil, err
	}

	values := raster.MaskedValues(grid, mask)
	if len(values) == 0 {
		return nil, errors.DegenerateInput("all cells are masked out")
	}
	mean, _ := stats.Mean(values)

	lo, hi, flat, err := detector.bounds(values)
	if err != nil {
		return nil, err
	}

	classes := make([][]spatial.SpotClass, mask.Rows())
	for i := range classes {
		classes[i] = make([]spatial.SpotClass, mask.Cols())
		for j := range classes[i] {
			classes[i][j] = spatial.SpotExcluded
		}
	}

	var hotSum, coldSum, neutralSum float64
	var hotN, coldN, neutralN int
	for i := range grid {
		for j := range grid[i] {
			if !mask[i][j] {
				continue
			}
			v := grid[i][j]
			class := spatial.SpotNeutral
			if !flat {
				switch {
				case v > hi:
					class = spatial.SpotHot
				case v < lo:
					class = spatial.SpotCold
				}
			}
			classes[i][j] = class
			switch class {
			case spatial.SpotHot:
				hotN++
				hotSum += v
			case spatial.SpotCold:
				coldN++
				coldSum += v
			default:
				neutralN++
				neutralSum += v
			}
		}
	}

	total := len(values)
	result := &spatial.HotColdResult{
		Method:   cfg.Method,
		Classes:  classes,
		Total:    total,
		AllFlat:  flat,
		MeanUsed: mean,
		HotPct:   float64(hotN) / float64(total) * 100,
		ColdPct:  float64(coldN) / float64(total) * 100,
	}
	result.Hot = spotSummary(hotN, hotSum)
	result.Cold = spotSummary(coldN, coldSum)
	result.Neutral = spotSummary(neutralN, neutralSum)
	return result, nil
}

func spotSummary(n int, sum float64) spatial.SpotSummary {
	s := spatial.SpotSummary{Count: n}
	if n > 0 {
		s.Mean = sum / float64(n)
	}
	return s
}
