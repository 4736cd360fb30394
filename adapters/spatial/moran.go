package spatial

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"vegtrend/domain/raster"
	"vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

// MoranConfig parameterizes global spatial autocorrelation.
type MoranConfig struct {
	Adjacency raster.Adjacency
	Alpha     float64
}

// DefaultMoranConfig returns 8-connected adjacency at the 0.05 level.
func DefaultMoranConfig() MoranConfig {
	return MoranConfig{
		Adjacency: raster.Adjacency8,
		Alpha:     0.05,
	}
}

// MoranI computes global Moran's I with a binary grid-adjacency weight
// matrix restricted to masked cells. The variance uses the randomization
// assumption, so significance does not presume normal values.
//
// The computation is a two-pass reduction: the mean over masked cells must be
// final before any deviation, moment, or weighted cross-product is summed.
func (e *Engine) MoranI(grid raster.Grid, mask raster.Mask, cfg MoranConfig) (*spatial.MoranResult, error) {
	if err := raster.ValidateShape(grid, mask); err != nil {
		return nil, err
	}
	offsets, err := cfg.Adjacency.Offsets()
	if err != nil {
		return nil, err
	}

	// The randomization variance divides by (n-1)(n-2)(n-3); fewer than 4
	// cells leaves no normalizable statistic.
	n := mask.Count()
	if n < 4 {
		return nil, errors.DegenerateInput("moran's i needs at least 4 masked cells")
	}

	// First pass: mean over masked cells only.
	sum := 0.0
	for i := range grid {
		for j := range grid[i] {
			if mask[i][j] {
				sum += grid[i][j]
			}
		}
	}
	mean := sum / float64(n)

	// Second pass: moments, cross-products, and weight structure. An
	// excluded cell contributes no term of any kind.
	rows, cols := mask.Rows(), mask.Cols()
	var sumSq, sumQuad, cross, s0, s2 float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !mask[i][j] {
				continue
			}
			zi := grid[i][j] - mean
			sumSq += zi * zi
			sumQuad += zi * zi * zi * zi

			rowWeight := 0.0
			for _, off := range offsets {
				ni, nj := i+off[0], j+off[1]
				if ni < 0 || ni >= rows || nj < 0 || nj >= cols || !mask[ni][nj] {
					continue
				}
				zj := grid[ni][nj] - mean
				cross += zi * zj
				rowWeight++
			}
			s0 += rowWeight
			s2 += 4 * rowWeight * rowWeight // symmetric binary weights: in-degree equals out-degree
		}
	}

	if s0 == 0 {
		return nil, errors.DegenerateInput("no valid neighbor pairs among masked cells")
	}
	if sumSq == 0 {
		return nil, errors.DegenerateInput("zero variance among masked cells")
	}

	fn := float64(n)
	moranI := (fn / s0) * (cross / sumSq)
	expected := -1 / (fn - 1)

	// Randomization-assumption variance with b2 = m4/m2^2.
	m2 := sumSq / fn
	m4 := sumQuad / fn
	b2 := m4 / (m2 * m2)
	s1 := 2 * s0 // 0.5*sum (w_ij+w_ji)^2 for symmetric binary weights

	numA := fn * ((fn*fn-3*fn+3)*s1 - fn*s2 + 3*s0*s0)
	numB := b2 * ((fn*fn-fn)*s1 - 2*fn*s2 + 6*s0*s0)
	den := (fn - 1) * (fn - 2) * (fn - 3) * s0 * s0
	variance := (numA-numB)/den - expected*expected
	if variance <= 0 {
		return nil, errors.DegenerateInput("non-positive moran variance")
	}

	z := (moranI - expected) / math.Sqrt(variance)
	p := 2 * (1 - distuv.UnitNormal.CDF(math.Abs(z)))
	if err := finiteAll("moran's i", moranI, variance, z, p); err != nil {
		return nil, err
	}

	classification := spatial.RandomPattern
	if p < cfg.Alpha {
		if moranI > expected {
			classification = spatial.ClusteredPositive
		} else {
			classification = spatial.DispersedNegative
		}
	}

	return &spatial.MoranResult{
		I:              moranI,
		Expected:       expected,
		Variance:       variance,
		Z:              z,
		PValue:         p,
		N:              n,
		WeightSum:      s0,
		Classification: classification,
	}, nil
}
