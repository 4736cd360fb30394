package spatial

import (
	"math"
	"math/rand"
	"sort"

	"vegtrend/domain/raster"
	"vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

// ClusterConfig parameterizes value clustering.
type ClusterConfig struct {
	K int
	// Seed drives every random decision so identical input reproduces
	// identical cluster ids.
	Seed int64
	// IncludeCoordinates adds standardized row/col positions as clustering
	// features. Off by default: clustering groups by value alone.
	IncludeCoordinates bool
	MaxIterations      int
}

// DefaultClusterConfig returns five value-only clusters with a fixed seed.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{
		K:             5,
		Seed:          42,
		MaxIterations: 100,
	}
}

// Cluster partitions the masked cells into K groups by Lloyd's algorithm,
// minimizing within-cluster squared distance to the centroid. Initial
// centroids sit at evenly spaced quantiles of the value distribution, so
// repeated runs on identical input and seed yield identical assignments.
// Cluster ids are relabeled ascending by mean value.
func (e *Engine) Cluster(grid raster.Grid, mask raster.Mask, cfg ClusterConfig) (*spatial.ClusterAssignment, error) {
	if err := raster.ValidateShape(grid, mask); err != nil {
		return nil, err
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}

	type cell struct {
		row, col int
		value    float64
	}
	cells := make([]cell, 0, mask.Count())
	for i := range grid {
		for j := range grid[i] {
			if mask[i][j] {
				cells = append(cells, cell{row: i, col: j, value: grid[i][j]})
			}
		}
	}
	if len(cells) == 0 {
		return nil, errors.DegenerateInput("all cells are masked out")
	}
	if cfg.K < 2 {
		return nil, errors.InvalidConfiguration("cluster count must be at least 2")
	}
	if cfg.K > len(cells) {
		return nil, errors.InvalidConfiguration("cluster count exceeds masked pixel count")
	}

	// Feature matrix: value alone, or value plus standardized coordinates.
	features := make([][]float64, len(cells))
	for i, c := range cells {
		if cfg.IncludeCoordinates {
			features[i] = []float64{
				c.value,
				float64(c.row) / float64(mask.Rows()),
				float64(c.col) / float64(mask.Cols()),
			}
		} else {
			features[i] = []float64{c.value}
		}
	}
	if cfg.IncludeCoordinates {
		standardize(features)
	}
	dims := len(features[0])

	// Quantile-spread initialization: deterministic for a given input.
	order := make([]int, len(cells))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return cells[order[a]].value < cells[order[b]].value })

	centroids := make([][]float64, cfg.K)
	for c := 0; c < cfg.K; c++ {
		pos := order[c*(len(cells)-1)/(cfg.K-1)]
		centroids[c] = append([]float64(nil), features[pos]...)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	labels := make([]int, len(cells))

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		changed := false
		for i, f := range features {
			best, bestDist := 0, math.Inf(1)
			for c, centroid := range centroids {
				d := sqDist(f, centroid)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		counts := make([]int, cfg.K)
		sums := make([][]float64, cfg.K)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, f := range features {
			counts[labels[i]]++
			for d := range f {
				sums[labels[i]][d] += f[d]
			}
		}
		for c := 0; c < cfg.K; c++ {
			if counts[c] == 0 {
				// Reseed an empty cluster on a random masked cell; the
				// seeded stream keeps this reproducible.
				centroids[c] = append([]float64(nil), features[rng.Intn(len(features))]...)
				changed = true
				continue
			}
			for d := 0; d < dims; d++ {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}

		if !changed && iter > 0 {
			break
		}
	}

	// Per-cluster value statistics, then relabel ascending by mean.
	statsByOld := make([]spatial.ClusterStats, cfg.K)
	for c := range statsByOld {
		statsByOld[c] = spatial.ClusterStats{ID: c, Min: math.Inf(1), Max: math.Inf(-1)}
	}
	for i, c := range cells {
		s := &statsByOld[labels[i]]
		s.Count++
		s.Mean += c.value
		if c.value < s.Min {
			s.Min = c.value
		}
		if c.value > s.Max {
			s.Max = c.value
		}
	}
	for c := range statsByOld {
		if statsByOld[c].Count > 0 {
			statsByOld[c].Mean /= float64(statsByOld[c].Count)
		} else {
			statsByOld[c].Min, statsByOld[c].Max = 0, 0
		}
	}
	for i, c := range cells {
		s := &statsByOld[labels[i]]
		dv := c.value - s.Mean
		s.Std += dv * dv
	}
	for c := range statsByOld {
		if statsByOld[c].Count > 0 {
			statsByOld[c].Std = math.Sqrt(statsByOld[c].Std / float64(statsByOld[c].Count))
		}
	}

	sorted := append([]spatial.ClusterStats(nil), statsByOld...)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].Mean < sorted[b].Mean })
	remap := make([]int, cfg.K)
	for newID := range sorted {
		remap[sorted[newID].ID] = newID
		sorted[newID].ID = newID
		sorted[newID].Fraction = float64(sorted[newID].Count) / float64(len(cells))
	}

	labelGrid := make([][]int, mask.Rows())
	for i := range labelGrid {
		labelGrid[i] = make([]int, mask.Cols())
		for j := range labelGrid[i] {
			labelGrid[i][j] = -1
		}
	}
	inertia := 0.0
	for i, c := range cells {
		labelGrid[c.row][c.col] = remap[labels[i]]
		inertia += sqDist(features[i], centroids[labels[i]])
	}

	return &spatial.ClusterAssignment{
		K:        cfg.K,
		Labels:   labelGrid,
		Clusters: sorted,
		Inertia:  inertia,
		Seed:     cfg.Seed,
	}, nil
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// standardize z-scores each feature column in place. Zero-variance columns
// collapse to zero rather than dividing by zero.
func standardize(features [][]float64) {
	if len(features) == 0 {
		return
	}
	dims := len(features[0])
	for d := 0; d < dims; d++ {
		mean := 0.0
		for _, f := range features {
			mean += f[d]
		}
		mean /= float64(len(features))
		variance := 0.0
		for _, f := range features {
			dv := f[d] - mean
			variance += dv * dv
		}
		std := math.Sqrt(variance / float64(len(features)))
		for _, f := range features {
			if std == 0 {
				f[d] = 0
			} else {
				f[d] = (f[d] - mean) / std
			}
		}
	}
}
