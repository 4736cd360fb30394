// Package zones fuses spatial clustering with per-zone temporal trends: the
// cluster assignment over the temporally aggregated grid defines the zones,
// and each zone's per-date aggregate series runs through the temporal engine
// independently.
package zones

import (
	"sort"

	"vegtrend/adapters/spatial"
	"vegtrend/adapters/temporal"
	"vegtrend/domain/raster"
	domainspatial "vegtrend/domain/spatial"
	"vegtrend/domain/timeseries"
	"vegtrend/domain/zone"
	"vegtrend/internal/errors"
)

// Segmenter composes the spatial and temporal engines.
type Segmenter struct {
	spatial  *spatial.Engine
	temporal *temporal.Engine
}

// NewSegmenter creates a zone segmenter over the two engines.
func NewSegmenter(spatialEngine *spatial.Engine, temporalEngine *temporal.Engine) *Segmenter {
	return &Segmenter{spatial: spatialEngine, temporal: temporalEngine}
}

// Segment clusters the stack's per-pixel temporal mean and reports one zone
// per cluster id, ascending by mean. Every masked cell lands in exactly one
// zone; the zone pixel counts always sum to the masked pixel count. A trend
// failure in one zone is recorded on that zone and never aborts the others.
func (s *Segmenter) Segment(stack *raster.Stack, cfg spatial.ClusterConfig) (*zone.Report, error) {
	aggregate, err := stack.TemporalMean()
	if err != nil {
		return nil, err
	}

	assignment, err := s.spatial.Cluster(aggregate, stack.Mask, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "zone clustering")
	}

	report := &zone.Report{
		Zones:        make([]zone.Zone, 0, assignment.K),
		MaskedPixels: stack.Mask.Count(),
		K:            assignment.K,
	}

	for _, cluster := range assignment.Clusters {
		z := zone.Zone{
			ID:         cluster.ID,
			PixelCount: cluster.Count,
			Fraction:   cluster.Fraction,
			Mean:       cluster.Mean,
			Series:     zoneSeries(stack, assignment.Labels, cluster.ID),
		}

		fit, trendErr := s.temporal.LinearTrend(z.Series)
		if trendErr != nil {
			z.TrendErr = trendErr
			z.TrendErrKind = errors.GetCode(trendErr)
		} else {
			z.Trend = fit
			z.PercentChange = fit.PercentChange
		}

		report.Zones = append(report.Zones, z)
	}

	sort.SliceStable(report.Zones, func(a, b int) bool { return report.Zones[a].ID < report.Zones[b].ID })
	return report, nil
}

// ZoneHotCold classifies the aggregate grid restricted to one zone's cells,
// letting callers inspect within-zone extremes.
func (s *Segmenter) ZoneHotCold(stack *raster.Stack, assignment *domainspatial.ClusterAssignment, zoneID int, cfg spatial.HotColdConfig) (*domainspatial.HotColdResult, error) {
	aggregate, err := stack.TemporalMean()
	if err != nil {
		return nil, err
	}
	zoneMask := maskForZone(stack.Mask, assignment.Labels, zoneID)
	if zoneMask.Count() == 0 {
		return nil, errors.DegenerateInput("zone has no cells")
	}
	return s.spatial.HotCold(aggregate, zoneMask, cfg)
}

// zoneSeries builds the per-date mean over all cells labeled with zoneID.
func zoneSeries(stack *raster.Stack, labels [][]int, zoneID int) timeseries.Series {
	series := make(timeseries.Series, 0, len(stack.Snapshots))
	for _, snap := range stack.Snapshots {
		sum, n := 0.0, 0
		for i := range labels {
			for j := range labels[i] {
				if labels[i][j] == zoneID {
					sum += snap.Grid[i][j]
					n++
				}
			}
		}
		if n == 0 {
			continue
		}
		series = append(series, timeseries.Observation{Date: snap.Date, Value: sum / float64(n)})
	}
	return series
}

func maskForZone(mask raster.Mask, labels [][]int, zoneID int) raster.Mask {
	zoneMask := make(raster.Mask, mask.Rows())
	for i := range zoneMask {
		zoneMask[i] = make([]bool, mask.Cols())
		for j := range zoneMask[i] {
			zoneMask[i][j] = mask[i][j] && labels[i][j] == zoneID
		}
	}
	return zoneMask
}
