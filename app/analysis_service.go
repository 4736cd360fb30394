package app

import (
	"context"

	"golang.org/x/sync/errgroup"

	"vegtrend/adapters/spatial"
	"vegtrend/adapters/temporal"
	"vegtrend/adapters/zones"
	"vegtrend/domain/core"
	"vegtrend/domain/raster"
	"vegtrend/domain/report"
	"vegtrend/domain/timeseries"
	"vegtrend/internal"
	"vegtrend/internal/errors"
	"vegtrend/ports"
)

// ServiceConfig bundles the per-engine configurations for one run.
type ServiceConfig struct {
	Temporal temporal.Config
	HotCold  spatial.HotColdConfig
	Cluster  spatial.ClusterConfig
	Moran    spatial.MoranConfig
	// ProjectionHorizons are day offsets past the last observation; empty
	// disables projection.
	ProjectionHorizons []float64
	// Concurrency bounds the number of indices analyzed in parallel.
	Concurrency int
}

// DefaultServiceConfig returns the run defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Temporal:           temporal.DefaultConfig(),
		HotCold:            spatial.DefaultHotColdConfig(),
		Cluster:            spatial.DefaultClusterConfig(),
		Moran:              spatial.DefaultMoranConfig(),
		ProjectionHorizons: []float64{30, 90, 180},
		Concurrency:        4,
	}
}

// AnalysisService orchestrates the three engines over every requested index.
// Indices run concurrently; statistics within an index run independently, so
// one failure never silently zeroes a sibling result.
type AnalysisService struct {
	cfg       ServiceConfig
	provider  ports.GridProvider
	temporal  *temporal.Engine
	spatial   *spatial.Engine
	segmenter *zones.Segmenter
	logger    *internal.Logger
}

// NewAnalysisService wires the engines for one configuration.
func NewAnalysisService(cfg ServiceConfig, provider ports.GridProvider, logger *internal.Logger) *AnalysisService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	temporalEngine := temporal.NewEngine(cfg.Temporal)
	spatialEngine := spatial.NewEngine()
	return &AnalysisService{
		cfg:       cfg,
		provider:  provider,
		temporal:  temporalEngine,
		spatial:   spatialEngine,
		segmenter: zones.NewSegmenter(spatialEngine, temporalEngine),
		logger:    logger,
	}
}

// Run analyzes every index the provider offers and returns one report per
// index. A failing index contributes a report carrying its failures; it does
// not cancel the rest of the run.
func (s *AnalysisService) Run(ctx context.Context) (*report.RunResult, error) {
	keys, err := s.provider.Indices(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "listing indices")
	}
	if len(keys) == 0 {
		return nil, errors.InsufficientData("provider offers no indices")
	}

	result := &report.RunResult{
		RunID:     core.RunID(core.NewID()),
		StartedAt: core.Now(),
		Reports:   make([]report.IndexReport, len(keys)),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	limit := s.cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	group.SetLimit(limit)

	for i, key := range keys {
		i, key := i, key
		group.Go(func() error {
			result.Reports[i] = s.AnalyzeIndex(groupCtx, key)
			return nil
		})
	}
	// Goroutines never return errors; per-index failures live in reports.
	_ = group.Wait()

	result.FinishedAt = core.Now()
	return result, nil
}

// AnalyzeIndex runs the full statistic suite for one index.
func (s *AnalysisService) AnalyzeIndex(ctx context.Context, key core.IndexKey) report.IndexReport {
	rep := report.IndexReport{Key: key}

	stack, err := s.provider.Load(ctx, key)
	if err != nil {
		s.logger.Error("index %s: load failed: %v", key, err)
		rep.Failures = append(rep.Failures, failure("load", err))
		return rep
	}
	rep.Dates = stack.Dates()
	s.logger.Debug("index %s: %d dates over a %dx%d grid, %d masked cells",
		key, len(rep.Dates), stack.Mask.Rows(), stack.Mask.Cols(), stack.Mask.Count())

	series, err := regionSeries(stack)
	if err != nil {
		rep.Failures = append(rep.Failures, failure("region_series", err))
	} else {
		s.analyzeTemporal(&rep, series)
	}

	s.analyzeSpatial(&rep, stack)

	if zonesReport, err := s.segmenter.Segment(stack, s.cfg.Cluster); err != nil {
		rep.Failures = append(rep.Failures, failure("zones", err))
	} else {
		rep.Zones = zonesReport
	}

	if len(rep.Failures) > 0 {
		s.logger.Warn("index %s: %d statistics failed", key, len(rep.Failures))
	} else {
		s.logger.Info("index %s analyzed", key)
	}
	return rep
}

func (s *AnalysisService) analyzeTemporal(rep *report.IndexReport, series timeseries.Series) {
	if fit, err := s.temporal.LinearTrend(series); err != nil {
		rep.Failures = append(rep.Failures, failure("trend", err))
	} else {
		rep.Trend = fit
		if len(s.cfg.ProjectionHorizons) > 0 {
			if points, err := s.temporal.Project(series, fit, s.cfg.ProjectionHorizons); err != nil {
				rep.Failures = append(rep.Failures, failure("projection", err))
			} else {
				rep.Projection = points
			}
		}
	}

	if mk, err := s.temporal.MannKendall(series); err != nil {
		rep.Failures = append(rep.Failures, failure("mann_kendall", err))
	} else {
		rep.MannKendall = mk
	}

	if velocity, err := s.temporal.Velocity(series); err != nil {
		rep.Failures = append(rep.Failures, failure("velocity", err))
	} else {
		rep.Velocity = velocity
	}

	if breakpoint, err := s.temporal.Breakpoint(series); err != nil {
		rep.Failures = append(rep.Failures, failure("breakpoint", err))
	} else {
		rep.Breakpoint = breakpoint
	}

	if periods, err := s.temporal.ComparePeriods(series); err != nil {
		rep.Failures = append(rep.Failures, failure("periods", err))
	} else {
		rep.Periods = periods
	}
}

func (s *AnalysisService) analyzeSpatial(rep *report.IndexReport, stack *raster.Stack) {
	aggregate, err := stack.TemporalMean()
	if err != nil {
		rep.Failures = append(rep.Failures, failure("aggregate", err))
		return
	}

	if summary, err := s.spatial.Summary(aggregate, stack.Mask); err != nil {
		rep.Failures = append(rep.Failures, failure("summary", err))
	} else {
		rep.Summary = summary
	}

	if hotCold, err := s.spatial.HotCold(aggregate, stack.Mask, s.cfg.HotCold); err != nil {
		rep.Failures = append(rep.Failures, failure("hot_cold", err))
	} else {
		rep.HotCold = hotCold
	}

	if clusters, err := s.spatial.Cluster(aggregate, stack.Mask, s.cfg.Cluster); err != nil {
		rep.Failures = append(rep.Failures, failure("clusters", err))
	} else {
		rep.Clusters = clusters
	}

	if moran, err := s.spatial.MoranI(aggregate, stack.Mask, s.cfg.Moran); err != nil {
		rep.Failures = append(rep.Failures, failure("moran", err))
	} else {
		rep.Moran = moran
	}

	// First-to-last snapshot change map.
	if len(stack.Snapshots) >= 2 {
		first := stack.Snapshots[0].Grid
		last := stack.Snapshots[len(stack.Snapshots)-1].Grid
		if diff, err := s.spatial.Difference(first, last, stack.Mask); err != nil {
			rep.Failures = append(rep.Failures, failure("difference", err))
		} else {
			rep.Difference = diff
		}
	}
}

// regionSeries reduces each dated grid to its masked spatial mean.
func regionSeries(stack *raster.Stack) (timeseries.Series, error) {
	means, err := stack.SpatialMeans()
	if err != nil {
		return nil, err
	}
	series := make(timeseries.Series, len(means))
	for i, snap := range stack.Snapshots {
		series[i] = timeseries.Observation{Date: snap.Date, Value: means[i]}
	}
	return series, nil
}

func failure(statistic string, err error) report.StatFailure {
	return report.StatFailure{
		Statistic: statistic,
		Kind:      errors.GetCode(err),
		Message:   err.Error(),
	}
}
