// Package postgres persists run manifests and per-zone outcomes.
package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"vegtrend/domain/report"
	"vegtrend/internal/errors"
	"vegtrend/ports"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// SaveRun writes the run manifest, one row per index, and one row per zone,
// all inside a single transaction.
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *report.RunResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning run transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO analysis_runs (id, started_at, finished_at, index_count)
		VALUES ($1, $2, $3, $4)
	`, run.RunID.String(), run.StartedAt.Time(), run.FinishedAt.Time(), len(run.Reports))
	if err != nil {
		return errors.Wrap(err, "inserting run")
	}

	for _, rep := range run.Reports {
		if err := r.saveReport(ctx, tx, run.RunID.String(), &rep); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing run")
	}
	return nil
}

func (r *RunRepositoryImpl) saveReport(ctx context.Context, tx *sqlx.Tx, runID string, rep *report.IndexReport) error {
	var firstDate, lastDate interface{}
	if len(rep.Dates) > 0 {
		firstDate = rep.Dates[0]
		lastDate = rep.Dates[len(rep.Dates)-1]
	}

	var slope, pValue, percentChange interface{}
	var classification interface{}
	if rep.Trend != nil {
		slope = rep.Trend.Slope
		pValue = rep.Trend.PValue
		percentChange = rep.Trend.PercentChange
		classification = string(rep.Trend.Classification)
	}

	var moranI, moranP interface{}
	if rep.Moran != nil {
		moranI = rep.Moran.I
		moranP = rep.Moran.PValue
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO index_results (run_id, index_key, date_count, first_date, last_date,
			slope, p_value, percent_change, classification, moran_i, moran_p, failure_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, runID, rep.Key.String(), len(rep.Dates), firstDate, lastDate,
		slope, pValue, percentChange, classification, moranI, moranP, len(rep.Failures), time.Now())
	if err != nil {
		return errors.Wrapf(err, "inserting index result %s", rep.Key)
	}

	if rep.Zones != nil {
		for _, z := range rep.Zones.Zones {
			var zSlope, zP interface{}
			var zClass interface{}
			if z.Trend != nil {
				zSlope = z.Trend.Slope
				zP = z.Trend.PValue
				zClass = string(z.Trend.Classification)
			}
			var trendErr interface{}
			if z.TrendErrKind != "" {
				trendErr = z.TrendErrKind
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO zone_results (run_id, index_key, zone_id, pixel_count, fraction,
					mean, slope, p_value, classification, percent_change, trend_error)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			`, runID, rep.Key.String(), z.ID, z.PixelCount, z.Fraction,
				z.Mean, zSlope, zP, zClass, z.PercentChange, trendErr)
			if err != nil {
				return errors.Wrapf(err, "inserting zone %d for %s", z.ID, rep.Key)
			}
		}
	}

	for _, fail := range rep.Failures {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stat_failures (run_id, index_key, statistic, kind, message)
			VALUES ($1, $2, $3, $4, $5)
		`, runID, rep.Key.String(), fail.Statistic, fail.Kind, fail.Message)
		if err != nil {
			return errors.Wrapf(err, "inserting failure %s for %s", fail.Statistic, rep.Key)
		}
	}

	return nil
}
