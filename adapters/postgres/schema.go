package postgres

// Schema creates the result tables. Statements are idempotent so migration
// can run on every deploy.
const Schema = `
CREATE TABLE IF NOT EXISTS analysis_runs (
	id          TEXT PRIMARY KEY,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	index_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS index_results (
	run_id         TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	index_key      TEXT NOT NULL,
	date_count     INTEGER NOT NULL,
	first_date     TIMESTAMPTZ,
	last_date      TIMESTAMPTZ,
	slope          DOUBLE PRECISION,
	p_value        DOUBLE PRECISION,
	percent_change DOUBLE PRECISION,
	classification TEXT,
	moran_i        DOUBLE PRECISION,
	moran_p        DOUBLE PRECISION,
	failure_count  INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (run_id, index_key)
);

CREATE TABLE IF NOT EXISTS zone_results (
	run_id         TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	index_key      TEXT NOT NULL,
	zone_id        INTEGER NOT NULL,
	pixel_count    INTEGER NOT NULL,
	fraction       DOUBLE PRECISION NOT NULL,
	mean           DOUBLE PRECISION NOT NULL,
	slope          DOUBLE PRECISION,
	p_value        DOUBLE PRECISION,
	classification TEXT,
	percent_change DOUBLE PRECISION,
	trend_error    TEXT,
	PRIMARY KEY (run_id, index_key, zone_id)
);

CREATE TABLE IF NOT EXISTS stat_failures (
	run_id    TEXT NOT NULL REFERENCES analysis_runs(id) ON DELETE CASCADE,
	index_key TEXT NOT NULL,
	statistic TEXT NOT NULL,
	kind      TEXT NOT NULL,
	message   TEXT NOT NULL
);
`
