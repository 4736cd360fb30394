package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vegtrend/domain/raster"
	domainspatial "vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Service.Temporal.Alpha)
	assert.Equal(t, domainspatial.MethodZScore, cfg.Service.HotCold.Method)
	assert.Equal(t, 5, cfg.Service.Cluster.K)
	assert.Equal(t, int64(42), cfg.Service.Cluster.Seed)
	assert.Equal(t, raster.Adjacency8, cfg.Service.Moran.Adjacency)
	assert.Equal(t, []float64{30, 90, 180}, cfg.Service.ProjectionHorizons)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "analysis_results.xlsx", cfg.Output.WorkbookPath)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SIGNIFICANCE_ALPHA", "0.01")
	t.Setenv("HOTSPOT_METHOD", "iqr")
	t.Setenv("CLUSTERS", "3")
	t.Setenv("ADJACENCY", "4-connected")
	t.Setenv("PROJECTION_DAYS", "10, 20")
	t.Setenv("DATABASE_URL", "postgres://localhost/veg")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 0.01, cfg.Service.Temporal.Alpha)
	assert.Equal(t, domainspatial.MethodIQR, cfg.Service.HotCold.Method)
	assert.Equal(t, 3, cfg.Service.Cluster.K)
	assert.Equal(t, raster.Adjacency4, cfg.Service.Moran.Adjacency)
	assert.Equal(t, []float64{10, 20}, cfg.Service.ProjectionHorizons)
	assert.True(t, cfg.Database.Enabled)
	// The Moran alpha follows the shared significance level.
	assert.Equal(t, 0.01, cfg.Service.Moran.Alpha)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Run("unknown hotspot method", func(t *testing.T) {
		t.Setenv("HOTSPOT_METHOD", "percentile")
		_, err := Load()
		require.Error(t, err)
		assert.True(t, errors.HasCode(err, errors.CodeConfigInvalid))
	})

	t.Run("cluster count below 2", func(t *testing.T) {
		t.Setenv("CLUSTERS", "1")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("unknown adjacency", func(t *testing.T) {
		t.Setenv("ADJACENCY", "hex")
		_, err := Load()
		require.Error(t, err)
	})

	t.Run("negative projection horizon", func(t *testing.T) {
		t.Setenv("PROJECTION_DAYS", "-5")
		_, err := Load()
		require.Error(t, err)
	})
}
