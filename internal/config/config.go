package config

import (
	"os"
	"strconv"
	"strings"

	"vegtrend/app"
	"vegtrend/domain/raster"
	domainspatial "vegtrend/domain/spatial"
	"vegtrend/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Service  app.ServiceConfig
	Database DatabaseConfig
	Output   OutputConfig
}

// DatabaseConfig holds optional result-store settings
type DatabaseConfig struct {
	URL     string
	Enabled bool
}

// OutputConfig holds export settings
type OutputConfig struct {
	WorkbookPath string
}

// Load reads configuration from environment variables and validates it.
// Every engine parameter is defaulted and independently overridable.
func Load() (*Config, error) {
	service := app.DefaultServiceConfig()

	service.Temporal.Alpha = getEnvFloatOrDefault("SIGNIFICANCE_ALPHA", service.Temporal.Alpha)
	service.Temporal.SlopeEpsilon = getEnvFloatOrDefault("SLOPE_EPSILON", service.Temporal.SlopeEpsilon)
	service.Temporal.MinBreakpointLen = getEnvIntOrDefault("MIN_BREAKPOINT_LEN", service.Temporal.MinBreakpointLen)
	service.Temporal.MinPeriodLen = getEnvIntOrDefault("MIN_PERIOD_LEN", service.Temporal.MinPeriodLen)

	method := getEnvOrDefault("HOTSPOT_METHOD", string(service.HotCold.Method))
	switch domainspatial.HotColdMethod(method) {
	case domainspatial.MethodZScore, domainspatial.MethodIQR:
		service.HotCold.Method = domainspatial.HotColdMethod(method)
	default:
		return nil, errors.ConfigInvalid("HOTSPOT_METHOD must be zscore or iqr")
	}
	service.HotCold.ZThreshold = getEnvFloatOrDefault("HOTSPOT_THRESHOLD", service.HotCold.ZThreshold)
	service.HotCold.IQRFactor = getEnvFloatOrDefault("HOTSPOT_IQR_FACTOR", service.HotCold.IQRFactor)

	service.Cluster.K = getEnvIntOrDefault("CLUSTERS", service.Cluster.K)
	if service.Cluster.K < 2 {
		return nil, errors.ConfigInvalid("CLUSTERS must be at least 2")
	}
	service.Cluster.Seed = int64(getEnvIntOrDefault("CLUSTER_SEED", int(service.Cluster.Seed)))
	service.Cluster.IncludeCoordinates = getEnvBoolOrDefault("CLUSTER_COORDS", service.Cluster.IncludeCoordinates)

	adjacency := getEnvOrDefault("ADJACENCY", string(service.Moran.Adjacency))
	switch raster.Adjacency(adjacency) {
	case raster.Adjacency4, raster.Adjacency8:
		service.Moran.Adjacency = raster.Adjacency(adjacency)
	default:
		return nil, errors.ConfigInvalid("ADJACENCY must be 4-connected or 8-connected")
	}
	service.Moran.Alpha = service.Temporal.Alpha

	if horizons := os.Getenv("PROJECTION_DAYS"); horizons != "" {
		parsed, err := parseHorizons(horizons)
		if err != nil {
			return nil, err
		}
		service.ProjectionHorizons = parsed
	}
	service.Concurrency = getEnvIntOrDefault("ANALYSIS_CONCURRENCY", service.Concurrency)

	dbURL := os.Getenv("DATABASE_URL")

	return &Config{
		Service: service,
		Database: DatabaseConfig{
			URL:     dbURL,
			Enabled: dbURL != "",
		},
		Output: OutputConfig{
			WorkbookPath: getEnvOrDefault("OUTPUT_XLSX", "analysis_results.xlsx"),
		},
	}, nil
}

func parseHorizons(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	horizons := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil || v <= 0 {
			return nil, errors.ConfigInvalid("PROJECTION_DAYS must be positive day offsets")
		}
		horizons = append(horizons, v)
	}
	return horizons, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
