package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, domain.DefaultThresholds(), cfg.Thresholds())
	assert.Equal(t, domain.DefaultCoverageConfig(), cfg.Coverage())
	assert.Equal(t, 0.95, cfg.ConfidenceLevel)
	assert.Equal(t, 0.05, cfg.SignificanceLevel)

	assert.Equal(t, 2001, cfg.BaselineStartYear)
	assert.Equal(t, 2024, cfg.BaselineEndYear)
	assert.Equal(t, 7, cfg.DefaultWindowDays)

	assert.Equal(t, "https://power.larc.nasa.gov", cfg.PowerBaseURL)
	assert.Equal(t, 30*time.Second, cfg.PowerTimeout)
	assert.Equal(t, 3, cfg.PowerRetries)
	assert.Equal(t, 256, cfg.PowerCacheSize)

	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.PublishingEnabled())
	assert.Equal(t, "risk-assessments", cfg.KafkaSinkTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("THRESHOLD_HOT_C", "39.5")
	t.Setenv("THRESHOLD_WIND_MS", "12")
	t.Setenv("COVERAGE_MIN_YEARS", "20")
	t.Setenv("CONFIDENCE_LEVEL", "0.9")
	t.Setenv("BASELINE_START_YEAR", "1990")
	t.Setenv("BASELINE_END_YEAR", "2020")
	t.Setenv("POWER_TIMEOUT", "5s")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "assessments-v2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 39.5, cfg.Thresholds().HotC)
	assert.Equal(t, 12.0, cfg.Thresholds().WindMS)
	assert.Equal(t, 20, cfg.Coverage().MinYears)
	assert.Equal(t, 0.9, cfg.ConfidenceLevel)
	assert.Equal(t, 1990, cfg.BaselineStartYear)
	assert.Equal(t, 2020, cfg.BaselineEndYear)
	assert.Equal(t, 5*time.Second, cfg.PowerTimeout)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.PublishingEnabled())
	assert.Equal(t, "assessments-v2", cfg.KafkaSinkTopic)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_NegativeShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ShutdownTimeout")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "trace")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}

func TestLoad_ThresholdOrdering(t *testing.T) {
	t.Setenv("THRESHOLD_UNCOMFORTABLE_C", "45")
	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidThresholds)
}

func TestLoad_BaselineYearsInverted(t *testing.T) {
	t.Setenv("BASELINE_START_YEAR", "2020")
	t.Setenv("BASELINE_END_YEAR", "2010")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BASELINE_END_YEAR")
}

func TestLoad_InvalidConfidenceLevel(t *testing.T) {
	t.Setenv("CONFIDENCE_LEVEL", "1.0")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ConfidenceLevel")
}
