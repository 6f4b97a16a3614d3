// Package config defines the service configuration, populated from environment
// variables at startup and immutable thereafter.
//
// Values resolve in priority order: OS environment first, then a .env file in
// the working directory. A missing required value or an invalid combination
// fails the process immediately on startup.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/couchcryptid/climate-risk-service/internal/domain"
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json" validate:"oneof=json text"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	// Classification thresholds, in the units the classifier consumes.
	ThresholdHotC           float64 `envconfig:"THRESHOLD_HOT_C" default:"41"`
	ThresholdUncomfortableC float64 `envconfig:"THRESHOLD_UNCOMFORTABLE_C" default:"32"`
	ThresholdColdC          float64 `envconfig:"THRESHOLD_COLD_C" default:"-10"`
	ThresholdWindMS         float64 `envconfig:"THRESHOLD_WIND_MS" default:"10.8"`
	ThresholdWetMMPerH      float64 `envconfig:"THRESHOLD_WET_MM_PER_H" default:"4.0"`

	// Coverage gate for probability estimates.
	CoverageMinYears   int `envconfig:"COVERAGE_MIN_YEARS" default:"15" validate:"gt=0"`
	CoverageMinSamples int `envconfig:"COVERAGE_MIN_SAMPLES" default:"8" validate:"gt=0"`

	ConfidenceLevel   float64 `envconfig:"CONFIDENCE_LEVEL" default:"0.95" validate:"gt=0,lt=1"`
	SignificanceLevel float64 `envconfig:"SIGNIFICANCE_LEVEL" default:"0.05" validate:"gt=0,lt=1"`

	// Historical window requested from the upstream archive.
	BaselineStartYear int `envconfig:"BASELINE_START_YEAR" default:"2001" validate:"gte=1981"`
	BaselineEndYear   int `envconfig:"BASELINE_END_YEAR" default:"2024"`
	DefaultWindowDays int `envconfig:"DEFAULT_WINDOW_DAYS" default:"7" validate:"gte=0,lte=45"`

	// NASA POWER client configuration.
	PowerBaseURL   string        `envconfig:"POWER_BASE_URL" default:"https://power.larc.nasa.gov" validate:"url"`
	PowerTimeout   time.Duration `envconfig:"POWER_TIMEOUT" default:"30s" validate:"gt=0"`
	PowerRetries   int           `envconfig:"POWER_RETRIES" default:"3" validate:"gte=0"`
	PowerCacheSize int           `envconfig:"POWER_CACHE_SIZE" default:"256" validate:"gt=0"`

	// Kafka publishing of completed assessments. Disabled when no brokers are
	// configured.
	KafkaBrokers   []string `envconfig:"KAFKA_BROKERS"`
	KafkaSinkTopic string   `envconfig:"KAFKA_SINK_TOPIC" default:"risk-assessments"`
}

// Load reads configuration from the environment, applying defaults where unset.
func Load() (*Config, error) {
	// A .env file is a local development convenience; its absence is fine and
	// it never overrides values already present in the environment.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	if err := cfg.Thresholds().Validate(); err != nil {
		return nil, err
	}
	if cfg.BaselineEndYear < cfg.BaselineStartYear {
		return nil, fmt.Errorf("BASELINE_END_YEAR %d precedes BASELINE_START_YEAR %d", cfg.BaselineEndYear, cfg.BaselineStartYear)
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaSinkTopic == "" {
		return nil, fmt.Errorf("KAFKA_SINK_TOPIC is required when KAFKA_BROKERS is set")
	}

	return &cfg, nil
}

// Thresholds assembles the classification thresholds in domain form.
func (c *Config) Thresholds() domain.Thresholds {
	return domain.Thresholds{
		HotC:           c.ThresholdHotC,
		UncomfortableC: c.ThresholdUncomfortableC,
		ColdC:          c.ThresholdColdC,
		WindMS:         c.ThresholdWindMS,
		WetMMPerH:      c.ThresholdWetMMPerH,
	}
}

// Coverage assembles the coverage gate in domain form.
func (c *Config) Coverage() domain.CoverageConfig {
	return domain.CoverageConfig{
		MinYears:   c.CoverageMinYears,
		MinSamples: c.CoverageMinSamples,
	}
}

// PublishingEnabled reports whether completed assessments are published to
// Kafka.
func (c *Config) PublishingEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
