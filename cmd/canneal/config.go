package main

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/anneal"
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/cost"
	cerrors "github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

const envPrefix = "CANNEAL"

// Config validation errors
var (
	ErrInvalidLogFormat  = errors.New("log_format must be 'json', 'console', or 'text'")
	ErrInvalidLogLevel   = errors.New("log_level must be debug, info, warn, or error")
	ErrInvalidBackend    = errors.New("cost backend must be scalar, batch, or auto")
	ErrInvalidBatchWidth = errors.New("batch_width out of range")
	ErrMissingNetlist    = errors.New("netlist path cannot be empty")
)

// Config is the process configuration, read from CANNEAL_* environment
// variables and overridden by command-line flags.
type Config struct {
	NetlistPath    string `envconfig:"NETLIST"`
	CheckpointPath string `envconfig:"CHECKPOINT"`
	ResumePath     string `envconfig:"RESUME"`
	MetricsAddr    string `envconfig:"METRICS_ADDR"`
	LogFormat      string `envconfig:"LOG_FORMAT" default:"json"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`

	Cost   cost.Config   `envconfig:"COST"`
	Anneal anneal.Config `envconfig:"ANNEAL"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() Config {
	return Config{
		LogFormat: "json",
		LogLevel:  "info",
		Cost:      cost.DefaultConfig(),
		Anneal:    anneal.DefaultConfig(),
	}
}

// LoadConfig reads an optional .env file and then the environment.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, cerrors.WrapConfigurationError(err, "load_config", "process environment")
	}
	return cfg, nil
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" && cfg.LogFormat != "text" {
		return ErrInvalidLogFormat
	}
	if cfg.LogLevel != "debug" && cfg.LogLevel != "info" && cfg.LogLevel != "warn" && cfg.LogLevel != "error" {
		return ErrInvalidLogLevel
	}
	switch strings.ToLower(cfg.Cost.Backend) {
	case "", cost.BackendScalar, cost.BackendBatch, cost.BackendAuto:
	default:
		return ErrInvalidBackend
	}
	if cfg.Cost.BatchWidth < 0 || cfg.Cost.BatchWidth > cost.MaxBatchWidth {
		return ErrInvalidBatchWidth
	}
	return cfg.Anneal.Validate()
}
