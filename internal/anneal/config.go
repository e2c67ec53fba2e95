package anneal

import (
	"github.com/HuangWenChen/Optimize-PARSEC-CANNEAL/internal/errors"
)

// Config controls an annealing run.
type Config struct {
	// Workers is the number of goroutines proposing swaps concurrently.
	Workers int `envconfig:"WORKERS" default:"4"`
	// SwapsPerTemp is the number of swaps each worker proposes per temperature step.
	SwapsPerTemp int `envconfig:"SWAPS_PER_TEMP" default:"15000"`
	// StartTemp is the initial temperature. It is divided by 1.5 after each step.
	StartTemp float64 `envconfig:"START_TEMP" default:"2000"`
	// TempSteps is the number of temperature steps. -1 runs until a step
	// accepts no more good moves than bad ones.
	TempSteps int `envconfig:"TEMP_STEPS" default:"128"`
	// Seed makes single-worker runs reproducible.
	Seed uint64 `envconfig:"SEED" default:"1"`
}

// DefaultConfig returns the default annealing configuration.
func DefaultConfig() Config {
	return Config{
		Workers:      4,
		SwapsPerTemp: 15000,
		StartTemp:    2000,
		TempSteps:    128,
		Seed:         1,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	const op = "validate_anneal_config"
	switch {
	case c.Workers < 1:
		return errors.Newf(errors.ErrorTypeConfiguration, op, "workers must be positive, got %d", c.Workers)
	case c.SwapsPerTemp < 1:
		return errors.Newf(errors.ErrorTypeConfiguration, op, "swaps per temperature must be positive, got %d", c.SwapsPerTemp)
	case !(c.StartTemp > 0):
		return errors.Newf(errors.ErrorTypeConfiguration, op, "start temperature must be positive, got %g", c.StartTemp)
	case c.TempSteps < -1:
		return errors.Newf(errors.ErrorTypeConfiguration, op, "temperature steps must be >= -1, got %d", c.TempSteps)
	}
	return nil
}
