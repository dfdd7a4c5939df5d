// Package rating fits per-team attack/defense strengths and a global home
// advantage from finished matches.
package rating

import (
	"fmt"
	"time"

	"github.com/yourusername/egg-stats/internal/config"
)

// Default training hyperparameters
const (
	DefaultIterations           = 300
	DefaultLearningRate         = 0.001
	DefaultL2                   = 0.001
	DefaultHalfLifeDays         = 400.0
	DefaultShrink               = 0.65
	DefaultInitialHomeAdvantage = 0.10
)

// Values returned for a model trained on no usable matches
const (
	NeutralHomeAdvantage      = 0.1
	NeutralLeagueAverageGoals = 2.5
)

// Config holds trainer hyperparameters
type Config struct {
	Iterations           int
	LearningRate         float64
	L2                   float64
	HalfLifeDays         float64
	Shrink               float64
	InitialHomeAdvantage float64
	// Rho is carried into the trained model for the Dixon-Coles adjustment.
	Rho float64
	// AsOf is the reference time for time decay. Zero means the latest
	// match date in the training set.
	AsOf time.Time
}

// DefaultConfig returns the canonical anchored/shrunk parameter set
func DefaultConfig() Config {
	return Config{
		Iterations:           DefaultIterations,
		LearningRate:         DefaultLearningRate,
		L2:                   DefaultL2,
		HalfLifeDays:         DefaultHalfLifeDays,
		Shrink:               DefaultShrink,
		InitialHomeAdvantage: DefaultInitialHomeAdvantage,
	}
}

// FromConfig builds trainer config from application config. Zero values keep
// defaults; a nil initial home advantage does too, while an explicit 0 applies.
func FromConfig(cfg *config.ModelConfig) (Config, error) {
	out := DefaultConfig()
	if cfg == nil {
		return out, nil
	}
	if cfg.Iterations > 0 {
		out.Iterations = cfg.Iterations
	}
	if cfg.LearningRate > 0 {
		out.LearningRate = cfg.LearningRate
	}
	if cfg.L2 > 0 {
		out.L2 = cfg.L2
	}
	if cfg.HalfLifeDays > 0 {
		out.HalfLifeDays = cfg.HalfLifeDays
	}
	if cfg.Shrink > 0 {
		out.Shrink = cfg.Shrink
	}
	if cfg.InitialHomeAdvantage != nil {
		out.InitialHomeAdvantage = *cfg.InitialHomeAdvantage
	}
	out.Rho = cfg.Rho
	return out, out.Validate()
}

// Validate checks hyperparameter sanity
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("iterations must be positive")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if c.L2 < 0 {
		return fmt.Errorf("l2 coefficient cannot be negative")
	}
	if c.HalfLifeDays <= 0 {
		return fmt.Errorf("half-life must be positive")
	}
	if c.Shrink <= 0 || c.Shrink > 1 {
		return fmt.Errorf("shrink must be in (0, 1]")
	}
	return nil
}
