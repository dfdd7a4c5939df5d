package backtest

import (
	"fmt"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
)

// Default harness parameters
const (
	DefaultMinTrainSize   = 100
	DefaultShrinkAlpha    = 0.88
	DefaultStake          = 1.0
	DefaultMonteCarloRuns = 1000
)

// ModelTrainer fits a rating model from a training prefix
type ModelTrainer interface {
	Train(matches []models.Match) *rating.Model
}

// BacktestConfig configures a walk-forward run
type BacktestConfig struct {
	MinTrainSize   int           `json:"min_train_size"`
	BaselineShrink bool          `json:"baseline_shrink"`
	ShrinkAlpha    float64       `json:"shrink_alpha"`
	Stake          float64       `json:"stake"`
	MonteCarloRuns int           `json:"monte_carlo_runs"`
	Rating         rating.Config `json:"-"`
	Market         market.Config `json:"market"`

	// Trainer overrides the rating trainer built from Rating
	Trainer ModelTrainer `json:"-"`
}

// DefaultConfig returns the reference harness parameters
func DefaultConfig() BacktestConfig {
	return BacktestConfig{
		MinTrainSize:   DefaultMinTrainSize,
		ShrinkAlpha:    DefaultShrinkAlpha,
		Stake:          DefaultStake,
		MonteCarloRuns: DefaultMonteCarloRuns,
		Rating:         rating.DefaultConfig(),
		Market:         market.DefaultConfig(),
	}
}

// FromConfig converts app config to backtest config. Zero values keep defaults;
// Rating and Market stay at their defaults and are set by the caller.
func FromConfig(cfg *config.BacktestConfig) (BacktestConfig, error) {
	if cfg == nil {
		return BacktestConfig{}, fmt.Errorf("backtest config is required")
	}
	bt := DefaultConfig()
	if cfg.MinTrainSize > 0 {
		bt.MinTrainSize = cfg.MinTrainSize
	}
	if cfg.ShrinkAlpha > 0 {
		bt.ShrinkAlpha = cfg.ShrinkAlpha
	}
	if cfg.Stake > 0 {
		bt.Stake = cfg.Stake
	}
	if cfg.MonteCarloRuns > 0 {
		bt.MonteCarloRuns = cfg.MonteCarloRuns
	}
	bt.BaselineShrink = cfg.BaselineShrink

	return bt, bt.Validate()
}

// Validate validates backtest config parameters
func (b BacktestConfig) Validate() error {
	if b.MinTrainSize < 1 {
		return fmt.Errorf("min train size must be at least 1")
	}
	if b.ShrinkAlpha < 0 || b.ShrinkAlpha > 1 {
		return fmt.Errorf("shrink alpha must be between 0 and 1")
	}
	if b.Stake <= 0 {
		return fmt.Errorf("stake must be positive")
	}
	if b.MonteCarloRuns < 0 {
		return fmt.Errorf("monte carlo runs cannot be negative")
	}
	if b.Trainer == nil {
		if err := b.Rating.Validate(); err != nil {
			return fmt.Errorf("invalid rating config: %w", err)
		}
	}
	if err := b.Market.Validate(); err != nil {
		return fmt.Errorf("invalid market config: %w", err)
	}
	return nil
}

func (b BacktestConfig) trainer() ModelTrainer {
	if b.Trainer != nil {
		return b.Trainer
	}
	return rating.NewTrainer(b.Rating, nil)
}
