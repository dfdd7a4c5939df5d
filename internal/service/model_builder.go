package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
	"github.com/yourusername/egg-stats/internal/repository"
)

// DefaultMinLeagueMatches is the history a league needs before it is priced
const DefaultMinLeagueMatches = 50

// ModelBuilder trains a league's rating model from its stored results
type ModelBuilder struct {
	matches  repository.MatchRepository
	trainer  *rating.Trainer
	modelLog *logger.ModelLogger
	log      *logrus.Logger
}

// NewModelBuilder creates a model builder
func NewModelBuilder(matches repository.MatchRepository, cfg rating.Config, log *logrus.Logger) *ModelBuilder {
	log = logger.OrDefault(log)
	return &ModelBuilder{
		matches:  matches,
		trainer:  rating.NewTrainer(cfg, log),
		modelLog: logger.NewModelLogger(log),
		log:      log,
	}
}

// Build loads the league's finished matches and fits a model. It fails with
// models.ErrInsufficientData when fewer than minMatches are stored.
func (b *ModelBuilder) Build(ctx context.Context, league string, minMatches int) (*rating.Model, int, error) {
	if minMatches <= 0 {
		minMatches = DefaultMinLeagueMatches
	}

	history, err := b.matches.ListScored(ctx, league)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load matches for %s: %w", league, err)
	}
	if len(history) < minMatches {
		return nil, len(history), fmt.Errorf("%w: %s has %d finished matches, need %d",
			models.ErrInsufficientData, league, len(history), minMatches)
	}

	start := time.Now()
	model := b.trainer.Train(history)
	elapsed := time.Since(start)

	b.modelLog.LogTraining(league, len(history), model.TeamCount(), model.HomeAdvantage(),
		model.LeagueAverageGoals(), float64(elapsed.Milliseconds()))
	metrics.RecordTrainingDuration(league, elapsed.Seconds())

	return model, len(history), nil
}
