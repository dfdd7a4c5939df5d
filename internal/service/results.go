package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/datasource"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/repository"
)

// ResultSyncService copies final scores from the results feed onto stored matches
type ResultSyncService struct {
	fixtures datasource.FixtureSource
	matches  repository.MatchRepository
	log      *logrus.Logger
}

// NewResultSyncService creates a result sync service
func NewResultSyncService(fixtures datasource.FixtureSource, matches repository.MatchRepository, log *logrus.Logger) *ResultSyncService {
	return &ResultSyncService{fixtures: fixtures, matches: matches, log: logger.OrDefault(log)}
}

// Sync fetches recently finished fixtures and scores the matching rows that
// are still unscored. It returns the number of rows updated.
func (s *ResultSyncService) Sync(ctx context.Context) (int64, error) {
	finished, err := s.fixtures.RecentFinishedMatches(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch finished matches: %w", err)
	}

	var updated int64
	for i := range finished {
		f := &finished[i]
		if !f.HasFullTimeScore() {
			continue
		}
		n, err := s.matches.UpdateScore(ctx, f.ExternalID(), *f.Score.FullTime.Home, *f.Score.FullTime.Away)
		if err != nil {
			return updated, fmt.Errorf("failed to update match %s: %w", f.ExternalID(), err)
		}
		updated += n
	}

	s.log.WithFields(logrus.Fields{
		"fetched": len(finished),
		"updated": updated,
	}).Info("Result sync complete")
	metrics.RecordMatchesSynced(int(updated))

	return updated, nil
}
