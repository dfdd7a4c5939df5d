package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/datasource"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/repository"
)

// SnapshotService stores the current best prices of upcoming fixtures so
// later backtests can price them
type SnapshotService struct {
	cfg       *config.Config
	fixtures  datasource.FixtureSource
	odds      datasource.OddsSource
	snapshots repository.OddsSnapshotRepository
	log       *logrus.Logger
	now       func() time.Time
}

// NewSnapshotService creates a snapshot service
func NewSnapshotService(
	cfg *config.Config,
	fixtures datasource.FixtureSource,
	odds datasource.OddsSource,
	snapshots repository.OddsSnapshotRepository,
	log *logrus.Logger,
) *SnapshotService {
	return &SnapshotService{
		cfg:       cfg,
		fixtures:  fixtures,
		odds:      odds,
		snapshots: snapshots,
		log:       logger.OrDefault(log),
		now:       time.Now,
	}
}

// Capture snapshots every matched upcoming fixture and returns the rows inserted
func (s *SnapshotService) Capture(ctx context.Context) (int64, error) {
	upcoming, err := s.fixtures.UpcomingMatches(ctx, s.cfg.LeagueCodes())
	if err != nil {
		return 0, fmt.Errorf("failed to fetch upcoming matches: %w", err)
	}

	leagueMap := s.cfg.LeagueMap()
	var inserted int64

	for code, fixtures := range groupByLeague(upcoming, leagueMap) {
		events, err := s.odds.FetchOdds(ctx, leagueMap[code])
		if err != nil {
			if ctx.Err() != nil {
				return inserted, ctx.Err()
			}
			s.log.WithError(err).WithField("league", code).Warn("Odds fetch failed, skipping league")
			continue
		}

		batch := s.buildSnapshots(fixtures, events)
		if len(batch) == 0 {
			continue
		}

		n, err := s.snapshots.InsertBatch(ctx, batch)
		if err != nil {
			return inserted, fmt.Errorf("failed to store %s snapshots: %w", code, err)
		}
		inserted += n

		s.log.WithFields(logrus.Fields{
			"league":   code,
			"fixtures": len(fixtures),
			"stored":   n,
		}).Debug("League odds captured")
	}

	metrics.RecordOddsSnapshots(int(inserted))
	s.log.WithField("inserted", inserted).Info("Odds snapshot complete")

	return inserted, nil
}

func (s *SnapshotService) buildSnapshots(fixtures []models.Fixture, events []models.OddsEvent) []models.OddsSnapshot {
	capturedAt := s.now()
	var out []models.OddsSnapshot

	for i := range fixtures {
		f := &fixtures[i]
		if f.HomeTeam.Name == "" || f.AwayTeam.Name == "" {
			continue
		}
		event, ok := FindOddsEvent(events, f.HomeTeam.Name, f.AwayTeam.Name)
		if !ok {
			continue
		}
		best, ok := market.ExtractBest1x2(*event)
		if !ok {
			continue
		}
		out = append(out, models.OddsSnapshot{
			ExternalMatchID: f.ExternalID(),
			LeagueID:        f.Competition.ID,
			OddHome:         best.Home,
			OddDraw:         best.Draw,
			OddAway:         best.Away,
			MarketOverround: market.Overround(best),
			CapturedAt:      capturedAt,
			Market:          models.MarketKeyH2H,
			Bookmaker:       models.CompositeBookmaker,
		})
	}
	return out
}
