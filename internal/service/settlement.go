package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/repository"
)

// SettlementService settles ledger bets whose match has a final score
type SettlementService struct {
	bets    repository.BetLogRepository
	matches repository.MatchRepository
	audit   *logger.AuditLogger
	log     *logrus.Logger
}

// NewSettlementService creates a settlement service
func NewSettlementService(bets repository.BetLogRepository, matches repository.MatchRepository, log *logrus.Logger) *SettlementService {
	log = logger.OrDefault(log)
	return &SettlementService{
		bets:    bets,
		matches: matches,
		audit:   logger.NewAuditLogger(log),
		log:     log,
	}
}

// Settle resolves every unsettled bet whose match is scored and returns how
// many were settled. Bets on missing or unplayed matches stay open.
func (s *SettlementService) Settle(ctx context.Context) (int, error) {
	open, err := s.bets.ListUnsettled(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list unsettled bets: %w", err)
	}

	settled := 0
	for _, bet := range open {
		match, err := s.matches.GetByExternalID(ctx, bet.ExternalMatchID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				continue
			}
			return settled, fmt.Errorf("failed to load match %s: %w", bet.ExternalMatchID, err)
		}

		actual, ok := match.Result()
		if !ok {
			continue
		}

		result, profit := bet.Settle(actual)
		if err := s.bets.Settle(ctx, bet.ID, result, profit); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				// settled concurrently
				continue
			}
			return settled, fmt.Errorf("failed to settle bet %s: %w", bet.ID, err)
		}

		settled++
		s.audit.LogBetSettled(bet.ID.String(), bet.ExternalMatchID, string(result), profit.InexactFloat64())
		metrics.RecordBetSettled(string(result))
	}

	metrics.UpdateUnsettledBets(len(open) - settled)
	s.log.WithFields(logrus.Fields{
		"open":    len(open),
		"settled": settled,
	}).Info("Settlement complete")

	return settled, nil
}
