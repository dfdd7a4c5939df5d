package service

import (
	"context"
	"fmt"

	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/repository"
)

// PerformanceService reports on settled ledger bets
type PerformanceService struct {
	bets repository.BetLogRepository
}

// NewPerformanceService creates a performance service
func NewPerformanceService(bets repository.BetLogRepository) *PerformanceService {
	return &PerformanceService{bets: bets}
}

// Report returns the summary with per-league and per-confidence breakdowns
func (s *PerformanceService) Report(ctx context.Context) (*models.Performance, error) {
	perf, err := s.bets.Performance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute performance: %w", err)
	}
	metrics.UpdateNetUnits(perf.Summary.NetUnits.InexactFloat64())
	return perf, nil
}
