package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/egg-stats/internal/models"
)

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	ListScored(ctx context.Context, league string) ([]models.Match, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.Match, error)
	Upsert(ctx context.Context, match *models.Match) error
	UpdateScore(ctx context.Context, externalID string, homeGoals, awayGoals int) (int64, error)
}

// OddsSnapshotRepository defines the interface for odds snapshot data access
type OddsSnapshotRepository interface {
	InsertBatch(ctx context.Context, snapshots []models.OddsSnapshot) (int64, error)
	ListByLeague(ctx context.Context, league string) ([]models.OddsSnapshot, error)
}

// BetLogRepository defines the interface for bet ledger data access
type BetLogRepository interface {
	InsertBatch(ctx context.Context, bets []*models.BetLog) (int64, error)
	ListUnsettled(ctx context.Context) ([]*models.BetLog, error)
	Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit decimal.Decimal) error
	Performance(ctx context.Context) (*models.Performance, error)
}
