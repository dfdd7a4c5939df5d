package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/egg-stats/internal/database"
	"github.com/yourusername/egg-stats/internal/models"
)

const unknownConfidence = "UNKNOWN"

// PostgresBetLogRepository implements BetLogRepository for PostgreSQL
type PostgresBetLogRepository struct {
	db database.Querier
}

// NewPostgresBetLogRepository creates a new bet log repository
func NewPostgresBetLogRepository(db database.Querier) BetLogRepository {
	return &PostgresBetLogRepository{db: db}
}

// InsertBatch records picks in one statement. A pick already logged for the
// same match is ignored, so re-running a scan never duplicates bets.
func (b *PostgresBetLogRepository) InsertBatch(ctx context.Context, bets []*models.BetLog) (int64, error) {
	if len(bets) == 0 {
		return 0, nil
	}

	params := make([]interface{}, 0, len(bets)*12)
	for _, bet := range bets {
		if bet.ID == uuid.Nil {
			bet.ID = uuid.New()
		}
		params = append(params,
			bet.ID, bet.ExternalMatchID, bet.LeagueCode, bet.MatchLabel, string(bet.Pick),
			bet.OddTaken, bet.ModelProb, bet.MarketProb, bet.Edge, bet.EV,
			string(bet.Confidence), bet.Stake,
		)
	}

	query := `
		INSERT INTO bet_log
			(id, external_match_id, league_code, match_label, pick,
			 odd_taken, model_prob, market_prob, edge, ev, confidence, stake)
		VALUES ` + valuesClause(len(bets), "(?,?,?,?,?,?,?,?,?,?,?,?)") + `
		ON CONFLICT (external_match_id, pick) DO NOTHING`

	tag, err := b.db.Exec(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert bets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListUnsettled returns every bet without a result, oldest first
func (b *PostgresBetLogRepository) ListUnsettled(ctx context.Context) ([]*models.BetLog, error) {
	query := `
		SELECT id, external_match_id, league_code, COALESCE(match_label, ''), pick,
		       odd_taken, stake, COALESCE(confidence, ''), created_at
		FROM bet_log
		WHERE result IS NULL
		ORDER BY created_at ASC`

	rows, err := b.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unsettled bets: %w", err)
	}
	defer rows.Close()

	var bets []*models.BetLog
	for rows.Next() {
		bet := &models.BetLog{}
		var pick, confidence string
		if err := rows.Scan(
			&bet.ID, &bet.ExternalMatchID, &bet.LeagueCode, &bet.MatchLabel, &pick,
			&bet.OddTaken, &bet.Stake, &confidence, &bet.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bet.Pick = models.Outcome(pick)
		bet.Confidence = models.Confidence(confidence)
		bets = append(bets, bet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bets: %w", err)
	}

	return bets, nil
}

// Settle writes the result and profit of a bet
func (b *PostgresBetLogRepository) Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit decimal.Decimal) error {
	query := `UPDATE bet_log SET result = $1, profit = $2 WHERE id = $3`

	tag, err := b.db.Exec(ctx, query, string(result), profit, id)
	if err != nil {
		return fmt.Errorf("failed to settle bet %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Performance aggregates settled bets overall, by league and by confidence
func (b *PostgresBetLogRepository) Performance(ctx context.Context) (*models.Performance, error) {
	perf := &models.Performance{}

	summaryQuery := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE result = 'WIN'),
		       COALESCE(SUM(stake), 0),
		       COALESCE(SUM(profit), 0)
		FROM bet_log
		WHERE result IS NOT NULL`

	s := &perf.Summary
	if err := b.db.QueryRow(ctx, summaryQuery).Scan(&s.TotalBets, &s.Wins, &s.TotalStaked, &s.NetUnits); err != nil {
		return nil, fmt.Errorf("failed to query performance summary: %w", err)
	}
	s.HitRate = models.HitRate(s.Wins, s.TotalBets)
	s.ROI = models.ComputeROI(s.NetUnits, s.TotalStaked)

	byLeague, err := b.breakdown(ctx, `
		SELECT league_code,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE result = 'WIN'),
		       COALESCE(SUM(profit), 0) AS net_units
		FROM bet_log
		WHERE result IS NOT NULL
		GROUP BY league_code
		ORDER BY net_units DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance by league: %w", err)
	}
	perf.ByLeague = byLeague

	byConfidence, err := b.breakdown(ctx, `
		SELECT COALESCE(confidence, '`+unknownConfidence+`') AS confidence,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE result = 'WIN'),
		       COALESCE(SUM(profit), 0)
		FROM bet_log
		WHERE result IS NOT NULL
		GROUP BY 1
		ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("failed to query performance by confidence: %w", err)
	}
	perf.ByConfidence = byConfidence

	return perf, nil
}

func (b *PostgresBetLogRepository) breakdown(ctx context.Context, query string) ([]models.PerformanceBreakdown, error) {
	rows, err := b.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.PerformanceBreakdown{}
	for rows.Next() {
		var g models.PerformanceBreakdown
		if err := rows.Scan(&g.Group, &g.Bets, &g.Wins, &g.NetUnits); err != nil {
			return nil, err
		}
		g.HitRate = models.HitRate(g.Wins, g.Bets)
		out = append(out, g)
	}
	return out, rows.Err()
}
