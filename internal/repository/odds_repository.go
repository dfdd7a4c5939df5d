package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/egg-stats/internal/database"
	"github.com/yourusername/egg-stats/internal/models"
)

// PostgresOddsRepository implements OddsSnapshotRepository for PostgreSQL
type PostgresOddsRepository struct {
	db database.Querier
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db database.Querier) OddsSnapshotRepository {
	return &PostgresOddsRepository{db: db}
}

// InsertBatch stores snapshots in one statement; existing captures are kept
func (o *PostgresOddsRepository) InsertBatch(ctx context.Context, snapshots []models.OddsSnapshot) (int64, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}

	params := make([]interface{}, 0, len(snapshots)*8)
	for _, s := range snapshots {
		market, bookmaker := s.Market, s.Bookmaker
		if market == "" {
			market = models.MarketKeyH2H
		}
		if bookmaker == "" {
			bookmaker = models.CompositeBookmaker
		}
		params = append(params,
			s.ExternalMatchID, s.LeagueID, s.OddHome, s.OddDraw, s.OddAway,
			s.MarketOverround, market, bookmaker,
		)
	}

	query := `
		INSERT INTO odds_snapshots
			(external_match_id, league_id, odd_home, odd_draw, odd_away,
			 market_overround, captured_at, market, bookmaker)
		VALUES ` + valuesClause(len(snapshots), "(?,?,?,?,?,?,NOW(),?,?)") + `
		ON CONFLICT DO NOTHING`

	tag, err := o.db.Exec(ctx, query, params...)
	if err != nil {
		return 0, fmt.Errorf("failed to batch insert odds snapshots: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByLeague returns the snapshots for every match of a competition
func (o *PostgresOddsRepository) ListByLeague(ctx context.Context, league string) ([]models.OddsSnapshot, error) {
	query := `
		SELECT o.external_match_id, COALESCE(o.league_id, 0), o.odd_home, o.odd_draw, o.odd_away,
		       COALESCE(o.market_overround, 0), o.captured_at, o.market, o.bookmaker
		FROM odds_snapshots o
		JOIN matches m ON m.external_match_id = o.external_match_id
		WHERE m.competition_code = $1
		ORDER BY o.captured_at ASC`

	rows, err := o.db.Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds snapshots for %s: %w", league, err)
	}
	defer rows.Close()

	var snapshots []models.OddsSnapshot
	for rows.Next() {
		var s models.OddsSnapshot
		if err := rows.Scan(
			&s.ExternalMatchID, &s.LeagueID, &s.OddHome, &s.OddDraw, &s.OddAway,
			&s.MarketOverround, &s.CapturedAt, &s.Market, &s.Bookmaker,
		); err != nil {
			return nil, fmt.Errorf("failed to scan odds snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating odds snapshots: %w", err)
	}

	return snapshots, nil
}
