package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/egg-stats/internal/database"
	"github.com/yourusername/egg-stats/internal/models"
)

const matchColumns = `external_match_id, COALESCE(league_id, 0), competition_code, COALESCE(season, ''),
	home_team, away_team, match_date, home_goals, away_goals, status`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db database.Querier
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db database.Querier) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// ListScored returns the league's finished matches with both scores, oldest first
func (r *PostgresMatchRepository) ListScored(ctx context.Context, league string) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE competition_code = $1
		  AND home_goals IS NOT NULL
		  AND away_goals IS NOT NULL
		ORDER BY match_date ASC`

	rows, err := r.db.Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for %s: %w", league, err)
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		// rows written before the status column existed may carry a score but no status
		if m.HomeGoals != nil && m.AwayGoals != nil {
			m.Status = models.MatchStatusFinished
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating matches: %w", err)
	}

	return matches, nil
}

// GetByExternalID retrieves a match by its feed id
func (r *PostgresMatchRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE external_match_id = $1`

	m, err := scanMatch(r.db.QueryRow(ctx, query, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

// Upsert inserts a match or refreshes its score and status
func (r *PostgresMatchRepository) Upsert(ctx context.Context, m *models.Match) error {
	query := `
		INSERT INTO matches
			(external_match_id, league_id, season, home_team, away_team,
			 match_date, home_goals, away_goals, status, competition_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (external_match_id) DO UPDATE
			SET home_goals = EXCLUDED.home_goals,
			    away_goals = EXCLUDED.away_goals,
			    status     = EXCLUDED.status`

	_, err := r.db.Exec(ctx, query,
		m.ExternalID, m.LeagueID, m.Season, m.HomeTeam, m.AwayTeam,
		m.MatchDate, m.HomeGoals, m.AwayGoals, string(m.Status), m.League,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert match %s: %w", m.ExternalID, err)
	}
	return nil
}

// UpdateScore writes a final score once; rows that already have a score are left alone
func (r *PostgresMatchRepository) UpdateScore(ctx context.Context, externalID string, homeGoals, awayGoals int) (int64, error) {
	query := `
		UPDATE matches
		SET home_goals = $1, away_goals = $2, status = 'FINISHED'
		WHERE external_match_id = $3
		  AND home_goals IS NULL`

	tag, err := r.db.Exec(ctx, query, homeGoals, awayGoals, externalID)
	if err != nil {
		return 0, fmt.Errorf("failed to update score for %s: %w", externalID, err)
	}
	return tag.RowsAffected(), nil
}

func scanMatch(row pgx.Row) (models.Match, error) {
	var m models.Match
	var status string
	err := row.Scan(
		&m.ExternalID, &m.LeagueID, &m.League, &m.Season,
		&m.HomeTeam, &m.AwayTeam, &m.MatchDate, &m.HomeGoals, &m.AwayGoals, &status,
	)
	m.Status = models.MatchStatus(status)
	return m, err
}
