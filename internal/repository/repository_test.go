package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/egg-stats/internal/models"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func intPtr(v int) *int { return &v }

var matchRowColumns = []string{
	"external_match_id", "league_id", "competition_code", "season",
	"home_team", "away_team", "match_date", "home_goals", "away_goals", "status",
}

func TestValuesClause(t *testing.T) {
	assert.Equal(t, "($1,$2),($3,$4)", valuesClause(2, "(?,?)"))
	assert.Equal(t, "($1,NOW(),$2)", valuesClause(1, "(?,NOW(),?)"))
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)

	repos, err := NewRepositories(newMock(t))
	require.NoError(t, err)
	assert.NotNil(t, repos.Match)
	assert.NotNil(t, repos.Odds)
	assert.NotNil(t, repos.Bets)
}

func TestMatchRepositoryListScored(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresMatchRepository(mock)
	d1 := time.Date(2023, 8, 12, 14, 0, 0, 0, time.UTC)
	d2 := d1.Add(7 * 24 * time.Hour)

	mock.ExpectQuery(`FROM matches\s+WHERE competition_code = \$1\s+AND home_goals IS NOT NULL`).
		WithArgs("PL").
		WillReturnRows(pgxmock.NewRows(matchRowColumns).
			AddRow("1", 2021, "PL", "2023", "Arsenal FC", "Everton FC", d1, intPtr(2), intPtr(0), "FINISHED").
			AddRow("2", 2021, "PL", "2023", "Everton FC", "Chelsea FC", d2, intPtr(1), intPtr(1), ""))

	matches, err := repo.ListScored(context.Background(), "PL")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "Arsenal FC", matches[0].HomeTeam)
	assert.True(t, matches[1].IsScored(), "a stored score implies a finished match")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositoryGetByExternalIDNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresMatchRepository(mock)

	mock.ExpectQuery(`FROM matches WHERE external_match_id = \$1`).
		WithArgs("404").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByExternalID(context.Background(), "404")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMatchRepositoryUpsert(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresMatchRepository(mock)
	m := models.NewFinishedMatch("Lazio", "Roma", 1, 0, time.Date(2024, 1, 7, 17, 0, 0, 0, time.UTC))
	m.ExternalID = "77"
	m.League = "SA"
	m.LeagueID = 2019
	m.Season = "2023"

	mock.ExpectExec(`INSERT INTO matches .* ON CONFLICT \(external_match_id\) DO UPDATE`).
		WithArgs("77", 2019, "2023", "Lazio", "Roma", m.MatchDate, m.HomeGoals, m.AwayGoals, "FINISHED", "SA").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Upsert(context.Background(), &m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMatchRepositoryUpdateScore(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresMatchRepository(mock)

	mock.ExpectExec(`UPDATE matches\s+SET home_goals = \$1, away_goals = \$2, status = 'FINISHED'\s+WHERE external_match_id = \$3\s+AND home_goals IS NULL`).
		WithArgs(3, 1, "99").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	n, err := repo.UpdateScore(context.Background(), "99", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOddsRepositoryInsertBatch(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresOddsRepository(mock)

	snapshots := []models.OddsSnapshot{
		{ExternalMatchID: "1", LeagueID: 2021, OddHome: 2, OddDraw: 3.4, OddAway: 4, MarketOverround: 1.044},
		{ExternalMatchID: "2", LeagueID: 2021, OddHome: 1.5, OddDraw: 4, OddAway: 7, MarketOverround: 1.06, Bookmaker: "pinnacle"},
	}

	mock.ExpectExec(`VALUES \(\$1,\$2,\$3,\$4,\$5,\$6,NOW\(\),\$7,\$8\),\(\$9,.*ON CONFLICT DO NOTHING`).
		WithArgs(
			"1", 2021, 2.0, 3.4, 4.0, 1.044, "h2h", "composite",
			"2", 2021, 1.5, 4.0, 7.0, 1.06, "h2h", "pinnacle",
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 2))

	n, err := repo.InsertBatch(context.Background(), snapshots)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOddsRepositoryInsertBatchEmpty(t *testing.T) {
	mock := newMock(t)
	n, err := NewPostgresOddsRepository(mock).InsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOddsRepositoryListByLeague(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresOddsRepository(mock)
	captured := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM odds_snapshots o\s+JOIN matches m`).
		WithArgs("PL").
		WillReturnRows(pgxmock.NewRows([]string{
			"external_match_id", "league_id", "odd_home", "odd_draw", "odd_away",
			"market_overround", "captured_at", "market", "bookmaker",
		}).AddRow("1", 2021, 2.0, 3.4, 4.0, 1.044, captured, "h2h", "composite"))

	snapshots, err := repo.ListByLeague(context.Background(), "PL")
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, models.BestOdds{Home: 2, Draw: 3.4, Away: 4}, snapshots[0].BestOdds())
}

func TestBetLogRepositoryInsertBatchIgnoresDuplicates(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresBetLogRepository(mock)

	bet := models.NewBetLog("1", &models.Opportunity{
		League: "PL", Match: "Arsenal vs Chelsea", Pick: models.OutcomeHome, Odd: 2,
		Edge: 0.0588, EV: 0.1, Confidence: models.ConfidenceHigh,
		Details: models.OpportunityDetails{PModel: 0.55, PMarket: 0.4912},
	}, decimal.NewFromInt(1))

	mock.ExpectExec(`INSERT INTO bet_log .* ON CONFLICT \(external_match_id, pick\) DO NOTHING`).
		WithArgs(bet.ID, "1", "PL", "Arsenal vs Chelsea", "HOME",
			bet.OddTaken, 0.55, 0.4912, 0.0588, 0.1, "HIGH", bet.Stake).
		WillReturnResult(pgxmock.NewResult("INSERT", 0))

	n, err := repo.InsertBatch(context.Background(), []*models.BetLog{bet})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBetLogRepositoryListUnsettled(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresBetLogRepository(mock)
	id := uuid.New()
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM bet_log\s+WHERE result IS NULL`).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "external_match_id", "league_code", "match_label", "pick",
			"odd_taken", "stake", "confidence", "created_at",
		}).AddRow(id, "1", "PL", "Arsenal vs Chelsea", "DRAW",
			decimal.RequireFromString("3.4"), decimal.NewFromInt(1), "MEDIUM", created))

	bets, err := repo.ListUnsettled(context.Background())
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, id, bets[0].ID)
	assert.Equal(t, models.OutcomeDraw, bets[0].Pick)
	assert.Equal(t, models.ConfidenceMedium, bets[0].Confidence)
	assert.True(t, bets[0].OddTaken.Equal(decimal.RequireFromString("3.4")))
}

func TestBetLogRepositorySettle(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresBetLogRepository(mock)
	id := uuid.New()
	profit := decimal.RequireFromString("2.4")

	mock.ExpectExec(`UPDATE bet_log SET result = \$1, profit = \$2 WHERE id = \$3`).
		WithArgs("WIN", profit, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(`UPDATE bet_log`).
		WithArgs("LOSS", decimal.NewFromInt(-1), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.Settle(context.Background(), id, models.BetResultWin, profit))
	err := repo.Settle(context.Background(), id, models.BetResultLoss, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBetLogRepositoryPerformance(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresBetLogRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "wins", "staked", "net"}).
			AddRow(4, 2, decimal.NewFromInt(4), decimal.RequireFromString("1.5")))
	mock.ExpectQuery(`GROUP BY league_code\s+ORDER BY net_units DESC`).
		WillReturnRows(pgxmock.NewRows([]string{"league_code", "bets", "wins", "net_units"}).
			AddRow("SA", 1, 1, decimal.RequireFromString("2.5")).
			AddRow("PL", 3, 1, decimal.NewFromInt(-1)))
	mock.ExpectQuery(`COALESCE\(confidence, 'UNKNOWN'\)`).
		WillReturnRows(pgxmock.NewRows([]string{"confidence", "bets", "wins", "net_units"}).
			AddRow("HIGH", 2, 2, decimal.NewFromInt(3)).
			AddRow("UNKNOWN", 2, 0, decimal.RequireFromString("-1.5")))

	perf, err := repo.Performance(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, perf.Summary.TotalBets)
	assert.Equal(t, 0.5, perf.Summary.HitRate)
	assert.InDelta(t, 0.375, perf.Summary.ROI, 1e-12)
	require.Len(t, perf.ByLeague, 2)
	assert.Equal(t, "SA", perf.ByLeague[0].Group)
	assert.Equal(t, 1.0, perf.ByLeague[0].HitRate)
	require.Len(t, perf.ByConfidence, 2)
	assert.Equal(t, "UNKNOWN", perf.ByConfidence[1].Group)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBetLogRepositoryPerformanceEmpty(t *testing.T) {
	mock := newMock(t)
	repo := NewPostgresBetLogRepository(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "wins", "staked", "net"}).
			AddRow(0, 0, decimal.Zero, decimal.Zero))
	mock.ExpectQuery(`GROUP BY league_code`).
		WillReturnRows(pgxmock.NewRows([]string{"league_code", "bets", "wins", "net_units"}))
	mock.ExpectQuery(`COALESCE\(confidence`).
		WillReturnRows(pgxmock.NewRows([]string{"confidence", "bets", "wins", "net_units"}))

	perf, err := repo.Performance(context.Background())
	require.NoError(t, err)
	assert.Zero(t, perf.Summary.HitRate)
	assert.Zero(t, perf.Summary.ROI)
	assert.Empty(t, perf.ByLeague)
}
