package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
)

// MockMatchRepository mocks the match repository
type MockMatchRepository struct {
	mock.Mock
}

func (m *MockMatchRepository) ListScored(ctx context.Context, league string) ([]models.Match, error) {
	args := m.Called(ctx, league)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Match), args.Error(1)
}

func (m *MockMatchRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Match, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Match), args.Error(1)
}

func (m *MockMatchRepository) Upsert(ctx context.Context, match *models.Match) error {
	args := m.Called(ctx, match)
	return args.Error(0)
}

func (m *MockMatchRepository) UpdateScore(ctx context.Context, externalID string, homeGoals, awayGoals int) (int64, error) {
	args := m.Called(ctx, externalID, homeGoals, awayGoals)
	return args.Get(0).(int64), args.Error(1)
}

// MockOddsSnapshotRepository mocks the odds snapshot repository
type MockOddsSnapshotRepository struct {
	mock.Mock
}

func (m *MockOddsSnapshotRepository) InsertBatch(ctx context.Context, snapshots []models.OddsSnapshot) (int64, error) {
	args := m.Called(ctx, snapshots)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOddsSnapshotRepository) ListByLeague(ctx context.Context, league string) ([]models.OddsSnapshot, error) {
	args := m.Called(ctx, league)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OddsSnapshot), args.Error(1)
}

// MockBetLogRepository mocks the bet ledger repository
type MockBetLogRepository struct {
	mock.Mock
}

func (m *MockBetLogRepository) InsertBatch(ctx context.Context, bets []*models.BetLog) (int64, error) {
	args := m.Called(ctx, bets)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBetLogRepository) ListUnsettled(ctx context.Context) ([]*models.BetLog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BetLog), args.Error(1)
}

func (m *MockBetLogRepository) Settle(ctx context.Context, id uuid.UUID, result models.BetResult, profit decimal.Decimal) error {
	args := m.Called(ctx, id, result, profit)
	return args.Error(0)
}

func (m *MockBetLogRepository) Performance(ctx context.Context) (*models.Performance, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Performance), args.Error(1)
}

// MockFixtureSource mocks the results feed
type MockFixtureSource struct {
	mock.Mock
}

func (m *MockFixtureSource) UpcomingMatches(ctx context.Context, codes []string) ([]models.Fixture, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}

func (m *MockFixtureSource) RecentFinishedMatches(ctx context.Context) ([]models.Fixture, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}

func (m *MockFixtureSource) HistoricalMatches(ctx context.Context, code string, seasons []int) ([]models.Fixture, error) {
	args := m.Called(ctx, code, seasons)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Fixture), args.Error(1)
}

// MockOddsSource mocks the odds feed
type MockOddsSource struct {
	mock.Mock
}

func (m *MockOddsSource) FetchOdds(ctx context.Context, sportKey string) ([]models.OddsEvent, error) {
	args := m.Called(ctx, sportKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OddsEvent), args.Error(1)
}

var testTeams = []string{"Alpha FC", "Bravo United", "Charlie Town", "Delta Rovers"}

func testConfig() *config.Config {
	return &config.Config{
		Leagues: []config.LeagueConfig{
			{Code: "PL", SportKey: "soccer_epl", Enabled: true, MinMatches: 20},
			{Code: "SA", SportKey: "soccer_italy_serie_a", Enabled: false},
		},
		Scanner: config.ScannerConfig{TopN: 5, Stake: 2, Concurrency: 2},
	}
}

// dominantHistory returns rounds of a double round robin in which Alpha FC
// wins every game 3-0 and every other game is 1-1
func dominantHistory(rounds int) []models.Match {
	start := time.Date(2023, 8, 1, 15, 0, 0, 0, time.UTC)
	var out []models.Match
	day := 0
	for r := 0; r < rounds; r++ {
		for _, home := range testTeams {
			for _, away := range testTeams {
				if home == away {
					continue
				}
				hg, ag := 1, 1
				switch {
				case home == testTeams[0]:
					hg, ag = 3, 0
				case away == testTeams[0]:
					hg, ag = 0, 3
				}
				m := models.NewFinishedMatch(home, away, hg, ag, start.AddDate(0, 0, day))
				m.ExternalID = fmt.Sprintf("h%d", day)
				m.League = "PL"
				out = append(out, m)
				day++
			}
		}
	}
	return out
}

func fixture(id int64, code, home, away string) models.Fixture {
	return models.Fixture{
		ID:          id,
		UTCDate:     time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC),
		Status:      "SCHEDULED",
		Competition: models.FixtureCompetition{ID: 2021, Code: code},
		Season:      models.FixtureSeason{StartDate: "2023-08-11"},
		HomeTeam:    models.FixtureTeam{Name: home},
		AwayTeam:    models.FixtureTeam{Name: away},
	}
}

func scoredFixture(id int64, code, home, away string, hg, ag int) models.Fixture {
	f := fixture(id, code, home, away)
	f.Status = "FINISHED"
	f.Score.FullTime = models.FixtureGoals{Home: &hg, Away: &ag}
	return f
}

func oddsEvent(home, away string, h, d, a float64) models.OddsEvent {
	return models.OddsEvent{
		ID:       home + "-" + away,
		SportKey: "soccer_epl",
		HomeTeam: home,
		AwayTeam: away,
		Bookmakers: []models.Bookmaker{{
			Key: "book",
			Markets: []models.MarketQuotes{{
				Key: models.MarketKeyH2H,
				Outcomes: []models.OutcomePrice{
					{Name: home, Price: h},
					{Name: models.DrawOutcomeName, Price: d},
					{Name: away, Price: a},
				},
			}},
		}},
	}
}

func newTestBuilder(matches *MockMatchRepository) *ModelBuilder {
	return NewModelBuilder(matches, rating.DefaultConfig(), logger.Discard())
}
