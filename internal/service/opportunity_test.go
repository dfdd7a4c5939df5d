package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/models"
)

type scanFixture struct {
	cfg      *config.Config
	matches  *MockMatchRepository
	bets     *MockBetLogRepository
	fixtures *MockFixtureSource
	odds     *MockOddsSource
	svc      *OpportunityService
}

func newScanFixture() *scanFixture {
	f := &scanFixture{
		cfg:      testConfig(),
		matches:  new(MockMatchRepository),
		bets:     new(MockBetLogRepository),
		fixtures: new(MockFixtureSource),
		odds:     new(MockOddsSource),
	}
	f.svc = NewOpportunityService(f.cfg, f.fixtures, f.odds, newTestBuilder(f.matches), f.bets,
		market.NewEngine(market.DefaultConfig(), logger.Discard()), logger.Discard())
	return f
}

func TestScanRecordsValuePicks(t *testing.T) {
	f := newScanFixture()
	ctx := context.Background()

	f.fixtures.On("UpcomingMatches", ctx, []string{"PL"}).Return([]models.Fixture{
		fixture(101, "PL", "Alpha FC", "Delta Rovers"),
		fixture(102, "PL", "Bravo United", "Charlie Town"),
		fixture(103, "PL", "Echo City", "Alpha FC"),
		fixture(201, "SA", "Juventus", "Napoli"),
	}, nil)
	f.matches.On("ListScored", mock.Anything, "PL").Return(dominantHistory(3), nil)
	f.odds.On("FetchOdds", mock.Anything, "soccer_epl").Return([]models.OddsEvent{
		oddsEvent("Alpha", "Delta Rovers FC", 3.0, 3.0, 3.0),
		oddsEvent("Echo City", "Alpha FC", 2.0, 3.4, 3.6),
	}, nil)

	var recorded []*models.BetLog
	f.bets.On("InsertBatch", mock.Anything, mock.AnythingOfType("[]*models.BetLog")).
		Run(func(args mock.Arguments) { recorded = args.Get(1).([]*models.BetLog) }).
		Return(int64(1), nil)

	res, err := f.svc.Scan(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Leagues)
	assert.Equal(t, 3, res.Fixtures)
	assert.Equal(t, 1, res.Count)
	assert.Equal(t, int64(1), res.Recorded)
	require.Len(t, res.Opportunities, 1)

	opp := res.Opportunities[0]
	assert.Equal(t, "PL", opp.League)
	assert.Equal(t, "Alpha FC vs Delta Rovers", opp.Match)
	assert.Equal(t, models.OutcomeHome, opp.Pick)
	assert.Equal(t, 3.0, opp.Odd)
	assert.Greater(t, opp.Edge, market.DefaultMinEdge)

	require.Len(t, recorded, 1)
	assert.Equal(t, "101", recorded[0].ExternalMatchID)
	assert.True(t, recorded[0].Stake.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, models.OutcomeHome, recorded[0].Pick)

	f.odds.AssertNotCalled(t, "FetchOdds", mock.Anything, "soccer_italy_serie_a")
	f.bets.AssertExpectations(t)
}

func TestScanSkipsThinLeagues(t *testing.T) {
	f := newScanFixture()
	ctx := context.Background()

	f.fixtures.On("UpcomingMatches", ctx, []string{"PL"}).Return([]models.Fixture{
		fixture(101, "PL", "Alpha FC", "Delta Rovers"),
	}, nil)
	f.matches.On("ListScored", mock.Anything, "PL").Return(dominantHistory(3)[:5], nil)

	res, err := f.svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	assert.Empty(t, res.Opportunities)

	f.odds.AssertNotCalled(t, "FetchOdds", mock.Anything, mock.Anything)
	f.bets.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestScanSkipsLeagueWhenOddsFail(t *testing.T) {
	f := newScanFixture()
	ctx := context.Background()

	f.fixtures.On("UpcomingMatches", ctx, []string{"PL"}).Return([]models.Fixture{
		fixture(101, "PL", "Alpha FC", "Delta Rovers"),
	}, nil)
	f.matches.On("ListScored", mock.Anything, "PL").Return(dominantHistory(3), nil)
	f.odds.On("FetchOdds", mock.Anything, "soccer_epl").Return(nil, errors.New("quota exhausted"))

	res, err := f.svc.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Count)
	f.bets.AssertNotCalled(t, "InsertBatch", mock.Anything, mock.Anything)
}

func TestScanFailsOnLedgerError(t *testing.T) {
	f := newScanFixture()
	ctx := context.Background()

	f.fixtures.On("UpcomingMatches", ctx, []string{"PL"}).Return([]models.Fixture{
		fixture(101, "PL", "Alpha FC", "Delta Rovers"),
	}, nil)
	f.matches.On("ListScored", mock.Anything, "PL").Return(dominantHistory(3), nil)
	f.odds.On("FetchOdds", mock.Anything, "soccer_epl").Return([]models.OddsEvent{
		oddsEvent("Alpha FC", "Delta Rovers", 3.0, 3.0, 3.0),
	}, nil)
	f.bets.On("InsertBatch", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	_, err := f.svc.Scan(ctx)
	assert.ErrorContains(t, err, "connection reset")
}

func TestScanFailsWhenFixturesUnavailable(t *testing.T) {
	f := newScanFixture()
	ctx := context.Background()
	f.fixtures.On("UpcomingMatches", ctx, []string{"PL"}).Return(nil, errors.New("503"))

	_, err := f.svc.Scan(ctx)
	assert.ErrorContains(t, err, "upcoming matches")
}

func TestTopN(t *testing.T) {
	opps := []models.Opportunity{{Score: 3}, {Score: 2}, {Score: 1}}
	assert.Len(t, topN(opps, 2), 2)
	assert.Len(t, topN(opps, 5), 3)
}
