package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchResult(t *testing.T) {
	date := time.Date(2024, 3, 1, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		home, away int
		want       Outcome
	}{
		{"home win", 2, 1, OutcomeHome},
		{"draw", 1, 1, OutcomeDraw},
		{"away win", 0, 3, OutcomeAway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewFinishedMatch("A", "B", tt.home, tt.away, date)
			got, ok := m.Result()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	scheduled := Match{HomeTeam: "A", AwayTeam: "B", Status: MatchStatusScheduled}
	_, ok := scheduled.Result()
	assert.False(t, ok)
	assert.Equal(t, "A vs B", scheduled.Label())
}

func TestProbabilitiesTopPickTies(t *testing.T) {
	assert.Equal(t, OutcomeHome, Uniform().TopPick())
	assert.Equal(t, OutcomeDraw, Probabilities{Home: 0.2, Draw: 0.4, Away: 0.4}.TopPick())
	assert.Equal(t, OutcomeAway, Probabilities{Home: 0.2, Draw: 0.3, Away: 0.5}.TopPick())
	assert.InDelta(t, 1.0, Uniform().Sum(), 1e-12)
}

func TestBetLogSettle(t *testing.T) {
	opp := &Opportunity{League: "PL", Match: "Arsenal vs Chelsea", Pick: OutcomeHome, Odd: 2.1, Confidence: ConfidenceHigh}
	bet := NewBetLog("1001", opp, decimal.NewFromInt(2))
	assert.False(t, bet.IsSettled())

	result, profit := bet.Settle(OutcomeHome)
	assert.Equal(t, BetResultWin, result)
	assert.True(t, profit.Equal(decimal.RequireFromString("2.2")), profit.String())

	result, profit = bet.Settle(OutcomeDraw)
	assert.Equal(t, BetResultLoss, result)
	assert.True(t, profit.Equal(decimal.NewFromInt(-2)))
}

func TestPerformanceRatios(t *testing.T) {
	assert.Equal(t, 0.0, HitRate(0, 0))
	assert.Equal(t, 0.5, HitRate(2, 4))
	assert.Equal(t, 0.0, ComputeROI(decimal.NewFromInt(3), decimal.Zero))
	assert.InDelta(t, 0.25, ComputeROI(decimal.NewFromInt(1), decimal.NewFromInt(4)), 1e-12)
}

func TestFixtureToMatch(t *testing.T) {
	payload := `{
		"id": 497123,
		"utcDate": "2023-08-12T14:00:00Z",
		"status": "FINISHED",
		"competition": {"id": 2021, "code": "PL"},
		"season": {"startDate": "2023-08-11"},
		"homeTeam": {"id": 57, "name": "Arsenal FC"},
		"awayTeam": {"id": 351, "name": "Nottingham Forest FC"},
		"score": {"fullTime": {"home": 2, "away": 1}}
	}`

	var f Fixture
	require.NoError(t, json.Unmarshal([]byte(payload), &f))

	m := f.ToMatch()
	assert.Equal(t, "497123", m.ExternalID)
	assert.Equal(t, "PL", m.League)
	assert.Equal(t, 2021, m.LeagueID)
	assert.Equal(t, "2023", m.Season)
	assert.Equal(t, MatchStatusFinished, m.Status)
	outcome, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, OutcomeHome, outcome)
}

func TestFixtureWithoutScoreIsScheduled(t *testing.T) {
	f := Fixture{
		ID:       9,
		UTCDate:  time.Date(2025, 1, 4, 12, 30, 0, 0, time.UTC),
		Status:   "FINISHED",
		HomeTeam: FixtureTeam{Name: "Lazio"},
		AwayTeam: FixtureTeam{Name: "Roma"},
	}

	m := f.ToMatch()
	assert.Equal(t, MatchStatusScheduled, m.Status)
	assert.Nil(t, m.HomeGoals)
	assert.Equal(t, "2025", m.Season)
}

func TestSnapshotImpliedProbability(t *testing.T) {
	s := OddsSnapshot{OddHome: 2, OddDraw: 4, OddAway: 0}
	assert.Equal(t, 0.5, s.GetImpliedProbability(OutcomeHome))
	assert.Equal(t, 0.0, s.GetImpliedProbability(OutcomeAway))
	assert.False(t, s.BestOdds().IsValid())
}
