package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
)

func TestNormalizeTeamName(t *testing.T) {
	tests := map[string]string{
		"Atlético Madrid":          "atleticomadrid",
		"Borussia Mönchengladbach": "borussiamonchengladbach",
		"São Paulo FC":             "saopaulofc",
		"1. FC Köln":               "fckoln",
		"  ":                       "",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeTeamName(in), in)
	}
}

func TestIsSameTeam(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Manchester United FC", "Manchester United", true},
		{"Wolverhampton Wanderers", "Wolves", false},
		{"Atlético Madrid", "Club Atletico de Madrid", false},
		{"Grêmio", "Gremio FBPA", true},
		{"", "Arsenal", false},
		{"123", "456", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsSameTeam(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.want, IsSameTeam(tt.b, tt.a), "%q vs %q", tt.b, tt.a)
	}
}

func TestFindOddsEvent(t *testing.T) {
	events := []models.OddsEvent{
		oddsEvent("Chelsea", "Arsenal", 2, 3, 4),
		oddsEvent("Arsenal", "Chelsea", 2, 3, 4),
	}

	ev, ok := FindOddsEvent(events, "Arsenal FC", "Chelsea FC")
	require.True(t, ok)
	assert.Equal(t, "Arsenal", ev.HomeTeam)

	_, ok = FindOddsEvent(events, "Arsenal FC", "Everton")
	assert.False(t, ok)
}

func TestResolveTeam(t *testing.T) {
	model := rating.NewModel(map[string]rating.TeamStrength{
		"Manchester United FC": {},
		"Manchester City FC":   {},
		"Arsenal FC":           {},
	}, 0.2, 0, 2.6)

	name, err := ResolveTeam(model, "Arsenal FC")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal FC", name)

	name, err = ResolveTeam(model, "arsenal")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal FC", name)

	_, err = ResolveTeam(model, "Manchester")
	assert.True(t, errors.Is(err, models.ErrUnknownTeam))
	assert.ErrorContains(t, err, "ambiguous")

	_, err = ResolveTeam(model, "Everton")
	assert.True(t, errors.Is(err, models.ErrUnknownTeam))
}
