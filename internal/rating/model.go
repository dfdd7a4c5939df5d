package rating

import (
	"encoding/json"
	"math"
	"sort"

	"github.com/yourusername/egg-stats/internal/models"
)

// TeamStrength holds latent attack and defense ratings
type TeamStrength struct {
	Attack  float64 `json:"attack"`
	Defense float64 `json:"defense"`
}

// Model is an immutable trained snapshot. Team lookups return copies.
type Model struct {
	teams              map[string]TeamStrength
	homeAdvantage      float64
	rho                float64
	leagueAverageGoals float64
}

// NewModel builds a model from explicit parameters. The team map is copied.
func NewModel(teams map[string]TeamStrength, homeAdvantage, rho, leagueAverageGoals float64) *Model {
	copied := make(map[string]TeamStrength, len(teams))
	for name, s := range teams {
		copied[name] = s
	}
	return &Model{
		teams:              copied,
		homeAdvantage:      homeAdvantage,
		rho:                rho,
		leagueAverageGoals: leagueAverageGoals,
	}
}

func neutralModel(rho float64) *Model {
	return NewModel(nil, NeutralHomeAdvantage, rho, NeutralLeagueAverageGoals)
}

// HomeAdvantage returns the global home-advantage scalar
func (m *Model) HomeAdvantage() float64 { return m.homeAdvantage }

// Rho returns the Dixon-Coles parameter the model was trained with
func (m *Model) Rho() float64 { return m.rho }

// LeagueAverageGoals returns the observed goals per match in the training set
func (m *Model) LeagueAverageGoals() float64 { return m.leagueAverageGoals }

// TeamCount returns the number of rated teams
func (m *Model) TeamCount() int { return len(m.teams) }

// Team returns a team's strength; ok is false for unknown teams
func (m *Model) Team(name string) (TeamStrength, bool) {
	s, ok := m.teams[name]
	return s, ok
}

// TeamNames returns rated team names in sorted order
func (m *Model) TeamNames() []string {
	names := make([]string, 0, len(m.teams))
	for name := range m.teams {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lambdas returns expected goals for a fixture. ok is false when either team is unknown.
func (m *Model) Lambdas(home, away string) (lambdaHome, lambdaAway float64, ok bool) {
	th, okH := m.teams[home]
	ta, okA := m.teams[away]
	if !okH || !okA {
		return 0, 0, false
	}
	return math.Exp(th.Attack - ta.Defense + m.homeAdvantage), math.Exp(ta.Attack - th.Defense), true
}

// ImpliedAverageGoals returns the model's mean total goals over the given matches,
// ignoring fixtures with unknown teams.
func (m *Model) ImpliedAverageGoals(matches []models.Match) float64 {
	return estimateAverageGoals(matches, m.teams, m.homeAdvantage)
}

type modelJSON struct {
	Teams              map[string]TeamStrength `json:"teams"`
	HomeAdvantage      float64                 `json:"home_advantage"`
	Rho                float64                 `json:"rho"`
	LeagueAverageGoals float64                 `json:"league_average_goals"`
}

// MarshalJSON exports the snapshot
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(modelJSON{
		Teams:              m.teams,
		HomeAdvantage:      m.homeAdvantage,
		Rho:                m.rho,
		LeagueAverageGoals: m.leagueAverageGoals,
	})
}

func estimateAverageGoals(matches []models.Match, teams map[string]TeamStrength, homeAdv float64) float64 {
	total, count := 0.0, 0
	for i := range matches {
		th, okH := teams[matches[i].HomeTeam]
		ta, okA := teams[matches[i].AwayTeam]
		if !okH || !okA {
			continue
		}
		total += math.Exp(th.Attack - ta.Defense + homeAdv)
		total += math.Exp(ta.Attack - th.Defense)
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}
