package service

import (
	"strings"

	"github.com/yourusername/egg-stats/internal/models"
)

// DataNormalizer converts feed fixtures into storable match records
type DataNormalizer struct {
	// aliases maps a feed team name to the canonical stored name
	aliases map[string]string
}

// NewDataNormalizer creates a normalizer. Aliases are optional.
func NewDataNormalizer(aliases map[string]string) *DataNormalizer {
	return &DataNormalizer{aliases: aliases}
}

// NormalizeFixture converts a fixture into a match record. The league code
// falls back to the requested league when the payload omits it.
func (n *DataNormalizer) NormalizeFixture(f *models.Fixture, league string) models.Match {
	m := f.ToMatch()
	if m.League == "" {
		m.League = league
	}
	m.League = strings.ToUpper(strings.TrimSpace(m.League))
	m.HomeTeam = n.teamName(m.HomeTeam)
	m.AwayTeam = n.teamName(m.AwayTeam)
	m.MatchDate = m.MatchDate.UTC()
	return m
}

// teamName collapses whitespace and applies aliases
func (n *DataNormalizer) teamName(name string) string {
	clean := strings.Join(strings.Fields(name), " ")
	if canonical, ok := n.aliases[clean]; ok {
		return canonical
	}
	return clean
}
