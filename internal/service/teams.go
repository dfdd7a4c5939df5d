package service

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
)

// NormalizeTeamName folds a team name to lowercase ASCII letters: accents are
// decomposed and dropped, everything outside a-z is removed.
func NormalizeTeamName(name string) string {
	// Chained transformers keep state, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		if r >= 'a' && r <= 'z' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsSameTeam reports whether two feed names refer to the same club. Either
// normalized name containing the other counts as a match.
func IsSameTeam(a, b string) bool {
	na, nb := NormalizeTeamName(a), NormalizeTeamName(b)
	if na == "" || nb == "" {
		return false
	}
	return strings.Contains(na, nb) || strings.Contains(nb, na)
}

// FindOddsEvent returns the first odds event whose home and away teams match
func FindOddsEvent(events []models.OddsEvent, home, away string) (*models.OddsEvent, bool) {
	for i := range events {
		if IsSameTeam(events[i].HomeTeam, home) && IsSameTeam(events[i].AwayTeam, away) {
			return &events[i], true
		}
	}
	return nil, false
}

// ResolveTeam maps a user-supplied name onto a team known to the model.
// Exact names win; otherwise exactly one fuzzy match is required.
func ResolveTeam(model *rating.Model, name string) (string, error) {
	if _, ok := model.Team(name); ok {
		return name, nil
	}

	var candidates []string
	for _, team := range model.TeamNames() {
		if IsSameTeam(team, name) {
			candidates = append(candidates, team)
		}
	}

	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", fmt.Errorf("%w: %q", models.ErrUnknownTeam, name)
	default:
		return "", fmt.Errorf("%w: %q is ambiguous (%s)", models.ErrUnknownTeam, name, strings.Join(candidates, ", "))
	}
}
