package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/egg-stats/internal/models"
)

// earliestMatchDate rejects obviously broken kickoff dates from the feed
var earliestMatchDate = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)

// DataValidator validates match records before they are stored
type DataValidator struct {
	validate *validator.Validate
}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidator {
	return &DataValidator{validate: validator.New()}
}

// ValidateMatch checks required fields and score consistency. It returns
// one message per problem; an empty slice means the match is valid.
func (v *DataValidator) ValidateMatch(m *models.Match) []string {
	var problems []string

	if err := v.validate.Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				problems = append(problems, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
		} else {
			problems = append(problems, err.Error())
		}
	}

	if m.ExternalID == "" {
		problems = append(problems, "external id is required")
	}

	if m.HomeTeam != "" && NormalizeTeamName(m.HomeTeam) == NormalizeTeamName(m.AwayTeam) {
		problems = append(problems, fmt.Sprintf("home and away are the same team: %s", m.HomeTeam))
	}

	if !m.MatchDate.IsZero() && m.MatchDate.Before(earliestMatchDate) {
		problems = append(problems, fmt.Sprintf("match date %s is before %s",
			m.MatchDate.Format(time.DateOnly), earliestMatchDate.Format(time.DateOnly)))
	}

	if (m.HomeGoals == nil) != (m.AwayGoals == nil) {
		problems = append(problems, "score must have both goal counts or neither")
	}
	if m.HomeGoals != nil && *m.HomeGoals < 0 {
		problems = append(problems, fmt.Sprintf("home goals cannot be negative, got %d", *m.HomeGoals))
	}
	if m.AwayGoals != nil && *m.AwayGoals < 0 {
		problems = append(problems, fmt.Sprintf("away goals cannot be negative, got %d", *m.AwayGoals))
	}

	if m.Status == models.MatchStatusFinished && m.HomeGoals == nil {
		problems = append(problems, "finished match has no score")
	}

	return problems
}
