package models

import (
	"fmt"
	"time"
)

// MatchStatus mirrors the fixture status reported by the results feed
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "SCHEDULED"
	MatchStatusFinished  MatchStatus = "FINISHED"
)

// Outcome is one side of the three-way (1X2) market
type Outcome string

const (
	OutcomeHome Outcome = "HOME"
	OutcomeDraw Outcome = "DRAW"
	OutcomeAway Outcome = "AWAY"
)

// Outcomes lists the three sides in their canonical order
var Outcomes = []Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

// Match represents a single fixture, finished or not
type Match struct {
	ExternalID string      `db:"external_match_id" json:"external_match_id"`
	League     string      `db:"competition_code" json:"league"`
	LeagueID   int         `db:"league_id" json:"league_id"`
	Season     string      `db:"season" json:"season"`
	HomeTeam   string      `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam   string      `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals  *int        `db:"home_goals" json:"home_goals"`
	AwayGoals  *int        `db:"away_goals" json:"away_goals"`
	MatchDate  time.Time   `db:"match_date" json:"match_date" validate:"required"`
	Status     MatchStatus `db:"status" json:"status"`
}

// IsScored reports whether the match is finished with both goal counts known
func (m *Match) IsScored() bool {
	return m.Status == MatchStatusFinished && m.HomeGoals != nil && m.AwayGoals != nil
}

// Result returns the realized outcome; ok is false for unscored matches
func (m *Match) Result() (Outcome, bool) {
	if !m.IsScored() {
		return "", false
	}
	return OutcomeFromScore(*m.HomeGoals, *m.AwayGoals), true
}

// Label returns the "Home vs Away" display label
func (m *Match) Label() string {
	return fmt.Sprintf("%s vs %s", m.HomeTeam, m.AwayTeam)
}

// OutcomeFromScore maps a final score to the 1X2 outcome
func OutcomeFromScore(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHome
	case homeGoals < awayGoals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// NewFinishedMatch builds a scored match record
func NewFinishedMatch(home, away string, homeGoals, awayGoals int, date time.Time) Match {
	return Match{
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &homeGoals,
		AwayGoals: &awayGoals,
		MatchDate: date,
		Status:    MatchStatusFinished,
	}
}
