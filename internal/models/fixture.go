package models

import (
	"strconv"
	"time"
)

// Fixture is one match as returned by the results feed
type Fixture struct {
	ID          int64              `json:"id"`
	UTCDate     time.Time          `json:"utcDate"`
	Status      string             `json:"status"`
	Competition FixtureCompetition `json:"competition"`
	Season      FixtureSeason      `json:"season"`
	HomeTeam    FixtureTeam        `json:"homeTeam"`
	AwayTeam    FixtureTeam        `json:"awayTeam"`
	Score       FixtureScore       `json:"score"`
}

// FixtureCompetition identifies the competition a fixture belongs to
type FixtureCompetition struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// FixtureSeason carries the season boundaries
type FixtureSeason struct {
	StartDate string `json:"startDate"`
}

// FixtureTeam is a team reference inside a fixture
type FixtureTeam struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// FixtureScore holds the score breakdown
type FixtureScore struct {
	FullTime FixtureGoals `json:"fullTime"`
}

// FixtureGoals is a home/away goal pair; nil while unplayed
type FixtureGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// ExternalID returns the feed id as the string key used in storage
func (f *Fixture) ExternalID() string {
	return strconv.FormatInt(f.ID, 10)
}

// HasFullTimeScore reports whether both full-time goal counts are present
func (f *Fixture) HasFullTimeScore() bool {
	return f.Score.FullTime.Home != nil && f.Score.FullTime.Away != nil
}

// SeasonYear returns the first four characters of the season start date,
// falling back to the kickoff year.
func (f *Fixture) SeasonYear() string {
	if len(f.Season.StartDate) >= 4 {
		return f.Season.StartDate[:4]
	}
	return strconv.Itoa(f.UTCDate.Year())
}

// ToMatch converts the fixture into a match record. A fixture with a full-time
// score is FINISHED regardless of the feed status.
func (f *Fixture) ToMatch() Match {
	m := Match{
		ExternalID: f.ExternalID(),
		League:     f.Competition.Code,
		LeagueID:   f.Competition.ID,
		Season:     f.SeasonYear(),
		HomeTeam:   f.HomeTeam.Name,
		AwayTeam:   f.AwayTeam.Name,
		MatchDate:  f.UTCDate,
		Status:     MatchStatusScheduled,
	}
	if f.HasFullTimeScore() {
		hg, ag := *f.Score.FullTime.Home, *f.Score.FullTime.Away
		m.HomeGoals = &hg
		m.AwayGoals = &ag
		m.Status = MatchStatusFinished
	}
	return m
}
