package models

import (
	"time"
)

// MarketKeyH2H is the three-way head-to-head market key used by the odds feed
const MarketKeyH2H = "h2h"

// DrawOutcomeName is the outcome name the odds feed uses for a draw
const DrawOutcomeName = "Draw"

// CompositeBookmaker labels snapshots built from the best price across bookmakers
const CompositeBookmaker = "composite"

// OddsEvent is one fixture as returned by the odds feed
type OddsEvent struct {
	ID           string      `json:"id"`
	SportKey     string      `json:"sport_key"`
	CommenceTime *time.Time  `json:"commence_time,omitempty"`
	HomeTeam     string      `json:"home_team"`
	AwayTeam     string      `json:"away_team"`
	Bookmakers   []Bookmaker `json:"bookmakers"`
}

// Bookmaker holds one bookmaker's markets for an event
type Bookmaker struct {
	Key     string         `json:"key"`
	Title   string         `json:"title,omitempty"`
	Markets []MarketQuotes `json:"markets"`
}

// MarketQuotes holds the priced outcomes for one market type
type MarketQuotes struct {
	Key      string         `json:"key"`
	Outcomes []OutcomePrice `json:"outcomes"`
}

// OutcomePrice is a named decimal price
type OutcomePrice struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// BestOdds holds the best decimal price per 1X2 outcome across bookmakers
type BestOdds struct {
	Home float64 `json:"best_home"`
	Draw float64 `json:"best_draw"`
	Away float64 `json:"best_away"`
}

// Get returns the price for an outcome
func (b BestOdds) Get(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return b.Home
	case OutcomeDraw:
		return b.Draw
	case OutcomeAway:
		return b.Away
	}
	return 0
}

// IsValid reports whether all three prices are present and above 1.0
func (b BestOdds) IsValid() bool {
	return b.Home > 1 && b.Draw > 1 && b.Away > 1
}

// OddsSnapshot is a stored best-price capture for a fixture
type OddsSnapshot struct {
	ExternalMatchID string    `db:"external_match_id" json:"external_match_id"`
	LeagueID        int       `db:"league_id" json:"league_id"`
	OddHome         float64   `db:"odd_home" json:"odd_home"`
	OddDraw         float64   `db:"odd_draw" json:"odd_draw"`
	OddAway         float64   `db:"odd_away" json:"odd_away"`
	MarketOverround float64   `db:"market_overround" json:"market_overround"`
	CapturedAt      time.Time `db:"captured_at" json:"captured_at"`
	Market          string    `db:"market" json:"market"`
	Bookmaker       string    `db:"bookmaker" json:"bookmaker"`
}

// BestOdds returns the snapshot prices as a quote
func (o *OddsSnapshot) BestOdds() BestOdds {
	return BestOdds{Home: o.OddHome, Draw: o.OddDraw, Away: o.OddAway}
}

// GetImpliedProbability returns the raw implied probability for an outcome
func (o *OddsSnapshot) GetImpliedProbability(outcome Outcome) float64 {
	price := o.BestOdds().Get(outcome)
	if price <= 0 {
		return 0
	}
	return 1.0 / price
}
