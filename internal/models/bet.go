package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BetResult is the settled result of a logged bet
type BetResult string

const (
	BetResultWin  BetResult = "WIN"
	BetResultLoss BetResult = "LOSS"
)

// BetLog represents a recorded pick in the bet ledger
type BetLog struct {
	ID              uuid.UUID        `db:"id" json:"id"`
	ExternalMatchID string           `db:"external_match_id" json:"external_match_id" validate:"required"`
	LeagueCode      string           `db:"league_code" json:"league_code" validate:"required"`
	MatchLabel      string           `db:"match_label" json:"match_label"`
	Pick            Outcome          `db:"pick" json:"pick" validate:"required,oneof=HOME DRAW AWAY"`
	OddTaken        decimal.Decimal  `db:"odd_taken" json:"odd_taken"`
	ModelProb       float64          `db:"model_prob" json:"model_prob"`
	MarketProb      float64          `db:"market_prob" json:"market_prob"`
	Edge            float64          `db:"edge" json:"edge"`
	EV              float64          `db:"ev" json:"ev"`
	Confidence      Confidence       `db:"confidence" json:"confidence"`
	Stake           decimal.Decimal  `db:"stake" json:"stake"`
	Result          *BetResult       `db:"result" json:"result"`
	Profit          *decimal.Decimal `db:"profit" json:"profit"`
	CreatedAt       time.Time        `db:"created_at" json:"created_at"`
}

// NewBetLog builds a ledger entry from an opportunity
func NewBetLog(externalMatchID string, opp *Opportunity, stake decimal.Decimal) *BetLog {
	return &BetLog{
		ID:              uuid.New(),
		ExternalMatchID: externalMatchID,
		LeagueCode:      opp.League,
		MatchLabel:      opp.Match,
		Pick:            opp.Pick,
		OddTaken:        decimal.NewFromFloat(opp.Odd),
		ModelProb:       opp.Details.PModel,
		MarketProb:      opp.Details.PMarket,
		Edge:            opp.Edge,
		EV:              opp.EV,
		Confidence:      opp.Confidence,
		Stake:           stake,
	}
}

// IsSettled checks if the bet has been settled
func (b *BetLog) IsSettled() bool {
	return b.Result != nil
}

// Settle computes result and profit for the realized outcome
func (b *BetLog) Settle(actual Outcome) (BetResult, decimal.Decimal) {
	if actual == b.Pick {
		return BetResultWin, b.OddTaken.Sub(decimal.NewFromInt(1)).Mul(b.Stake)
	}
	return BetResultLoss, b.Stake.Neg()
}
