package backtest

import (
	"time"

	"github.com/yourusername/egg-stats/internal/models"
)

// Betting modes of a run
const (
	ModeOdds    = "odds"
	ModeTopPick = "top_pick"
)

// BetRecord is one simulated wager
type BetRecord struct {
	Index     int            `json:"index"`
	Date      time.Time      `json:"date"`
	Match     string         `json:"match"`
	Pick      models.Outcome `json:"pick"`
	Odd       float64        `json:"odd"`
	ModelProb float64        `json:"model_prob"`
	Stake     float64        `json:"stake"`
	PnL       float64        `json:"pnl"`
	Won       bool           `json:"won"`
	Mode      string         `json:"mode"`
}

// ModeSummary is the ledger of the bets placed in one betting mode
type ModeSummary struct {
	Bets     int     `json:"bets"`
	Wins     int     `json:"wins"`
	Staked   float64 `json:"staked"`
	NetUnits float64 `json:"net_units"`
	HitRate  float64 `json:"hit_rate"`
	ROI      float64 `json:"roi"`
}

func (m *ModeSummary) add(bet BetRecord) {
	m.Bets++
	if bet.Won {
		m.Wins++
	}
	m.Staked += bet.Stake
	m.NetUnits += bet.PnL
}

// Merge pools another summary into m and recomputes the rates
func (m *ModeSummary) Merge(o ModeSummary) {
	m.Bets += o.Bets
	m.Wins += o.Wins
	m.Staked += o.Staked
	m.NetUnits += o.NetUnits
	m.finalize()
}

func (m *ModeSummary) finalize() {
	m.HitRate, m.ROI = 0, 0
	if m.Bets > 0 {
		m.HitRate = round(float64(m.Wins)/float64(m.Bets), 4)
	}
	if m.Staked > 0 {
		m.ROI = round(m.NetUnits/m.Staked, 4)
	}
}

// BacktestState tracks the running ledger of a walk-forward pass. Only bets
// of the headline Mode enter the ledger and equity curve; every bet is
// counted in its own mode summary.
type BacktestState struct {
	Mode         string
	NetUnits     float64
	PeakUnits    float64
	Bets         []BetRecord
	OddsBets     int
	FallbackBets int
	Wins         int
	Staked       float64
	EquityCurve  EquityCurve
	Odds         ModeSummary
	TopPick      ModeSummary
}

// NewBacktestState initializes an empty ledger for the headline mode
func NewBacktestState(mode string) *BacktestState {
	return &BacktestState{
		Mode:        mode,
		Bets:        []BetRecord{},
		EquityCurve: EquityCurve{},
	}
}

// UpdateState settles a bet into its mode summary and, when it belongs to the
// headline mode, into the ledger and equity curve
func (s *BacktestState) UpdateState(bet BetRecord) {
	switch bet.Mode {
	case ModeOdds:
		s.OddsBets++
		s.Odds.add(bet)
	default:
		s.FallbackBets++
		s.TopPick.add(bet)
	}
	if bet.Mode != s.Mode {
		return
	}

	s.NetUnits += bet.PnL
	s.Staked += bet.Stake
	if s.NetUnits > s.PeakUnits {
		s.PeakUnits = s.NetUnits
	}
	if bet.Won {
		s.Wins++
	}
	s.Bets = append(s.Bets, bet)
	s.RecordEquityPoint(bet)
}

// GetCurrentDrawdown returns the distance in units below the running peak
func (s *BacktestState) GetCurrentDrawdown() float64 {
	if s.NetUnits >= s.PeakUnits {
		return 0
	}
	return s.PeakUnits - s.NetUnits
}

// RecordEquityPoint adds an equity point for a settled bet
func (s *BacktestState) RecordEquityPoint(bet BetRecord) {
	s.EquityCurve = append(s.EquityCurve, EquityPoint{
		Bet:      len(s.Bets),
		Date:     bet.Date,
		Units:    s.NetUnits,
		Drawdown: s.GetCurrentDrawdown(),
		PnL:      bet.PnL,
	})
}
