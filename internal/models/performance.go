package models

import "github.com/shopspring/decimal"

// PerformanceSummary aggregates all settled bets
type PerformanceSummary struct {
	TotalBets   int             `json:"total_bets"`
	Wins        int             `json:"wins"`
	HitRate     float64         `json:"hit_rate"`
	TotalStaked decimal.Decimal `json:"total_staked"`
	NetUnits    decimal.Decimal `json:"net_units"`
	ROI         float64         `json:"roi"`
}

// PerformanceBreakdown aggregates settled bets for one group (league or confidence)
type PerformanceBreakdown struct {
	Group    string          `json:"group"`
	Bets     int             `json:"bets"`
	Wins     int             `json:"wins"`
	HitRate  float64         `json:"hit_rate"`
	NetUnits decimal.Decimal `json:"net_units"`
}

// Performance is the full ledger performance report
type Performance struct {
	Summary      PerformanceSummary     `json:"summary"`
	ByLeague     []PerformanceBreakdown `json:"by_league"`
	ByConfidence []PerformanceBreakdown `json:"by_confidence"`
}

// HitRate returns wins/bets, zero when there are no bets
func HitRate(wins, bets int) float64 {
	if bets == 0 {
		return 0
	}
	return float64(wins) / float64(bets)
}

// ComputeROI returns net/staked, zero when nothing was staked
func ComputeROI(net, staked decimal.Decimal) float64 {
	if staked.IsZero() {
		return 0
	}
	return net.Div(staked).InexactFloat64()
}
