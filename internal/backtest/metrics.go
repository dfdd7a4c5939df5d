package backtest

import (
	"math"
	"sort"
)

// profitFactorCap stands in for an infinite profit factor when nothing was lost
const profitFactorCap = 999

// BetStats summarizes the distribution of simulated bet results
type BetStats struct {
	WinningBets   int     `json:"winning_bets"`
	LosingBets    int     `json:"losing_bets"`
	AverageWin    float64 `json:"average_win"`
	AverageLoss   float64 `json:"average_loss"`
	LargestWin    float64 `json:"largest_win"`
	LargestLoss   float64 `json:"largest_loss"`
	ProfitFactor  float64 `json:"profit_factor"`
	Expectancy    float64 `json:"expectancy"`
	SharpePerBet  float64 `json:"sharpe_per_bet"`
	ValueAtRisk95 float64 `json:"var_95"`
	AverageOdd    float64 `json:"average_odd"`
}

// CalculateBetStats derives summary statistics from settled bets
func CalculateBetStats(bets []BetRecord) BetStats {
	stats := BetStats{}
	if len(bets) == 0 {
		return stats
	}

	pnl := make([]float64, 0, len(bets))
	winSum, lossSum, oddSum := 0.0, 0.0, 0.0
	for _, bet := range bets {
		pnl = append(pnl, bet.PnL)
		oddSum += bet.Odd
		switch {
		case bet.PnL > 0:
			stats.WinningBets++
			winSum += bet.PnL
			stats.LargestWin = math.Max(stats.LargestWin, bet.PnL)
		case bet.PnL < 0:
			stats.LosingBets++
			lossSum += bet.PnL
			stats.LargestLoss = math.Min(stats.LargestLoss, bet.PnL)
		}
	}

	if stats.WinningBets > 0 {
		stats.AverageWin = winSum / float64(stats.WinningBets)
	}
	if stats.LosingBets > 0 {
		stats.AverageLoss = lossSum / float64(stats.LosingBets)
	}
	stats.ProfitFactor = calculateProfitFactor(winSum, math.Abs(lossSum))
	stats.Expectancy = average(pnl)
	stats.SharpePerBet = calculateSharpeRatio(pnl)
	stats.ValueAtRisk95 = calculateVaR(pnl, 0.95)
	stats.AverageOdd = oddSum / float64(len(bets))
	return stats
}

func calculateSharpeRatio(returns []float64) float64 {
	std := stddev(returns)
	if std == 0 {
		return 0
	}
	return average(returns) / std
}

func calculateProfitFactor(grossProfit, grossLoss float64) float64 {
	if grossLoss == 0 {
		if grossProfit > 0 {
			return profitFactorCap
		}
		return 0
	}
	return grossProfit / grossLoss
}

func calculateVaR(returns []float64, level float64) float64 {
	if len(returns) == 0 {
		return 0
	}
	sorted := append([]float64{}, returns...)
	sort.Float64s(sorted)
	index := int(math.Floor((1.0 - level) * float64(len(sorted))))
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
