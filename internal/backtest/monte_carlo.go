package backtest

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"
)

// SimulatedBet is a wager whose outcome is redrawn from the model probability
type SimulatedBet struct {
	Odd   float64 `json:"odd"`
	Stake float64 `json:"stake"`
	Prob  float64 `json:"prob"`
}

// MonteCarloConfig configures monte carlo simulation
type MonteCarloConfig struct {
	Iterations int
	Seed       int64

	// Bankroll is the starting balance used for the ruin probability. Zero skips it.
	Bankroll float64
}

// MonteCarloResult summarizes the simulated distribution of net units
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	MeanNet             float64            `json:"mean_net"`
	StdNet              float64            `json:"std_net"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
	Distribution        []float64          `json:"-"`
}

// SimulatedBets converts a run's bet history for resampling
func SimulatedBets(bets []BetRecord) []SimulatedBet {
	out := make([]SimulatedBet, 0, len(bets))
	for _, b := range bets {
		out = append(out, SimulatedBet{Odd: b.Odd, Stake: b.Stake, Prob: b.ModelProb})
	}
	return out
}

// RunMonteCarlo resamples every bet's outcome from its model probability
// and reports the distribution of total net units
func RunMonteCarlo(bets []SimulatedBet, cfg MonteCarloConfig) MonteCarloResult {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultMonteCarloRuns
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)
	ruined := 0

	for i := 0; i < cfg.Iterations; i++ {
		net := 0.0
		low := 0.0
		for _, bet := range bets {
			if rng.Float64() < bet.Prob {
				net += (bet.Odd - 1) * bet.Stake
			} else {
				net -= bet.Stake
			}
			low = math.Min(low, net)
		}
		if cfg.Bankroll > 0 && cfg.Bankroll+low <= 0 {
			ruined++
		}
		distribution[i] = net
	}

	mean, std := meanStd(distribution)
	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		MeanNet:             mean,
		StdNet:              std,
		VaR95:               percentile(distribution, 0.05),
		VaR99:               percentile(distribution, 0.01),
		ProbabilityOfProfit: probabilityAbove(distribution, 0),
		ConfidenceIntervals: CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99}),
		Distribution:        distribution,
	}
	if cfg.Bankroll > 0 {
		result.ProbabilityOfRuin = float64(ruined) / float64(cfg.Iterations)
	}
	return result
}

// CalculateConfidenceIntervals returns the width of the central interval per level
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := percentile(distribution, p)
		high := percentile(distribution, 1.0-p)
		results[formatPercent(level)] = high - low
	}
	return results
}

func meanStd(values []float64) (float64, float64) {
	return average(values), stddev(values)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
