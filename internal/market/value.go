package market

import (
	"math"

	"github.com/yourusername/egg-stats/internal/models"
)

// Score weights and penalties
const (
	edgeWeight         = 0.70
	evWeight           = 0.30
	longShotPivot      = 3.0
	longShotSlope      = 0.03
	maxLongShotPenalty = 0.12
	lowProbThreshold   = 0.12
	lowProbPenalty     = 0.06
)

// CalculateEV returns pModel*odd - 1, or -Inf for non-finite input
func CalculateEV(probModel, odd float64) float64 {
	if !isFinite(probModel) || !isFinite(odd) {
		return math.Inf(-1)
	}
	return probModel*odd - 1
}

// CalculateEdge returns pModel - pMarket, or -Inf for non-finite input
func CalculateEdge(probModel, probMarket float64) float64 {
	if !isFinite(probModel) || !isFinite(probMarket) {
		return math.Inf(-1)
	}
	return probModel - probMarket
}

// ScoreOpportunity ranks candidates. It is an ordering key, not a probability.
func ScoreOpportunity(edge, ev, odd, pModel float64) float64 {
	oddsPenalty := math.Min(maxLongShotPenalty, math.Max(0, (odd-longShotPivot)*longShotSlope))
	probPenalty := 0.0
	if pModel < lowProbThreshold {
		probPenalty = lowProbPenalty
	}
	return edgeWeight*edge + evWeight*ev - oddsPenalty - probPenalty
}

// ConfidenceLevel labels an opportunity from its EV and edge
func ConfidenceLevel(ev, edge float64) models.Confidence {
	switch {
	case ev >= 0.08 && edge >= 0.06:
		return models.ConfidenceHigh
	case ev >= 0.04 && edge >= 0.03:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// ValidateOdds reports whether an odd lies inside the configured band
func (c Config) ValidateOdds(odd float64) bool {
	return isFinite(odd) && odd >= c.MinOdd && odd <= c.MaxOdd
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
