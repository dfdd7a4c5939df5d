// Package market turns bookmaker prices into normalized probabilities and
// selects value opportunities against model probabilities.
package market

import (
	"math"

	"github.com/yourusername/egg-stats/internal/models"
)

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ExtractBest1x2 scans every bookmaker's h2h market and keeps the highest
// price per outcome. ok is false unless all three outcomes are priced.
func ExtractBest1x2(event models.OddsEvent) (models.BestOdds, bool) {
	var best models.BestOdds
	if len(event.Bookmakers) == 0 {
		return best, false
	}

	for _, bm := range event.Bookmakers {
		for _, mkt := range bm.Markets {
			if mkt.Key != models.MarketKeyH2H {
				continue
			}
			for _, o := range mkt.Outcomes {
				if !isFinite(o.Price) || o.Price <= 1 {
					continue
				}
				switch o.Name {
				case event.HomeTeam:
					best.Home = math.Max(best.Home, o.Price)
				case event.AwayTeam:
					best.Away = math.Max(best.Away, o.Price)
				case models.DrawOutcomeName:
					best.Draw = math.Max(best.Draw, o.Price)
				}
			}
		}
	}

	if !best.IsValid() {
		return models.BestOdds{}, false
	}
	return best, true
}

// ImpliedProbability returns 1/odd, or 0 for non-finite or non-positive odds
func ImpliedProbability(odd float64) float64 {
	if !isFinite(odd) || odd <= 0 {
		return 0
	}
	return 1 / odd
}

// NormalizeProbs removes the bookmaker margin. Overround is the raw sum.
func NormalizeProbs(pHome, pDraw, pAway float64) models.MarketProbabilities {
	total := pHome + pDraw + pAway
	if total == 0 {
		return models.MarketProbabilities{Probabilities: models.Uniform(), Overround: 1}
	}
	return models.MarketProbabilities{
		Probabilities: models.Probabilities{
			Home: pHome / total,
			Draw: pDraw / total,
			Away: pAway / total,
		},
		Overround: total,
	}
}

// MarketFromOdds normalizes the implied probabilities of a quote
func MarketFromOdds(best models.BestOdds) models.MarketProbabilities {
	return NormalizeProbs(
		ImpliedProbability(best.Home),
		ImpliedProbability(best.Draw),
		ImpliedProbability(best.Away),
	)
}

// Overround returns the sum of implied probabilities of a quote
func Overround(best models.BestOdds) float64 {
	return ImpliedProbability(best.Home) + ImpliedProbability(best.Draw) + ImpliedProbability(best.Away)
}
