// Package poisson converts expected-goal rates into 1X2 probabilities using an
// independent Poisson score grid with the Dixon-Coles low-score correction.
package poisson

import (
	"math"

	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
)

// MaxGoals bounds the score grid per side
const MaxGoals = 8

// Fallback rates for non-finite inputs, and the positive floor for any rate
const (
	DefaultLambdaHome = 1.3
	DefaultLambdaAway = 1.0
	MinLambda         = 0.01
)

var factorials = func() [MaxGoals + 1]float64 {
	var f [MaxGoals + 1]float64
	f[0] = 1
	for k := 1; k <= MaxGoals; k++ {
		f[k] = f[k-1] * float64(k)
	}
	return f
}()

// PMF returns P(X = k) for X ~ Poisson(lambda), for 0 <= k <= MaxGoals
func PMF(lambda float64, k int) float64 {
	if k < 0 || k > MaxGoals {
		return 0
	}
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorials[k]
}

func guardLambda(lambda, fallback float64) float64 {
	if math.IsNaN(lambda) || math.IsInf(lambda, 0) {
		lambda = fallback
	}
	return math.Max(MinLambda, lambda)
}

// dixonColes returns the low-score correction factor for cell (i, j)
func dixonColes(i, j int, lambdaHome, lambdaAway, rho float64) float64 {
	switch {
	case i == 0 && j == 0:
		return 1 - rho*lambdaHome*lambdaAway
	case i == 1 && j == 0:
		return 1 + rho*lambdaAway
	case i == 0 && j == 1:
		return 1 + rho*lambdaHome
	case i == 1 && j == 1:
		return 1 - rho
	}
	return 1
}

// ScoreMatrix returns the (MaxGoals+1)^2 grid of score probabilities, indexed
// [homeGoals][awayGoals], with the Dixon-Coles factors applied. Cells are not
// renormalized.
func ScoreMatrix(lambdaHome, lambdaAway, rho float64) [][]float64 {
	lambdaHome = guardLambda(lambdaHome, DefaultLambdaHome)
	lambdaAway = guardLambda(lambdaAway, DefaultLambdaAway)

	var pH, pA [MaxGoals + 1]float64
	for k := 0; k <= MaxGoals; k++ {
		pH[k] = PMF(lambdaHome, k)
		pA[k] = PMF(lambdaAway, k)
	}

	grid := make([][]float64, MaxGoals+1)
	for i := 0; i <= MaxGoals; i++ {
		grid[i] = make([]float64, MaxGoals+1)
		for j := 0; j <= MaxGoals; j++ {
			p := pH[i] * pA[j]
			if rho != 0 {
				p *= dixonColes(i, j, lambdaHome, lambdaAway, rho)
			}
			grid[i][j] = p
		}
	}
	return grid
}

// MatchProbabilities aggregates the score grid into home/draw/away and
// renormalizes. A zero total yields the uniform triple.
func MatchProbabilities(lambdaHome, lambdaAway, rho float64) models.Probabilities {
	var home, draw, away float64
	for i, row := range ScoreMatrix(lambdaHome, lambdaAway, rho) {
		for j, p := range row {
			switch {
			case i > j:
				home += p
			case i < j:
				away += p
			default:
				draw += p
			}
		}
	}

	total := home + draw + away
	if total == 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return models.Uniform()
	}
	return models.Probabilities{Home: home / total, Draw: draw / total, Away: away / total}
}

// MostLikelyScore returns the highest-probability cell of the grid
func MostLikelyScore(lambdaHome, lambdaAway, rho float64) (homeGoals, awayGoals int, p float64) {
	for i, row := range ScoreMatrix(lambdaHome, lambdaAway, rho) {
		for j, cell := range row {
			if cell > p {
				homeGoals, awayGoals, p = i, j, cell
			}
		}
	}
	return homeGoals, awayGoals, p
}

// FromModel prices a fixture from a trained model using the model's rho.
// ok is false when either team is unknown to the model.
func FromModel(model *rating.Model, home, away string) (models.Probabilities, bool) {
	lambdaHome, lambdaAway, ok := model.Lambdas(home, away)
	if !ok {
		return models.Probabilities{}, false
	}
	return MatchProbabilities(lambdaHome, lambdaAway, model.Rho()), true
}
