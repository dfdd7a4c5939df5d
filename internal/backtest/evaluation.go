package backtest

import (
	"math"

	"github.com/yourusername/egg-stats/internal/models"
)

// LogLossEpsilon floors predicted probabilities before taking the log
const LogLossEpsilon = 1e-15

// Evaluation holds proper-scoring metrics over a set of predictions
type Evaluation struct {
	N          int     `json:"n"`
	BrierScore float64 `json:"brier_score"`
	LogLoss    float64 `json:"log_loss"`
	Accuracy   float64 `json:"accuracy"`
}

// EvaluatePredictions computes Brier score, log-loss and accuracy
func EvaluatePredictions(records []models.EvaluationRecord) (Evaluation, error) {
	if len(records) == 0 {
		return Evaluation{}, models.ErrNoPredictions
	}
	return Evaluation{
		N:          len(records),
		BrierScore: BrierScore(records),
		LogLoss:    LogLoss(records),
		Accuracy:   Accuracy(records),
	}, nil
}

// BrierScore is the mean over records of the squared error between the
// probability vector and the one-hot realized outcome, summed over classes.
// Returns NaN for empty input.
func BrierScore(records []models.EvaluationRecord) float64 {
	if len(records) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, r := range records {
		total += brier(r)
	}
	return total / float64(len(records))
}

// LogLoss is the mean negative log of the probability assigned to the
// realized outcome. Returns NaN for empty input.
func LogLoss(records []models.EvaluationRecord) float64 {
	if len(records) == 0 {
		return math.NaN()
	}
	total := 0.0
	for _, r := range records {
		total += logLoss(r)
	}
	return total / float64(len(records))
}

// Accuracy is the share of records whose most likely outcome was realized.
// Ties resolve HOME, then DRAW. Returns NaN for empty input.
func Accuracy(records []models.EvaluationRecord) float64 {
	if len(records) == 0 {
		return math.NaN()
	}
	correct := 0
	for _, r := range records {
		if r.Prob.TopPick() == r.Result {
			correct++
		}
	}
	return float64(correct) / float64(len(records))
}

func brier(r models.EvaluationRecord) float64 {
	total := 0.0
	for _, o := range models.Outcomes {
		d := r.Prob.Get(o) - indicator(o == r.Result)
		total += d * d
	}
	return total
}

func logLoss(r models.EvaluationRecord) float64 {
	return -math.Log(math.Max(r.Prob.Get(r.Result), LogLossEpsilon))
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
