package backtest

import (
	"math"

	"github.com/yourusername/egg-stats/internal/models"
)

// calibrationBands are the top-probability bands, in percent
var calibrationBands = []string{"0-20", "20-40", "40-60", "60-80", "80-100"}

// CalibrationBucket accumulates predictions whose top probability fell in one band
type CalibrationBucket struct {
	Range        string  `json:"range"`
	PredictedSum float64 `json:"predicted"`
	ActualHits   int     `json:"actual"`
	Count        int     `json:"count"`
}

// PredictedRate is the mean top probability in the bucket
func (b CalibrationBucket) PredictedRate() float64 {
	if b.Count == 0 {
		return 0
	}
	return b.PredictedSum / float64(b.Count)
}

// ActualRate is the share of top picks in the bucket that were realized
func (b CalibrationBucket) ActualRate() float64 {
	if b.Count == 0 {
		return 0
	}
	return float64(b.ActualHits) / float64(b.Count)
}

// Gap is ActualRate minus PredictedRate. Negative means over-confident.
func (b CalibrationBucket) Gap() float64 {
	return b.ActualRate() - b.PredictedRate()
}

// Calibration is the fixed set of five buckets, lowest band first
type Calibration []CalibrationBucket

// NewCalibration returns empty buckets for every band
func NewCalibration() Calibration {
	c := make(Calibration, len(calibrationBands))
	for i, band := range calibrationBands {
		c[i].Range = band
	}
	return c
}

// Add files a prediction under the band of its top probability
func (c Calibration) Add(prob models.Probabilities, actual models.Outcome) {
	top := prob.Max()
	idx := int(math.Floor(top * float64(len(c))))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c) {
		idx = len(c) - 1
	}
	c[idx].PredictedSum += top
	c[idx].Count++
	if prob.TopPick() == actual {
		c[idx].ActualHits++
	}
}

// Total returns the number of predictions across all buckets
func (c Calibration) Total() int {
	n := 0
	for _, b := range c {
		n += b.Count
	}
	return n
}
