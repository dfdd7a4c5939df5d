package models

// Probabilities is a home/draw/away probability triple
type Probabilities struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Get returns the probability assigned to an outcome
func (p Probabilities) Get(o Outcome) float64 {
	switch o {
	case OutcomeHome:
		return p.Home
	case OutcomeDraw:
		return p.Draw
	case OutcomeAway:
		return p.Away
	}
	return 0
}

// Sum returns home + draw + away
func (p Probabilities) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// Max returns the highest of the three probabilities
func (p Probabilities) Max() float64 {
	m := p.Home
	if p.Draw > m {
		m = p.Draw
	}
	if p.Away > m {
		m = p.Away
	}
	return m
}

// TopPick returns the most likely outcome. Ties resolve HOME, then DRAW.
func (p Probabilities) TopPick() Outcome {
	if p.Home >= p.Draw && p.Home >= p.Away {
		return OutcomeHome
	}
	if p.Draw >= p.Away {
		return OutcomeDraw
	}
	return OutcomeAway
}

// Uniform returns the 1/3 triple
func Uniform() Probabilities {
	return Probabilities{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}
}

// MarketProbabilities are normalized bookmaker probabilities plus the raw overround
type MarketProbabilities struct {
	Probabilities
	Overround float64 `json:"overround"`
}

// EvaluationRecord pairs a prediction with the realized outcome
type EvaluationRecord struct {
	Prob   Probabilities `json:"prob"`
	Result Outcome       `json:"result"`
}
