package models

// Confidence is a qualitative label attached to an opportunity
type Confidence string

const (
	ConfidenceLow    Confidence = "LOW"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceHigh   Confidence = "HIGH"
)

// OpportunityDetails carries the unrounded-side probabilities of the pick
type OpportunityDetails struct {
	PModel  float64 `json:"p_model"`
	PMarket float64 `json:"p_mkt"`
}

// Opportunity is a qualifying positive-EV selection for one fixture
type Opportunity struct {
	League     string              `json:"league"`
	Match      string              `json:"match"`
	Pick       Outcome             `json:"pick"`
	Odd        float64             `json:"odd"`
	Edge       float64             `json:"edge"`
	EV         float64             `json:"ev"`
	Score      float64             `json:"score"`
	Confidence Confidence          `json:"confidence"`
	ModelProb  Probabilities       `json:"model_prob"`
	MarketProb MarketProbabilities `json:"market_prob"`
	Details    OpportunityDetails  `json:"details"`
}
