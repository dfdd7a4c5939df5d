package market

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/models"
)

// Default selection thresholds
const (
	DefaultMinEdge      = 0.02
	DefaultMinEV        = 0.01
	DefaultMinOdd       = 1.30
	DefaultMaxOdd       = 8.00
	DefaultMaxOverround = 1.10
)

// Config holds opportunity selection thresholds
type Config struct {
	MinEdge      float64 `json:"min_edge"`
	MinEV        float64 `json:"min_ev"`
	MinOdd       float64 `json:"min_odd"`
	MaxOdd       float64 `json:"max_odd"`
	MaxOverround float64 `json:"max_overround"`
}

// DefaultConfig returns the default thresholds
func DefaultConfig() Config {
	return Config{
		MinEdge:      DefaultMinEdge,
		MinEV:        DefaultMinEV,
		MinOdd:       DefaultMinOdd,
		MaxOdd:       DefaultMaxOdd,
		MaxOverround: DefaultMaxOverround,
	}
}

// Override holds per-call thresholds. A nil field keeps the base value and a
// set field applies as given, zero included.
type Override struct {
	MinEdge      *float64
	MinEV        *float64
	MinOdd       *float64
	MaxOdd       *float64
	MaxOverround *float64
}

// IsZero reports whether no threshold is set
func (o Override) IsZero() bool {
	return o == Override{}
}

// OverrideFrom converts a config market section, nil when it sets nothing
func OverrideFrom(mc config.MarketConfig) *Override {
	o := Override{
		MinEdge:      mc.MinEdge,
		MinEV:        mc.MinEV,
		MinOdd:       mc.MinOdd,
		MaxOdd:       mc.MaxOdd,
		MaxOverround: mc.MaxOverround,
	}
	if o.IsZero() {
		return nil
	}
	return &o
}

// Float returns a pointer to v for building overrides
func Float(v float64) *float64 {
	return &v
}

// Apply returns c with every set field of o applied
func (c Config) Apply(o Override) Config {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&c.MinEdge, o.MinEdge)
	set(&c.MinEV, o.MinEV)
	set(&c.MinOdd, o.MinOdd)
	set(&c.MaxOdd, o.MaxOdd)
	set(&c.MaxOverround, o.MaxOverround)
	return c
}

// Validate checks threshold consistency
func (c Config) Validate() error {
	if c.MinEdge < 0 || c.MinEV < 0 {
		return fmt.Errorf("min edge and min EV cannot be negative")
	}
	if c.MinOdd <= 1 {
		return fmt.Errorf("min odd must be greater than 1.0")
	}
	if c.MaxOdd <= c.MinOdd {
		return fmt.Errorf("max odd must be greater than min odd")
	}
	if c.MaxOverround < 1 {
		return fmt.Errorf("max overround must be at least 1.0")
	}
	return nil
}

// FromConfig applies the thresholds set in cfg over the defaults
func FromConfig(cfg *config.MarketConfig) (Config, error) {
	out := DefaultConfig()
	if cfg == nil {
		return out, nil
	}
	if o := OverrideFrom(*cfg); o != nil {
		out = out.Apply(*o)
	}
	return out, out.Validate()
}

// PickRequest carries one fixture's inputs to the engine
type PickRequest struct {
	League     string
	MatchLabel string
	ModelProb  models.Probabilities
	MarketProb models.MarketProbabilities
	BestOdds   models.BestOdds
	// Override replaces the engine thresholds it sets for this call
	Override *Override
}

// Engine selects the best qualifying outcome per fixture
type Engine struct {
	cfg    Config
	logger *logrus.Logger
}

// NewEngine creates an engine. A nil logger defaults to logrus.New().
func NewEngine(cfg Config, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{cfg: cfg, logger: logger}
}

// Config returns the engine thresholds
func (e *Engine) Config() Config {
	return e.cfg
}

type candidate struct {
	side   models.Outcome
	odd    float64
	pModel float64
	pMkt   float64
	edge   float64
	ev     float64
	score  float64
}

// PickOpportunity evaluates HOME, DRAW and AWAY and returns the best-scoring
// outcome that clears the edge and EV minimums, or nil. A nil result is the
// common case and not an error.
func (e *Engine) PickOpportunity(req PickRequest) *models.Opportunity {
	cfg := e.cfg
	if req.Override != nil {
		cfg = cfg.Apply(*req.Override)
	}

	for _, o := range models.Outcomes {
		if !openUnit(req.ModelProb.Get(o)) || !openUnit(req.MarketProb.Get(o)) {
			return nil
		}
	}

	if isFinite(req.MarketProb.Overround) && req.MarketProb.Overround > cfg.MaxOverround {
		e.logger.WithFields(logrus.Fields{
			"match":     req.MatchLabel,
			"overround": req.MarketProb.Overround,
		}).Debug("Market rejected: overround above ceiling")
		return nil
	}

	var best *candidate
	for _, side := range models.Outcomes {
		odd := req.BestOdds.Get(side)
		if !cfg.ValidateOdds(odd) {
			continue
		}
		c := candidate{side: side, odd: odd, pModel: req.ModelProb.Get(side), pMkt: req.MarketProb.Get(side)}
		c.edge = CalculateEdge(c.pModel, c.pMkt)
		c.ev = CalculateEV(c.pModel, c.odd)
		c.score = ScoreOpportunity(c.edge, c.ev, c.odd, c.pModel)
		if best == nil || c.score > best.score {
			picked := c
			best = &picked
		}
	}

	if best == nil || best.edge < cfg.MinEdge || best.ev < cfg.MinEV {
		return nil
	}

	return &models.Opportunity{
		League:     req.League,
		Match:      req.MatchLabel,
		Pick:       best.side,
		Odd:        round(best.odd, 3),
		Edge:       round(best.edge, 4),
		EV:         round(best.ev, 4),
		Score:      round(best.score, 4),
		Confidence: ConfidenceLevel(best.ev, best.edge),
		ModelProb:  roundProbs(req.ModelProb),
		MarketProb: models.MarketProbabilities{
			Probabilities: roundProbs(req.MarketProb.Probabilities),
			Overround:     round(req.MarketProb.Overround, 4),
		},
		Details: models.OpportunityDetails{
			PModel:  round(best.pModel, 4),
			PMarket: round(best.pMkt, 4),
		},
	}
}

// PickOpportunity runs the default-threshold engine
func PickOpportunity(req PickRequest) *models.Opportunity {
	return defaultEngine.PickOpportunity(req)
}

var defaultEngine = NewEngine(DefaultConfig(), quietLogger())

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	return l
}

func openUnit(p float64) bool {
	return isFinite(p) && p > 0 && p < 1
}

func roundProbs(p models.Probabilities) models.Probabilities {
	return models.Probabilities{Home: round(p.Home, 4), Draw: round(p.Draw, 4), Away: round(p.Away, 4)}
}
