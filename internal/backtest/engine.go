package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/poisson"
)

// Result is the outcome of one walk-forward pass. Bets, Wins, HitRate,
// NetUnits, ROI, the equity curve, Stats and BetHistory cover only the bets of
// Mode; Odds and TopPick report each mode on its own.
type Result struct {
	League        string      `json:"league,omitempty"`
	Mode          string      `json:"mode"`
	HasOddsData   bool        `json:"has_odds_data"`
	GamesTested   int         `json:"games_tested"`
	Skipped       int         `json:"skipped"`
	Bets          int         `json:"bets"`
	OddsBets      int         `json:"odds_bets"`
	FallbackBets  int         `json:"fallback_bets"`
	Wins          int         `json:"wins"`
	HitRate       float64     `json:"hit_rate"`
	NetUnits      float64     `json:"net_units"`
	ROI           float64     `json:"roi"`
	Odds          ModeSummary `json:"odds"`
	TopPick       ModeSummary `json:"top_pick"`
	AvgLogLoss    float64     `json:"avg_log_loss"`
	AvgBrierScore float64     `json:"avg_brier_score"`
	AccuracyPct   float64     `json:"accuracy_pct"`
	Evaluation    Evaluation  `json:"evaluation"`
	Calibration   Calibration `json:"calibration"`
	EquityCurve   EquityCurve `json:"equity_curve"`
	MaxDrawdown   float64     `json:"max_drawdown"`
	Stats         BetStats    `json:"stats"`
	BetHistory    []BetRecord `json:"-"`
	Duration      float64     `json:"duration_seconds"`
}

// Engine replays a chronologically sorted match history one fixture at a time
type Engine struct {
	config  BacktestConfig
	trainer ModelTrainer
	market  *market.Engine
}

// NewEngine validates the config and builds an engine
func NewEngine(cfg BacktestConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backtest config: %w", err)
	}
	return &Engine{
		config:  cfg,
		trainer: cfg.trainer(),
		market:  market.NewEngine(cfg.Market, nil),
	}, nil
}

// prediction is the model's view of one held-out match
type prediction struct {
	match  models.Match
	prob   models.Probabilities
	actual models.Outcome
}

// walk trains on matches[:i] for every target i and hands each priced
// target to visit. Unknown teams and unscored targets are counted as skipped.
func (e *Engine) walk(ctx context.Context, matches []models.Match, visit func(p prediction)) (skipped int, err error) {
	if len(matches) <= e.config.MinTrainSize {
		return 0, fmt.Errorf("%w: %d matches, need more than %d",
			models.ErrInsufficientData, len(matches), e.config.MinTrainSize)
	}

	for i := e.config.MinTrainSize; i < len(matches); i++ {
		if err := ctx.Err(); err != nil {
			return skipped, err
		}
		target := matches[i]
		actual, scored := target.Result()
		if !scored {
			skipped++
			continue
		}

		// the full-slice expression keeps a trainer from appending into the future
		train := matches[:i:i]
		model := e.trainer.Train(train)
		prob, ok := poisson.FromModel(model, target.HomeTeam, target.AwayTeam)
		if !ok {
			skipped++
			continue
		}
		if e.config.BaselineShrink {
			prob = shrinkToBaseline(prob, leagueBaseline(train), e.config.ShrinkAlpha)
		}
		visit(prediction{match: target, prob: prob, actual: actual})
	}
	return skipped, nil
}

// Run performs the walk-forward evaluation and betting simulation
func (e *Engine) Run(ctx context.Context, matches []models.Match, odds OddsLookup) (*Result, error) {
	start := time.Now()
	hasOdds := odds != nil && odds.Len() > 0
	mode := ModeTopPick
	if hasOdds {
		mode = ModeOdds
	}

	state := NewBacktestState(mode)
	records := []models.EvaluationRecord{}
	calibration := NewCalibration()

	skipped, err := e.walk(ctx, matches, func(p prediction) {
		records = append(records, models.EvaluationRecord{Prob: p.prob, Result: p.actual})
		calibration.Add(p.prob, p.actual)

		var quote models.BestOdds
		var quoted bool
		if hasOdds {
			quote, quoted = odds.Lookup(p.match)
		}
		if bet, ok := e.placeBet(p, quote, quoted, len(records)-1); ok {
			state.UpdateState(bet)
		}
	})
	if err != nil {
		return nil, err
	}

	state.Odds.finalize()
	state.TopPick.finalize()

	result := &Result{
		Mode:         mode,
		HasOddsData:  hasOdds,
		GamesTested:  len(records),
		Skipped:      skipped,
		Bets:         len(state.Bets),
		OddsBets:     state.OddsBets,
		FallbackBets: state.FallbackBets,
		Wins:         state.Wins,
		NetUnits:     round(state.NetUnits, 2),
		Odds:         state.Odds,
		TopPick:      state.TopPick,
		Calibration:  calibration,
		EquityCurve:  state.EquityCurve,
		MaxDrawdown:  round(state.EquityCurve.MaxDrawdown(), 2),
		Stats:        CalculateBetStats(state.Bets),
		BetHistory:   state.Bets,
	}
	if result.Bets > 0 {
		result.HitRate = round(float64(state.Wins)/float64(result.Bets), 4)
	}
	if state.Staked > 0 {
		result.ROI = round(state.NetUnits/state.Staked, 4)
	}
	if eval, err := EvaluatePredictions(records); err == nil {
		result.Evaluation = eval
		result.AvgLogLoss = round(eval.LogLoss, 5)
		result.AvgBrierScore = round(eval.BrierScore, 5)
		result.AccuracyPct = round(eval.Accuracy*100, 2)
	}
	result.Duration = time.Since(start).Seconds()
	return result, nil
}

// Diagnostics runs the walk and returns calibration buckets only
func (e *Engine) Diagnostics(ctx context.Context, matches []models.Match) (Calibration, error) {
	calibration := NewCalibration()
	_, err := e.walk(ctx, matches, func(p prediction) {
		calibration.Add(p.prob, p.actual)
	})
	if err != nil {
		return nil, err
	}
	return calibration, nil
}

// placeBet sizes and settles one wager. With a quote the market engine decides
// whether to bet at all; without one the model's top pick is backed at even
// money so fallback results stay in plain units won or lost.
func (e *Engine) placeBet(p prediction, quote models.BestOdds, quoted bool, index int) (BetRecord, bool) {
	stake := e.config.Stake
	bet := BetRecord{
		Index: index,
		Date:  p.match.MatchDate,
		Match: p.match.Label(),
		Stake: stake,
	}

	if quoted {
		opp := e.market.PickOpportunity(market.PickRequest{
			MatchLabel: bet.Match,
			ModelProb:  p.prob,
			MarketProb: market.MarketFromOdds(quote),
			BestOdds:   quote,
		})
		if opp == nil {
			return BetRecord{}, false
		}
		bet.Mode = ModeOdds
		bet.Pick = opp.Pick
		bet.Odd = opp.Odd
		bet.ModelProb = p.prob.Get(opp.Pick)
		bet.Won = opp.Pick == p.actual
		if bet.Won {
			bet.PnL = (opp.Odd - 1) * stake
		} else {
			bet.PnL = -stake
		}
		return bet, true
	}

	bet.Mode = ModeTopPick
	bet.Pick = p.prob.TopPick()
	bet.Odd = 2
	bet.ModelProb = p.prob.Get(bet.Pick)
	bet.Won = bet.Pick == p.actual
	if bet.Won {
		bet.PnL = stake
	} else {
		bet.PnL = -stake
	}
	return bet, true
}

// leagueBaseline is the empirical home/draw/away split of the scored
// matches in the training window, uniform when there are none
func leagueBaseline(train []models.Match) models.Probabilities {
	var home, draw, away float64
	for i := range train {
		outcome, ok := train[i].Result()
		if !ok {
			continue
		}
		switch outcome {
		case models.OutcomeHome:
			home++
		case models.OutcomeDraw:
			draw++
		default:
			away++
		}
	}
	total := home + draw + away
	if total == 0 {
		return models.Uniform()
	}
	return models.Probabilities{Home: home / total, Draw: draw / total, Away: away / total}
}

func shrinkToBaseline(p, baseline models.Probabilities, alpha float64) models.Probabilities {
	return models.Probabilities{
		Home: alpha*p.Home + (1-alpha)*baseline.Home,
		Draw: alpha*p.Draw + (1-alpha)*baseline.Draw,
		Away: alpha*p.Away + (1-alpha)*baseline.Away,
	}
}
