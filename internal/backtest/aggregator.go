package backtest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/egg-stats/internal/models"
)

// Recommendations attached to an aggregated run
const (
	RecommendationAccept      = "ACCEPT"
	RecommendationReject      = "REJECT"
	RecommendationNeedsReview = "NEEDS_REVIEW"
)

// uniformBrier is the Brier score of always predicting 1/3 each way
const uniformBrier = 2.0 / 3.0

// LeagueInput is one league's history and quotes for a parallel run
type LeagueInput struct {
	Matches []models.Match
	Odds    OddsLookup
}

// AggregatedResult pools several league runs. Each mode is pooled on its
// own; the headline figures are those of Mode, which is odds when any league
// ran against stored quotes.
type AggregatedResult struct {
	Leagues        []*Result   `json:"leagues"`
	Insufficient   []string    `json:"insufficient,omitempty"`
	Mode           string      `json:"mode"`
	GamesTested    int         `json:"games_tested"`
	Bets           int         `json:"bets"`
	Wins           int         `json:"wins"`
	NetUnits       float64     `json:"net_units"`
	ROI            float64     `json:"roi"`
	Odds           ModeSummary `json:"odds"`
	TopPick        ModeSummary `json:"top_pick"`
	AvgBrierScore  float64     `json:"avg_brier_score"`
	AvgLogLoss     float64     `json:"avg_log_loss"`
	Recommendation string      `json:"recommendation"`
}

// RunWalkForwardParallel runs every league concurrently, at most limit at a
// time (limit <= 0 means unbounded). Leagues without enough history are
// reported in Insufficient instead of failing the run.
func RunWalkForwardParallel(ctx context.Context, leagues map[string]LeagueInput, cfg BacktestConfig, limit int) (*AggregatedResult, error) {
	if _, err := NewEngine(cfg); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	results := make([]*Result, 0, len(leagues))
	insufficient := []string{}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for code, input := range leagues {
		g.Go(func() error {
			res, err := RunWalkForward(gctx, input.Matches, input.Odds, cfg)
			mu.Lock()
			defer mu.Unlock()
			if errors.Is(err, models.ErrInsufficientData) {
				insufficient = append(insufficient, code)
				return nil
			}
			if err != nil {
				return err
			}
			res.League = code
			results = append(results, res)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(insufficient)
	agg := AggregateResults(results)
	agg.Insufficient = insufficient
	return agg, nil
}

// AggregateResults pools bets per mode and weights scoring metrics by games tested
func AggregateResults(results []*Result) *AggregatedResult {
	sorted := append([]*Result{}, results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].League < sorted[j].League })

	agg := &AggregatedResult{Leagues: sorted, Mode: ModeTopPick}
	brierSum, logLossSum := 0.0, 0.0
	for _, r := range sorted {
		agg.GamesTested += r.GamesTested
		agg.Odds.Merge(r.Odds)
		agg.TopPick.Merge(r.TopPick)
		if r.Mode == ModeOdds {
			agg.Mode = ModeOdds
		}
		brierSum += r.Evaluation.BrierScore * float64(r.Evaluation.N)
		logLossSum += r.Evaluation.LogLoss * float64(r.Evaluation.N)
	}

	headline := agg.TopPick
	if agg.Mode == ModeOdds {
		headline = agg.Odds
	}
	agg.Bets = headline.Bets
	agg.Wins = headline.Wins
	agg.NetUnits = round(headline.NetUnits, 2)
	agg.ROI = headline.ROI

	if agg.GamesTested > 0 {
		agg.AvgBrierScore = round(brierSum/float64(agg.GamesTested), 5)
		agg.AvgLogLoss = round(logLossSum/float64(agg.GamesTested), 5)
	}
	agg.Recommendation = GenerateRecommendation(agg.ROI, agg.AvgBrierScore, agg.Bets)
	return agg
}

// GenerateRecommendation grades a run from its return and calibration
func GenerateRecommendation(roi, brier float64, bets int) string {
	if bets == 0 || brier >= uniformBrier || roi < -0.05 {
		return RecommendationReject
	}
	if roi > 0 && brier < 0.6 {
		return RecommendationAccept
	}
	return RecommendationNeedsReview
}
