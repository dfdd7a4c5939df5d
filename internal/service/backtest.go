package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/backtest"
	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/rating"
	"github.com/yourusername/egg-stats/internal/repository"
)

// DefaultMinBacktestMatches is the stored history a league needs before it is backtested
const DefaultMinBacktestMatches = 150

// BacktestOverrides adjusts one run. Nil thresholds keep the configured values.
type BacktestOverrides struct {
	MinEV      *float64
	MinEdge    *float64
	MonteCarlo bool
}

// BacktestReport is a league run plus the optional resampled distribution
type BacktestReport struct {
	*backtest.Result
	MonteCarlo *backtest.MonteCarloResult `json:"monte_carlo,omitempty"`
}

// BacktestService replays stored league history through the walk-forward harness
type BacktestService struct {
	app       *config.Config
	base      backtest.BacktestConfig
	matches   repository.MatchRepository
	snapshots repository.OddsSnapshotRepository
	log       *logrus.Logger
}

// BacktestConfigFrom assembles the harness config from the application config
func BacktestConfigFrom(cfg *config.Config) (backtest.BacktestConfig, error) {
	bt, err := backtest.FromConfig(&cfg.Backtest)
	if err != nil {
		return bt, err
	}
	if bt.Rating, err = rating.FromConfig(&cfg.Model); err != nil {
		return bt, fmt.Errorf("invalid model config: %w", err)
	}
	if bt.Market, err = market.FromConfig(&cfg.Market); err != nil {
		return bt, fmt.Errorf("invalid market config: %w", err)
	}
	return bt, nil
}

// NewBacktestService creates a backtest service
func NewBacktestService(
	app *config.Config,
	base backtest.BacktestConfig,
	matches repository.MatchRepository,
	snapshots repository.OddsSnapshotRepository,
	log *logrus.Logger,
) *BacktestService {
	return &BacktestService{
		app:       app,
		base:      base,
		matches:   matches,
		snapshots: snapshots,
		log:       logger.OrDefault(log),
	}
}

// Run backtests one league. Stored snapshots price the matches they cover;
// the rest fall back to top-pick bets.
func (s *BacktestService) Run(ctx context.Context, league string, overrides BacktestOverrides) (*BacktestReport, error) {
	start := time.Now()

	cfg, err := s.configFor(league, overrides)
	if err != nil {
		return nil, err
	}

	input, err := s.loadLeague(ctx, league)
	if err != nil {
		metrics.RecordBacktestRun("single", "error")
		return nil, err
	}

	res, err := backtest.RunWalkForward(ctx, input.Matches, input.Odds, cfg)
	if err != nil {
		metrics.RecordBacktestRun("single", "error")
		return nil, fmt.Errorf("backtest %s: %w", league, err)
	}
	res.League = league

	metrics.RecordBacktestRun(res.Mode, "success")
	metrics.RecordBacktestDuration(time.Since(start).Seconds())
	metrics.RecordBacktestResult(league, res.AvgBrierScore, res.ROI)

	s.log.WithFields(logrus.Fields{
		"league":       league,
		"mode":         res.Mode,
		"games_tested": res.GamesTested,
		"bets":         res.Bets,
		"net_units":    res.NetUnits,
		"roi":          res.ROI,
		"brier":        res.AvgBrierScore,
	}).Info("Backtest complete")

	report := &BacktestReport{Result: res}
	if overrides.MonteCarlo && len(res.BetHistory) > 0 {
		mc := backtest.RunMonteCarlo(backtest.SimulatedBets(res.BetHistory), backtest.MonteCarloConfig{
			Iterations: cfg.MonteCarloRuns,
		})
		report.MonteCarlo = &mc
	}
	return report, nil
}

// RunAll backtests every enabled league concurrently and aggregates the results
func (s *BacktestService) RunAll(ctx context.Context, overrides BacktestOverrides) (*backtest.AggregatedResult, error) {
	start := time.Now()

	cfg, err := s.configFor("", overrides)
	if err != nil {
		return nil, err
	}

	inputs := make(map[string]backtest.LeagueInput)
	var thin []string
	for _, code := range s.app.LeagueCodes() {
		input, err := s.loadLeague(ctx, code)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			s.log.WithError(err).WithField("league", code).Info("League left out of backtest")
			thin = append(thin, code)
			continue
		}
		inputs[code] = input
	}

	agg, err := backtest.RunWalkForwardParallel(ctx, inputs, cfg, s.app.Backtest.ParallelLeagues)
	if err != nil {
		metrics.RecordBacktestRun("aggregate", "error")
		return nil, err
	}
	agg.Insufficient = append(agg.Insufficient, thin...)
	sort.Strings(agg.Insufficient)

	metrics.RecordBacktestRun("aggregate", "success")
	metrics.RecordBacktestDuration(time.Since(start).Seconds())
	for _, r := range agg.Leagues {
		metrics.RecordBacktestResult(r.League, r.AvgBrierScore, r.ROI)
	}

	return agg, nil
}

func (s *BacktestService) loadLeague(ctx context.Context, league string) (backtest.LeagueInput, error) {
	matches, err := s.matches.ListScored(ctx, league)
	if err != nil {
		return backtest.LeagueInput{}, fmt.Errorf("failed to load matches for %s: %w", league, err)
	}
	minMatches := s.app.Backtest.MinLeagueMatches
	if minMatches <= 0 {
		minMatches = DefaultMinBacktestMatches
	}
	if len(matches) < minMatches {
		return backtest.LeagueInput{}, fmt.Errorf("%w: %s has %d finished matches, need %d",
			models.ErrInsufficientData, league, len(matches), minMatches)
	}

	snaps, err := s.snapshots.ListByLeague(ctx, league)
	if err != nil {
		return backtest.LeagueInput{}, fmt.Errorf("failed to load odds snapshots for %s: %w", league, err)
	}
	odds := backtest.OddsFromSnapshots(snaps)
	if odds.Len() == 0 {
		s.log.WithField("league", league).Warn("No stored odds, backtest will use top-pick stakes")
	}

	return backtest.LeagueInput{Matches: matches, Odds: odds}, nil
}

// configFor layers league market overrides, then the per-run overrides, over the base config
func (s *BacktestService) configFor(league string, overrides BacktestOverrides) (backtest.BacktestConfig, error) {
	cfg := s.base
	if lc, ok := s.app.League(league); ok {
		if o := market.OverrideFrom(lc.Market); o != nil {
			cfg.Market = cfg.Market.Apply(*o)
		}
	}
	cfg.Market = cfg.Market.Apply(market.Override{MinEV: overrides.MinEV, MinEdge: overrides.MinEdge})

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid backtest config: %w", err)
	}
	return cfg, nil
}
