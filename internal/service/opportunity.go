package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/datasource"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
	"github.com/yourusername/egg-stats/internal/poisson"
	"github.com/yourusername/egg-stats/internal/repository"
)

const (
	defaultTopN        = 20
	defaultConcurrency = 4
)

// ScanResult summarizes one opportunity scan
type ScanResult struct {
	RunID         uuid.UUID            `json:"run_id"`
	Leagues       int                  `json:"leagues"`
	Fixtures      int                  `json:"fixtures"`
	Count         int                  `json:"count"`
	Recorded      int64                `json:"recorded"`
	Opportunities []models.Opportunity `json:"top"`
	Duration      time.Duration        `json:"duration"`
}

// OpportunityService scans upcoming fixtures for positive-EV picks and logs them to the bet ledger
type OpportunityService struct {
	cfg      *config.Config
	fixtures datasource.FixtureSource
	odds     datasource.OddsSource
	builder  *ModelBuilder
	bets     repository.BetLogRepository
	engine   *market.Engine
	oppLog   *logger.OpportunityLogger
	modelLog *logger.ModelLogger
	audit    *logger.AuditLogger
	log      *logrus.Logger
}

// NewOpportunityService creates an opportunity service
func NewOpportunityService(
	cfg *config.Config,
	fixtures datasource.FixtureSource,
	odds datasource.OddsSource,
	builder *ModelBuilder,
	bets repository.BetLogRepository,
	engine *market.Engine,
	log *logrus.Logger,
) *OpportunityService {
	log = logger.OrDefault(log)
	return &OpportunityService{
		cfg:      cfg,
		fixtures: fixtures,
		odds:     odds,
		builder:  builder,
		bets:     bets,
		engine:   engine,
		oppLog:   logger.NewOpportunityLogger(log),
		modelLog: logger.NewModelLogger(log),
		audit:    logger.NewAuditLogger(log),
		log:      log,
	}
}

type leagueScan struct {
	opportunities []models.Opportunity
	recorded      int64
}

// Scan prices every upcoming fixture in the configured leagues. Qualifying
// picks are written to the ledger per league; the result carries the total
// count and the top N by score.
func (s *OpportunityService) Scan(ctx context.Context) (*ScanResult, error) {
	start := time.Now()
	runID := uuid.New()

	upcoming, err := s.fixtures.UpcomingMatches(ctx, s.cfg.LeagueCodes())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch upcoming matches: %w", err)
	}
	byLeague := groupByLeague(upcoming, s.cfg.LeagueMap())

	var (
		mu    sync.Mutex
		all   []models.Opportunity
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())
	for code, fixtures := range byLeague {
		g.Go(func() error {
			res, err := s.scanLeague(gctx, code, fixtures)
			if err != nil {
				return err
			}
			mu.Lock()
			all = append(all, res.opportunities...)
			total += res.recorded
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })

	result := &ScanResult{
		RunID:         runID,
		Leagues:       len(byLeague),
		Fixtures:      countFixtures(byLeague),
		Count:         len(all),
		Recorded:      total,
		Opportunities: topN(all, s.topN()),
		Duration:      time.Since(start),
	}

	s.oppLog.WithField("run_id", runID.String()).Debug("Scan complete")
	s.oppLog.LogScanSummary(result.Leagues, result.Fixtures, result.Count, int(total), float64(result.Duration.Milliseconds()))
	metrics.RecordScanDuration(result.Duration.Seconds())

	return result, nil
}

func (s *OpportunityService) scanLeague(ctx context.Context, code string, fixtures []models.Fixture) (leagueScan, error) {
	var out leagueScan

	lc, _ := s.cfg.League(code)
	model, _, err := s.builder.Build(ctx, code, lc.MinMatches)
	if err != nil {
		if errors.Is(err, models.ErrInsufficientData) {
			s.log.WithField("league", code).Info(err.Error())
			return out, nil
		}
		return out, err
	}

	events, err := s.odds.FetchOdds(ctx, lc.SportKey)
	if err != nil {
		if ctx.Err() != nil {
			return out, ctx.Err()
		}
		s.log.WithError(err).WithField("league", code).Warn("Odds fetch failed, skipping league")
		return out, nil
	}

	override := market.OverrideFrom(lc.Market)
	stake := s.stake()
	var ledger []*models.BetLog

	for i := range fixtures {
		f := &fixtures[i]
		home, away := f.HomeTeam.Name, f.AwayTeam.Name
		if home == "" || away == "" {
			continue
		}
		label := fmt.Sprintf("%s vs %s", home, away)

		event, ok := FindOddsEvent(events, home, away)
		if !ok {
			s.oppLog.LogNoQuote(code, label, "no odds event")
			continue
		}
		best, ok := market.ExtractBest1x2(*event)
		if !ok {
			s.oppLog.LogNoQuote(code, label, "incomplete 1x2 quote")
			continue
		}

		probs, ok := poisson.FromModel(model, home, away)
		if !ok {
			s.modelLog.LogUnknownTeam(code, home, away)
			continue
		}

		opp := s.engine.PickOpportunity(market.PickRequest{
			League:     code,
			MatchLabel: label,
			ModelProb:  probs,
			MarketProb: market.MarketFromOdds(best),
			BestOdds:   best,
			Override:   override,
		})
		if opp == nil {
			continue
		}

		s.oppLog.LogOpportunity(code, opp.Match, string(opp.Pick), opp.Odd, opp.Edge, opp.EV, opp.Score, string(opp.Confidence))
		metrics.RecordOpportunity(code, string(opp.Confidence), string(opp.Pick), opp.Edge)

		out.opportunities = append(out.opportunities, *opp)
		ledger = append(ledger, models.NewBetLog(f.ExternalID(), opp, stake))
	}

	if len(ledger) == 0 {
		return out, nil
	}

	n, err := s.bets.InsertBatch(ctx, ledger)
	if err != nil {
		return out, fmt.Errorf("failed to record %s picks: %w", code, err)
	}
	out.recorded = n
	metrics.RecordBetRecorded(int(n))

	now := time.Now()
	for _, b := range ledger {
		s.audit.LogBetRecorded(b.ID.String(), b.ExternalMatchID, string(b.Pick),
			b.Stake.InexactFloat64(), b.OddTaken.InexactFloat64(), now)
	}

	return out, nil
}

func (s *OpportunityService) topN() int {
	if s.cfg.Scanner.TopN > 0 {
		return s.cfg.Scanner.TopN
	}
	return defaultTopN
}

func (s *OpportunityService) concurrency() int {
	if s.cfg.Scanner.Concurrency > 0 {
		return s.cfg.Scanner.Concurrency
	}
	return defaultConcurrency
}

func (s *OpportunityService) stake() decimal.Decimal {
	if s.cfg.Scanner.Stake > 0 {
		return decimal.NewFromFloat(s.cfg.Scanner.Stake)
	}
	return decimal.NewFromInt(1)
}

// groupByLeague buckets fixtures by competition code, dropping codes outside leagueMap
func groupByLeague(fixtures []models.Fixture, leagueMap map[string]string) map[string][]models.Fixture {
	out := make(map[string][]models.Fixture)
	for _, f := range fixtures {
		code := f.Competition.Code
		if _, ok := leagueMap[code]; !ok {
			continue
		}
		out[code] = append(out[code], f)
	}
	return out
}

func countFixtures(byLeague map[string][]models.Fixture) int {
	n := 0
	for _, fs := range byLeague {
		n += len(fs)
	}
	return n
}

func topN(opps []models.Opportunity, n int) []models.Opportunity {
	if len(opps) <= n {
		return opps
	}
	return opps[:n]
}
