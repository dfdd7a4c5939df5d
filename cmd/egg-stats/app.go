package main

import (
	"context"
	"fmt"
	"io"

	"github.com/yourusername/egg-stats/internal/cache"
	"github.com/yourusername/egg-stats/internal/database"
	"github.com/yourusername/egg-stats/internal/datasource"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/rating"
	"github.com/yourusername/egg-stats/internal/repository"
	"github.com/yourusername/egg-stats/internal/service"
)

// app holds the shared dependencies of every subcommand
type app struct {
	db           *database.DB
	repos        *repository.Repositories
	oddsCache    cache.OddsCache
	oddsAPI      *datasource.OddsAPIClient
	footballData *datasource.FootballDataClient
	engine       *market.Engine
	builder      *service.ModelBuilder
}

func newApp(ctx context.Context) (*app, error) {
	ratingCfg, err := rating.FromConfig(&cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	marketCfg, err := market.FromConfig(&cfg.Market)
	if err != nil {
		return nil, fmt.Errorf("invalid market config: %w", err)
	}

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, err
	}

	repos, err := repository.NewRepositories(db.GetPool())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}

	oddsCache, err := cache.New(cfg.Cache, cfg.OddsAPI.CacheTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create odds cache: %w", err)
	}

	return &app{
		db:           db,
		repos:        repos,
		oddsCache:    oddsCache,
		oddsAPI:      datasource.NewOddsAPIClient(cfg.OddsAPI, oddsCache, appLog),
		footballData: datasource.NewFootballDataClient(cfg.FootballData, appLog),
		engine:       market.NewEngine(marketCfg, appLog),
		builder:      service.NewModelBuilder(repos.Match, ratingCfg, appLog),
	}, nil
}

func (a *app) Close() {
	if err := a.oddsAPI.Close(); err != nil {
		appLog.WithError(err).Warn("Failed to close odds client")
	}
	if err := a.footballData.Close(); err != nil {
		appLog.WithError(err).Warn("Failed to close fixtures client")
	}
	if c, ok := a.oddsCache.(io.Closer); ok {
		if err := c.Close(); err != nil {
			appLog.WithError(err).Warn("Failed to close odds cache")
		}
	}
	a.db.Close()
}

func (a *app) opportunities() *service.OpportunityService {
	return service.NewOpportunityService(cfg, a.footballData, a.oddsAPI, a.builder, a.repos.Bets, a.engine, appLog)
}

func (a *app) resultSync() *service.ResultSyncService {
	return service.NewResultSyncService(a.footballData, a.repos.Match, appLog)
}

func (a *app) settlement() *service.SettlementService {
	return service.NewSettlementService(a.repos.Bets, a.repos.Match, appLog)
}

func (a *app) snapshots() *service.SnapshotService {
	return service.NewSnapshotService(cfg, a.footballData, a.oddsAPI, a.repos.Odds, appLog)
}

func (a *app) ingestion() *service.IngestionService {
	return service.NewIngestionService(a.footballData, a.repos.Match, nil, nil, appLog)
}

func (a *app) backtests() (*service.BacktestService, error) {
	base, err := service.BacktestConfigFrom(cfg)
	if err != nil {
		return nil, err
	}
	return service.NewBacktestService(cfg, base, a.repos.Match, a.repos.Odds, appLog), nil
}
