// Package main provides the entry point for the offline backtesting CLI tool.
// It replays a results CSV without a database.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/backtest"
	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/rating"
)

func main() {
	var (
		configPath = flag.String("config", "", "Optional config file for model and market parameters")
		inputPath  = flag.String("input", "", "Results CSV: date,home,away,home_goals,away_goals[,odd_home,odd_draw,odd_away]")
		league     = flag.String("league", "", "League label for the report")
		minTrain   = flag.Int("min-train", 0, "Matches in the first training window (default from config)")
		minEV      = flag.Float64("min-ev", 0, "Override the minimum expected value")
		minEdge    = flag.Float64("min-edge", 0, "Override the minimum edge")
		monteCarlo = flag.Int("monte-carlo", 0, "Monte Carlo iterations over the bet history (0 disables)")
		output     = flag.String("output", "", "Path prefix for the summary and equity CSVs")
		jsonOutput = flag.Bool("json", false, "Print the result as JSON")
		logLevel   = flag.String("log-level", "info", "Log level")
	)
	flag.Parse()

	log := logger.NewLogger(*logLevel)
	if *inputPath == "" {
		log.Fatal("-input is required")
	}

	var thresholds market.Override
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-ev":
			thresholds.MinEV = market.Float(*minEV)
		case "min-edge":
			thresholds.MinEdge = market.Float(*minEdge)
		}
	})

	btConfig, err := buildBacktestConfig(*configPath, *minTrain, thresholds)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	f, err := os.Open(*inputPath)
	if err != nil {
		log.Fatalf("Failed to open input: %v", err)
	}
	matches, odds, err := readResultsCSV(f, *league, log)
	_ = f.Close()
	if err != nil {
		log.Fatalf("Failed to read input: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.WithFields(logrus.Fields{
		"matches":        len(matches),
		"quoted":         odds.Len(),
		"min_train_size": btConfig.MinTrainSize,
	}).Info("Starting backtest")

	result, err := backtest.RunWalkForward(ctx, matches, odds, btConfig)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}
	result.League = *league

	if *output != "" {
		if err := backtest.GenerateCSVExport(result, *output+"_summary.csv"); err != nil {
			log.Fatalf("Failed to export summary: %v", err)
		}
		if err := backtest.GenerateEquityCSV(result, *output+"_equity.csv"); err != nil {
			log.Fatalf("Failed to export equity curve: %v", err)
		}
	}

	if *jsonOutput {
		out, err := result.ToJSON()
		if err != nil {
			log.Fatalf("Failed to encode result: %v", err)
		}
		fmt.Println(string(out))
	} else {
		fmt.Println(backtest.GenerateConsoleReport(result))
	}

	if *monteCarlo > 0 && len(result.BetHistory) > 0 {
		mc := backtest.RunMonteCarlo(backtest.SimulatedBets(result.BetHistory), backtest.MonteCarloConfig{
			Iterations: *monteCarlo,
			Bankroll:   float64(len(result.BetHistory)) * btConfig.Stake / 4,
		})
		fmt.Printf("Monte Carlo (%d runs): mean %.2f  std %.2f  VaR95 %.2f  P(profit) %.1f%%  P(ruin) %.1f%%\n",
			mc.Iterations, mc.MeanNet, mc.StdNet, mc.VaR95, mc.ProbabilityOfProfit*100, mc.ProbabilityOfRuin*100)
	}
}

// buildBacktestConfig starts from the reference parameters, applies the config
// file when one is given and then the flag overrides
func buildBacktestConfig(path string, minTrain int, thresholds market.Override) (backtest.BacktestConfig, error) {
	bt := backtest.DefaultConfig()

	if path != "" {
		cfg, err := config.LoadWithDefaults(path)
		if err != nil {
			return bt, err
		}
		if bt, err = backtest.FromConfig(&cfg.Backtest); err != nil {
			return bt, err
		}
		if bt.Rating, err = rating.FromConfig(&cfg.Model); err != nil {
			return bt, err
		}
		if bt.Market, err = market.FromConfig(&cfg.Market); err != nil {
			return bt, err
		}
	}

	if minTrain > 0 {
		bt.MinTrainSize = minTrain
	}
	bt.Market = bt.Market.Apply(thresholds)
	return bt, bt.Validate()
}
