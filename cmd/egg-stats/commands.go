package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/egg-stats/internal/backtest"
	"github.com/yourusername/egg-stats/internal/health"
	"github.com/yourusername/egg-stats/internal/market"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/scheduler"
	"github.com/yourusername/egg-stats/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduled jobs and the health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		hcfg := health.Config{
			ServiceName:  cfg.App.Name,
			Version:      Version,
			Port:         cfg.Health.Port,
			Logger:       appLog,
			Dependencies: map[string]health.Pinger{"database": a.db},
		}
		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
			hcfg.Metrics = metrics.Handler()
			hcfg.MetricsPath = cfg.Metrics.Path
		}

		sched := scheduler.NewScheduler(appLog)
		err = sched.Register(cfg.Scheduler, scheduler.Jobs{
			Snapshot: func(ctx context.Context) error {
				_, err := a.snapshots().Capture(ctx)
				return err
			},
			Sync: func(ctx context.Context) error {
				_, err := a.resultSync().Sync(ctx)
				return err
			},
			Settle: func(ctx context.Context) error {
				_, err := a.settlement().Settle(ctx)
				return err
			},
			Scan: func(ctx context.Context) error {
				_, err := a.opportunities().Scan(ctx)
				return err
			},
		})
		if err != nil {
			return fmt.Errorf("failed to register jobs: %w", err)
		}

		server := health.NewServer(hcfg)
		if err := server.Start(ctx); err != nil {
			return err
		}

		if len(sched.JobNames()) > 0 {
			if err := sched.Start(); err != nil {
				return err
			}
		} else {
			appLog.Warn("No scheduled jobs configured")
		}
		server.SetReady(true)

		appLog.WithFields(logrus.Fields{
			"version":     Version,
			"commit":      GitCommit,
			"jobs":        sched.JobNames(),
			"next_run":    sched.GetNextRun(),
			"health_port": cfg.Health.Port,
		}).Info("egg-stats serving")

		<-ctx.Done()
		appLog.Info("Shutdown signal received")
		server.SetReady(false)
		if err := sched.Stop(); err != nil {
			appLog.WithError(err).Warn("Scheduler did not stop cleanly")
		}
		return nil
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Price upcoming fixtures and record value picks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			res, err := a.opportunities().Scan(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(res)
			}

			fmt.Printf("Scan %s: %d leagues, %d fixtures, %d opportunities, %d recorded (%s)\n",
				res.RunID, res.Leagues, res.Fixtures, res.Count, res.Recorded, res.Duration)
			for i, o := range res.Opportunities {
				fmt.Printf("%2d. [%s] %-40s %-4s @ %.2f  edge %+.3f  ev %+.3f  %s\n",
					i+1, o.League, o.Match, o.Pick, o.Odd, o.Edge, o.EV, o.Confidence)
			}
			return nil
		})
	},
}

var syncResultsCmd = &cobra.Command{
	Use:   "sync-results",
	Short: "Write final scores of recently finished matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			n, err := a.resultSync().Sync(ctx)
			if err != nil {
				return err
			}
			return printResult(map[string]int64{"updated": n}, fmt.Sprintf("Updated %d matches", n))
		})
	},
}

var settleCmd = &cobra.Command{
	Use:   "settle",
	Short: "Settle open bets whose matches have a final score",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			n, err := a.settlement().Settle(ctx)
			if err != nil {
				return err
			}
			return printResult(map[string]int{"settled": n}, fmt.Sprintf("Settled %d bets", n))
		})
	},
}

var performanceCmd = &cobra.Command{
	Use:   "performance",
	Short: "Report hit rate, net units and ROI of settled bets",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			perf, err := service.NewPerformanceService(a.repos.Bets).Report(ctx)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(perf)
			}

			s := perf.Summary
			fmt.Printf("Bets: %d  Wins: %d  Hit rate: %.1f%%  Staked: %s  Net: %s  ROI: %.2f%%\n",
				s.TotalBets, s.Wins, s.HitRate*100, s.TotalStaked.StringFixed(2), s.NetUnits.StringFixed(2), s.ROI*100)
			for _, b := range perf.ByLeague {
				fmt.Printf("  league %-6s %4d bets  %5.1f%%  %s\n", b.Group, b.Bets, b.HitRate*100, b.NetUnits.StringFixed(2))
			}
			for _, b := range perf.ByConfidence {
				fmt.Printf("  conf   %-6s %4d bets  %5.1f%%  %s\n", b.Group, b.Bets, b.HitRate*100, b.NetUnits.StringFixed(2))
			}
			return nil
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Store the current odds of upcoming fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			n, err := a.snapshots().Capture(ctx)
			if err != nil {
				return err
			}
			return printResult(map[string]int64{"snapshots": n}, fmt.Sprintf("Stored %d odds snapshots", n))
		})
	},
}

var ingestSeasons []int

var ingestCmd = &cobra.Command{
	Use:   "ingest <league>",
	Short: "Load historical fixtures of a league into the match store",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		league := strings.ToUpper(args[0])
		seasons := ingestSeasons
		if len(seasons) == 0 {
			seasons = cfg.FootballData.Seasons
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			m, err := a.ingestion().Ingest(ctx, league, seasons)
			if err != nil {
				return err
			}
			return printResult(m, m.String())
		})
	},
}

var (
	btAll        bool
	btMinEV      float64
	btMinEdge    float64
	btMonteCarlo bool
	btOutput     string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest [league]",
	Short: "Walk-forward backtest over stored history",
	Args: func(cmd *cobra.Command, args []string) error {
		if btAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := service.BacktestOverrides{MonteCarlo: btMonteCarlo}
		if cmd.Flags().Changed("min-ev") {
			overrides.MinEV = market.Float(btMinEV)
		}
		if cmd.Flags().Changed("min-edge") {
			overrides.MinEdge = market.Float(btMinEdge)
		}

		return withApp(cmd, func(ctx context.Context, a *app) error {
			svc, err := a.backtests()
			if err != nil {
				return err
			}

			if btAll {
				agg, err := svc.RunAll(ctx, overrides)
				if err != nil {
					return err
				}
				if jsonOutput {
					return printJSON(agg)
				}
				for _, r := range agg.Leagues {
					fmt.Println(backtest.GenerateConsoleReport(r))
				}
				if len(agg.Insufficient) > 0 {
					fmt.Printf("Not enough history: %s\n", strings.Join(agg.Insufficient, ", "))
				}
				fmt.Printf("Overall (%s): %d games, %d bets, net %.2f, ROI %.2f%%, Brier %.4f -> %s\n",
					agg.Mode, agg.GamesTested, agg.Bets, agg.NetUnits, agg.ROI*100, agg.AvgBrierScore, agg.Recommendation)
				if agg.Mode == backtest.ModeOdds && agg.TopPick.Bets > 0 {
					fmt.Printf("Unquoted top picks: %d bets, net %.2f, ROI %.2f%%\n",
						agg.TopPick.Bets, agg.TopPick.NetUnits, agg.TopPick.ROI*100)
				}
				return nil
			}

			report, err := svc.Run(ctx, strings.ToUpper(args[0]), overrides)
			if err != nil {
				return err
			}
			if err := exportBacktest(report.Result); err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(report)
			}

			fmt.Println(backtest.GenerateConsoleReport(report.Result))
			if mc := report.MonteCarlo; mc != nil {
				fmt.Printf("Monte Carlo (%d runs): mean %.2f  std %.2f  VaR95 %.2f  P(profit) %.1f%%  P(ruin) %.1f%%\n",
					mc.Iterations, mc.MeanNet, mc.StdNet, mc.VaR95, mc.ProbabilityOfProfit*100, mc.ProbabilityOfRuin*100)
			}
			return nil
		})
	},
}

func init() {
	ingestCmd.Flags().IntSliceVar(&ingestSeasons, "seasons", nil, "Season start years, e.g. 2023,2024 (default from config)")

	backtestCmd.Flags().BoolVar(&btAll, "all", false, "Backtest every enabled league")
	backtestCmd.Flags().Float64Var(&btMinEV, "min-ev", 0, "Override the minimum expected value")
	backtestCmd.Flags().Float64Var(&btMinEdge, "min-edge", 0, "Override the minimum edge over the market")
	backtestCmd.Flags().BoolVar(&btMonteCarlo, "monte-carlo", false, "Resample the bet history")
	backtestCmd.Flags().StringVarP(&btOutput, "output", "o", "", "Write summary and equity CSVs with this path prefix")
}

var predictCmd = &cobra.Command{
	Use:   "predict <league> <home> <away>",
	Short: "Price a single fixture with the league model",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			p, err := service.NewPredictionService(cfg, a.builder).Predict(ctx, strings.ToUpper(args[0]), args[1], args[2])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(p)
			}

			fmt.Printf("%s: %s vs %s (trained on %d matches)\n", p.League, p.HomeTeam, p.AwayTeam, p.TrainedOn)
			fmt.Printf("  xG %.2f - %.2f\n", p.LambdaHome, p.LambdaAway)
			fmt.Printf("  1 %.1f%%  X %.1f%%  2 %.1f%%  pick %s\n",
				p.Probabilities.Home*100, p.Probabilities.Draw*100, p.Probabilities.Away*100, p.TopPick)
			fmt.Printf("  most likely score %s (%.1f%%)\n", p.LikelyScore, p.LikelyScoreP*100)
			return nil
		})
	},
}

// withApp builds the dependencies, runs fn and releases them
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func exportBacktest(res *backtest.Result) error {
	prefix := btOutput
	if prefix == "" {
		prefix = cfg.Backtest.OutputPath
	}
	if prefix == "" {
		return nil
	}

	stem := prefix
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	if res.League != "" {
		stem += "_" + strings.ToLower(res.League)
	}

	if err := backtest.GenerateCSVExport(res, stem+"_summary.csv"); err != nil {
		return fmt.Errorf("failed to export summary: %w", err)
	}
	if err := backtest.GenerateEquityCSV(res, stem+"_equity.csv"); err != nil {
		return fmt.Errorf("failed to export equity curve: %w", err)
	}
	appLog.WithField("prefix", stem).Info("Backtest exported")
	return nil
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}

func printResult(v interface{}, text string) error {
	if jsonOutput {
		return printJSON(v)
	}
	fmt.Println(text)
	return nil
}

// version skips config loading
func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("egg-stats " + Version + " (" + GitCommit + ")")
		},
	})
}
