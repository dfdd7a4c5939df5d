package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats a run for terminal output
func GenerateConsoleReport(result *Result) string {
	var builder strings.Builder
	title := "Backtest Report"
	if result.League != "" {
		title += " - " + result.League
	}
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("=", len(title)) + "\n")
	builder.WriteString(fmt.Sprintf("Mode: %s (odds data: %t)\n", result.Mode, result.HasOddsData))
	builder.WriteString(fmt.Sprintf("Games Tested: %d (skipped %d)\n", result.GamesTested, result.Skipped))
	builder.WriteString(fmt.Sprintf("Brier Score: %.5f\n", result.AvgBrierScore))
	builder.WriteString(fmt.Sprintf("Log Loss: %.5f\n", result.AvgLogLoss))
	builder.WriteString(fmt.Sprintf("Accuracy: %.2f%%\n", result.AccuracyPct))
	builder.WriteString(fmt.Sprintf("Bets (%s): %d (odds %d, fallback %d)\n", result.Mode, result.Bets, result.OddsBets, result.FallbackBets))
	builder.WriteString(fmt.Sprintf("Hit Rate: %.2f%%\n", result.HitRate*100))
	builder.WriteString(fmt.Sprintf("Net Units: %+.2f\n", result.NetUnits))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", result.ROI*100))
	if result.Mode == ModeOdds && result.TopPick.Bets > 0 {
		builder.WriteString(fmt.Sprintf("Unquoted top picks (even money, excluded above): %d bets, %+.2f units, ROI %.2f%%\n",
			result.TopPick.Bets, result.TopPick.NetUnits, result.TopPick.ROI*100))
	}
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f units\n", result.MaxDrawdown))
	builder.WriteString(fmt.Sprintf("Profit Factor: %.2f\n", result.Stats.ProfitFactor))

	if result.Calibration.Total() > 0 {
		builder.WriteString("\nCalibration\n")
		for _, b := range result.Calibration {
			if b.Count == 0 {
				continue
			}
			builder.WriteString(fmt.Sprintf("  %-7s n=%-5d predicted=%.3f actual=%.3f\n",
				b.Range, b.Count, b.PredictedRate(), b.ActualRate()))
		}
	}
	return builder.String()
}

// GenerateCSVExport writes key metrics for spreadsheets
func GenerateCSVExport(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("league,%s\n", result.League) +
		fmt.Sprintf("mode,%s\n", result.Mode) +
		fmt.Sprintf("games_tested,%d\n", result.GamesTested) +
		fmt.Sprintf("skipped,%d\n", result.Skipped) +
		fmt.Sprintf("brier_score,%.5f\n", result.AvgBrierScore) +
		fmt.Sprintf("log_loss,%.5f\n", result.AvgLogLoss) +
		fmt.Sprintf("accuracy_pct,%.2f\n", result.AccuracyPct) +
		fmt.Sprintf("bets,%d\n", result.Bets) +
		fmt.Sprintf("wins,%d\n", result.Wins) +
		fmt.Sprintf("hit_rate,%.4f\n", result.HitRate) +
		fmt.Sprintf("net_units,%.2f\n", result.NetUnits) +
		fmt.Sprintf("roi,%.4f\n", result.ROI) +
		modeCSV(ModeOdds, result.Odds) +
		modeCSV(ModeTopPick, result.TopPick) +
		fmt.Sprintf("max_drawdown,%.2f\n", result.MaxDrawdown)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

// GenerateEquityCSV writes the per-bet equity curve next to the metrics export
func GenerateEquityCSV(result *Result, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(result.EquityCurve.ToCSV()), 0o644)
}

func modeCSV(mode string, m ModeSummary) string {
	return fmt.Sprintf("%s_bets,%d\n", mode, m.Bets) +
		fmt.Sprintf("%s_wins,%d\n", mode, m.Wins) +
		fmt.Sprintf("%s_net_units,%.2f\n", mode, m.NetUnits) +
		fmt.Sprintf("%s_roi,%.4f\n", mode, m.ROI)
}
