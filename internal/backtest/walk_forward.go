package backtest

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/yourusername/egg-stats/internal/models"
)

// OddsLookup supplies a historical market quote for a held-out match
type OddsLookup interface {
	Lookup(match models.Match) (models.BestOdds, bool)
	Len() int
}

// OddsByMatch keys quotes by external match id
type OddsByMatch map[string]models.BestOdds

// Lookup returns the quote stored for the match's external id
func (o OddsByMatch) Lookup(match models.Match) (models.BestOdds, bool) {
	quote, ok := o[match.ExternalID]
	return quote, ok
}

// Len returns the number of quoted matches
func (o OddsByMatch) Len() int {
	return len(o)
}

// OddsFromSnapshots indexes snapshots by match. When a match has several
// snapshots the earliest capture wins.
func OddsFromSnapshots(snapshots []models.OddsSnapshot) OddsByMatch {
	out := make(OddsByMatch, len(snapshots))
	for i := range snapshots {
		s := &snapshots[i]
		if _, seen := out[s.ExternalMatchID]; seen {
			continue
		}
		out[s.ExternalMatchID] = s.BestOdds()
	}
	return out
}

// RunWalkForward sorts matches by date and runs the walk-forward harness.
// The input slice is not modified.
func RunWalkForward(ctx context.Context, matches []models.Match, odds OddsLookup, cfg BacktestConfig) (*Result, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Run(ctx, sortByDate(matches), odds)
}

// RunDiagnostics returns the calibration buckets of a walk-forward pass
func RunDiagnostics(ctx context.Context, matches []models.Match, cfg BacktestConfig) (Calibration, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Diagnostics(ctx, sortByDate(matches))
}

func sortByDate(matches []models.Match) []models.Match {
	sorted := make([]models.Match, len(matches))
	copy(sorted, matches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchDate.Before(sorted[j].MatchDate)
	})
	return sorted
}

// ToJSON encodes the result for the CLI and the backtest service
func (r *Result) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
