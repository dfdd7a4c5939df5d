package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/backtest"
	"github.com/yourusername/egg-stats/internal/models"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02", "02/01/2006"}

// readResultsCSV parses finished matches and their optional closing 1X2 odds.
// A header row starting with "date" is skipped. Matches come back in date order.
// A malformed quote drops only the quote: the match is kept and a warning logged.
func readResultsCSV(r io.Reader, league string, log logrus.FieldLogger) ([]models.Match, backtest.OddsByMatch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var matches []models.Match
	odds := make(backtest.OddsByMatch)

	for line := 1; ; line++ {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "date") {
			continue
		}
		if len(rec) != 5 && len(rec) != 8 {
			return nil, nil, fmt.Errorf("line %d: expected 5 or 8 fields, got %d", line, len(rec))
		}

		m, err := parseMatch(rec, league, line)
		if err != nil {
			return nil, nil, err
		}
		matches = append(matches, m)

		if len(rec) == 8 && !blank(rec[5:]) {
			quote, err := parseOdds(rec[5:])
			if err != nil {
				log.WithFields(logrus.Fields{"line": line, "error": err.Error()}).Warn("Skipping quote")
				continue
			}
			odds[m.ExternalID] = quote
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchDate.Before(matches[j].MatchDate)
	})
	return matches, odds, nil
}

func parseMatch(rec []string, league string, line int) (models.Match, error) {
	date, err := parseDate(rec[0])
	if err != nil {
		return models.Match{}, fmt.Errorf("line %d: %w", line, err)
	}
	home, away := strings.TrimSpace(rec[1]), strings.TrimSpace(rec[2])
	if home == "" || away == "" {
		return models.Match{}, fmt.Errorf("line %d: team name is empty", line)
	}

	hg, err := strconv.Atoi(strings.TrimSpace(rec[3]))
	if err != nil {
		return models.Match{}, fmt.Errorf("line %d: home goals: %w", line, err)
	}
	ag, err := strconv.Atoi(strings.TrimSpace(rec[4]))
	if err != nil {
		return models.Match{}, fmt.Errorf("line %d: away goals: %w", line, err)
	}
	if hg < 0 || ag < 0 {
		return models.Match{}, fmt.Errorf("line %d: goals cannot be negative", line)
	}

	return models.Match{
		ExternalID: fmt.Sprintf("row-%d", line),
		League:     league,
		HomeTeam:   home,
		AwayTeam:   away,
		HomeGoals:  &hg,
		AwayGoals:  &ag,
		MatchDate:  date,
		Status:     models.MatchStatusFinished,
	}, nil
}

func parseOdds(fields []string) (models.BestOdds, error) {
	var prices [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return models.BestOdds{}, fmt.Errorf("odds: %w", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 1 {
			return models.BestOdds{}, fmt.Errorf("odds must be finite and greater than 1, got %v", v)
		}
		prices[i] = v
	}
	return models.BestOdds{Home: prices[0], Draw: prices[1], Away: prices[2]}, nil
}

func blank(fields []string) bool {
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}
