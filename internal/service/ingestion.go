package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/datasource"
	"github.com/yourusername/egg-stats/internal/logger"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/repository"
)

// DefaultSeasons are ingested when no seasons are requested
var DefaultSeasons = []int{2022, 2023, 2024}

// IngestionService loads historical fixtures into the match store
type IngestionService struct {
	fixtures   datasource.FixtureSource
	matches    repository.MatchRepository
	validator  *DataValidator
	normalizer *DataNormalizer
	log        *logrus.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	fixtures datasource.FixtureSource,
	matches repository.MatchRepository,
	validator *DataValidator,
	normalizer *DataNormalizer,
	log *logrus.Logger,
) *IngestionService {
	if validator == nil {
		validator = NewDataValidator()
	}
	if normalizer == nil {
		normalizer = NewDataNormalizer(nil)
	}
	return &IngestionService{
		fixtures:   fixtures,
		matches:    matches,
		validator:  validator,
		normalizer: normalizer,
		log:        logger.OrDefault(log),
	}
}

// Ingest fetches every fixture of a league for the given seasons and upserts
// them. Invalid fixtures are counted and skipped; a storage failure aborts.
func (s *IngestionService) Ingest(ctx context.Context, league string, seasons []int) (*IngestionMetrics, error) {
	if len(seasons) == 0 {
		seasons = DefaultSeasons
	}
	m := NewIngestionMetrics(league)

	s.log.WithFields(logrus.Fields{
		"league":  league,
		"seasons": seasons,
	}).Info("Starting historical ingestion")

	fixtures, err := s.fixtures.HistoricalMatches(ctx, league, seasons)
	if err != nil {
		m.RecordError()
		m.Finish()
		return m, fmt.Errorf("failed to fetch %s fixtures: %w", league, err)
	}
	m.RecordFetched(len(fixtures))

	for i := range fixtures {
		if err := ctx.Err(); err != nil {
			m.Finish()
			return m, err
		}

		match := s.normalizer.NormalizeFixture(&fixtures[i], league)
		if problems := s.validator.ValidateMatch(&match); len(problems) > 0 {
			m.RecordValidationError()
			s.log.WithFields(logrus.Fields{
				"external_match_id": match.ExternalID,
				"problems":          problems,
			}).Debug("Skipping invalid fixture")
			continue
		}

		if err := s.matches.Upsert(ctx, &match); err != nil {
			m.RecordError()
			m.Finish()
			return m, fmt.Errorf("failed to store match %s: %w", match.ExternalID, err)
		}
		m.RecordStored(match.IsScored())
	}

	m.Finish()
	metrics.RecordMatchesIngested(league, m.Stored)
	s.log.Info(m.String())

	return m, nil
}
