package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/models"
)

const footballDataSource = "football_data"

// HeaderAuthToken carries the football-data.org API key
const HeaderAuthToken = "X-Auth-Token"

// FootballDataClient reads fixtures and results from football-data.org v4
type FootballDataClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Entry
}

type matchesResponse struct {
	Matches []models.Fixture `json:"matches"`
}

// NewFootballDataClient creates a new results feed client
func NewFootballDataClient(cfg config.FootballDataConfig, logger *logrus.Logger) *FootballDataClient {
	if logger == nil {
		logger = logrus.New()
	}
	entry := logger.WithField("component", footballDataSource)

	httpCfg := DefaultHTTPClientConfig()
	httpCfg.RetryOnRateLimit = true
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	if cfg.Burst > 0 {
		httpCfg.Burst = cfg.Burst
	}

	return &FootballDataClient{
		httpClient: NewRateLimitedHTTPClient(httpCfg, entry),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		logger:     entry,
	}
}

// UpcomingMatches returns scheduled fixtures for each competition code.
// A failing competition is logged and skipped.
func (c *FootballDataClient) UpcomingMatches(ctx context.Context, codes []string) ([]models.Fixture, error) {
	var all []models.Fixture
	var lastErr error
	for _, code := range codes {
		q := url.Values{"status": {"SCHEDULED"}}
		fixtures, err := c.getMatches(ctx, "/competitions/"+url.PathEscape(code)+"/matches", q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WithError(err).WithField("league", code).Warn("Failed to fetch upcoming matches")
			lastErr = err
			continue
		}
		all = append(all, tagCompetition(fixtures, code)...)
	}
	if len(all) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return all, nil
}

// RecentFinishedMatches returns recently finished fixtures across all subscribed competitions
func (c *FootballDataClient) RecentFinishedMatches(ctx context.Context) ([]models.Fixture, error) {
	return c.getMatches(ctx, "/matches", url.Values{"status": {"FINISHED"}})
}

// HistoricalMatches returns all fixtures of a competition for the given seasons
func (c *FootballDataClient) HistoricalMatches(ctx context.Context, code string, seasons []int) ([]models.Fixture, error) {
	var all []models.Fixture
	for _, season := range seasons {
		q := url.Values{"season": {strconv.Itoa(season)}}
		fixtures, err := c.getMatches(ctx, "/competitions/"+url.PathEscape(code)+"/matches", q)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", season, err)
		}
		c.logger.WithFields(logrus.Fields{
			"league":  code,
			"season":  season,
			"matches": len(fixtures),
		}).Info("Historical matches fetched")
		all = append(all, tagCompetition(fixtures, code)...)
	}
	return all, nil
}

func (c *FootballDataClient) getMatches(ctx context.Context, path string, q url.Values) ([]models.Fixture, error) {
	endpoint := c.baseURL + path
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	header := http.Header{}
	header.Set(HeaderAuthToken, c.apiKey)
	header.Set("Accept", "application/json")

	resp, err := c.httpClient.Get(ctx, endpoint, header)
	if err != nil {
		return nil, NewDataSourceError(footballDataSource, ErrCodeNetwork, "failed to fetch "+path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, NewDataSourceError(footballDataSource, ErrCodeRateLimited, "rate limit exceeded", nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, NewDataSourceError(footballDataSource, ErrCodeUnauthorized, "invalid API token", nil)
	case resp.StatusCode == http.StatusNotFound:
		return nil, NewDataSourceError(footballDataSource, ErrCodeNotFound, path+" not found", nil)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(footballDataSource, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload matchesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewDataSourceError(footballDataSource, ErrCodeInvalidResponse, "failed to parse response", err)
	}
	return payload.Matches, nil
}

// tagCompetition fills the competition code when the payload omits it
func tagCompetition(fixtures []models.Fixture, code string) []models.Fixture {
	for i := range fixtures {
		if fixtures[i].Competition.Code == "" {
			fixtures[i].Competition.Code = code
		}
	}
	return fixtures
}

// Close releases idle connections
func (c *FootballDataClient) Close() error {
	return c.httpClient.Close()
}
