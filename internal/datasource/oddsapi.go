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
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/egg-stats/internal/cache"
	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
)

const oddsAPISource = "odds_api"

// Quota headers reported by The Odds API
const (
	HeaderRequestsRemaining = "x-requests-remaining"
	HeaderRequestsUsed      = "x-requests-used"
)

// OddsAPIClient fetches h2h odds from The Odds API v4
type OddsAPIClient struct {
	httpClient *RateLimitedHTTPClient
	cfg        config.OddsAPIConfig
	cache      cache.OddsCache
	logger     *logrus.Entry
}

// NewOddsAPIClient creates a new odds feed client. A nil cache disables caching.
func NewOddsAPIClient(cfg config.OddsAPIConfig, oddsCache cache.OddsCache, logger *logrus.Logger) *OddsAPIClient {
	if logger == nil {
		logger = logrus.New()
	}
	entry := logger.WithField("component", oddsAPISource)

	httpCfg := DefaultHTTPClientConfig()
	if cfg.Timeout > 0 {
		httpCfg.Timeout = cfg.Timeout
	}
	if cfg.RateLimit > 0 {
		httpCfg.RateLimit = cfg.RateLimit
	}
	if cfg.Burst > 0 {
		httpCfg.Burst = cfg.Burst
	}

	return &OddsAPIClient{
		httpClient: NewRateLimitedHTTPClient(httpCfg, entry),
		cfg:        cfg,
		cache:      oddsCache,
		logger:     entry,
	}
}

// FetchOdds returns the odds events for a sport key, served from cache when fresh
func (c *OddsAPIClient) FetchOdds(ctx context.Context, sportKey string) ([]models.OddsEvent, error) {
	if c.cfg.UseMock {
		c.logger.WithField("sport_key", sportKey).Warn("Mock odds enabled")
		metrics.RecordOddsAPIRequest(sportKey, "mock")
		return GenerateMockEvents(sportKey), nil
	}

	if c.cfg.APIKey == "" {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeUnauthorized, "api key is not configured", nil)
	}

	if c.cache != nil {
		events, found, err := c.cache.Get(ctx, sportKey)
		if err != nil {
			c.logger.WithError(err).WithField("sport_key", sportKey).Warn("Odds cache read failed")
		} else if found {
			c.logger.WithField("sport_key", sportKey).Debug("Odds cache hit")
			return events, nil
		}
	}

	events, err := c.fetch(ctx, sportKey)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, sportKey, events, c.cacheTTL()); err != nil {
			c.logger.WithError(err).WithField("sport_key", sportKey).Warn("Odds cache write failed")
		}
	}

	c.logger.WithFields(logrus.Fields{
		"sport_key": sportKey,
		"events":    len(events),
	}).Info("Odds fetched")
	return events, nil
}

func (c *OddsAPIClient) fetch(ctx context.Context, sportKey string) ([]models.OddsEvent, error) {
	resp, err := c.httpClient.Get(ctx, c.oddsURL(sportKey), nil)
	if err != nil {
		metrics.RecordOddsAPIRequest(sportKey, "error")
		return nil, NewDataSourceError(oddsAPISource, ErrCodeNetwork, "failed to fetch odds for "+sportKey, err)
	}
	defer resp.Body.Close()

	remaining := c.recordQuota(resp.Header)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.RecordOddsAPIRequest(sportKey, "rate_limited")
		if remaining == "" {
			remaining = "?"
		}
		return nil, NewDataSourceError(oddsAPISource, ErrCodeRateLimited,
			fmt.Sprintf("rate limit reached for %s, remaining: %s", sportKey, remaining), nil)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		metrics.RecordOddsAPIRequest(sportKey, "error")
		return nil, NewDataSourceError(oddsAPISource, ErrCodeUnauthorized, "invalid API key", nil)
	case resp.StatusCode == http.StatusNotFound:
		metrics.RecordOddsAPIRequest(sportKey, "error")
		return nil, NewDataSourceError(oddsAPISource, ErrCodeNotFound, "unknown sport key "+sportKey, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		metrics.RecordOddsAPIRequest(sportKey, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, NewDataSourceError(oddsAPISource, ErrCodeServerError,
			strings.TrimSpace(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body))), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordOddsAPIRequest(sportKey, "error")
		return nil, NewDataSourceError(oddsAPISource, ErrCodeNetwork, "failed to read response", err)
	}
	metrics.RecordOddsAPIRequest(sportKey, "success")

	return decodeOddsEvents(body)
}

// decodeOddsEvents accepts a JSON array of events; any other JSON document yields an empty list
func decodeOddsEvents(body []byte) ([]models.OddsEvent, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeInvalidResponse, "failed to parse response", err)
	}
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "[") {
		return []models.OddsEvent{}, nil
	}

	var events []models.OddsEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, NewDataSourceError(oddsAPISource, ErrCodeInvalidResponse, "failed to parse events", err)
	}
	if events == nil {
		events = []models.OddsEvent{}
	}
	return events, nil
}

func (c *OddsAPIClient) recordQuota(h http.Header) string {
	remaining := h.Get(HeaderRequestsRemaining)
	if remaining == "" {
		return ""
	}
	c.logger.WithFields(logrus.Fields{
		"requests_used":      h.Get(HeaderRequestsUsed),
		"requests_remaining": remaining,
	}).Info("Odds API quota")
	if v, err := strconv.ParseFloat(remaining, 64); err == nil {
		metrics.UpdateOddsAPIQuota(v)
	}
	return remaining
}

func (c *OddsAPIClient) oddsURL(sportKey string) string {
	q := url.Values{}
	q.Set("apiKey", c.cfg.APIKey)
	q.Set("regions", orDefault(c.cfg.Regions, "eu"))
	q.Set("markets", orDefault(c.cfg.Markets, models.MarketKeyH2H))
	q.Set("oddsFormat", orDefault(c.cfg.OddsFormat, "decimal"))
	return fmt.Sprintf("%s/sports/%s/odds/?%s", strings.TrimRight(c.cfg.BaseURL, "/"), url.PathEscape(sportKey), q.Encode())
}

func (c *OddsAPIClient) cacheTTL() time.Duration {
	if c.cfg.CacheTTL > 0 {
		return c.cfg.CacheTTL
	}
	return 10 * time.Minute
}

// Close releases idle connections
func (c *OddsAPIClient) Close() error {
	return c.httpClient.Close()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
