package datasource

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/egg-stats/internal/cache"
	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/models"
)

const oddsPayload = `[
  {
    "id": "e1",
    "sport_key": "soccer_epl",
    "commence_time": "2024-05-19T15:00:00Z",
    "home_team": "Arsenal",
    "away_team": "Everton",
    "bookmakers": [
      {"key": "pinnacle", "title": "Pinnacle", "markets": [
        {"key": "h2h", "outcomes": [
          {"name": "Arsenal", "price": 1.25},
          {"name": "Everton", "price": 12.0},
          {"name": "Draw", "price": 6.5}
        ]}
      ]}
    ]
  }
]`

func testOddsConfig(baseURL string) config.OddsAPIConfig {
	return config.OddsAPIConfig{
		BaseURL:    baseURL,
		APIKey:     "secret",
		Regions:    "eu",
		Markets:    "h2h",
		OddsFormat: "decimal",
		CacheTTL:   time.Minute,
		Timeout:    5 * time.Second,
		RateLimit:  100,
		Burst:      10,
	}
}

func TestOddsAPIClientFetchOdds(t *testing.T) {
	var gotPath, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set(HeaderRequestsRemaining, "499")
		w.Header().Set(HeaderRequestsUsed, "1")
		w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	client := NewOddsAPIClient(testOddsConfig(server.URL), nil, nil)
	events, err := client.FetchOdds(context.Background(), "soccer_epl")
	require.NoError(t, err)

	assert.Equal(t, "/sports/soccer_epl/odds/", gotPath)
	assert.Contains(t, gotQuery, "apiKey=secret")
	assert.Contains(t, gotQuery, "regions=eu")
	assert.Contains(t, gotQuery, "markets=h2h")
	assert.Contains(t, gotQuery, "oddsFormat=decimal")

	require.Len(t, events, 1)
	assert.Equal(t, "Everton", events[0].AwayTeam)
	require.NotNil(t, events[0].CommenceTime)
	assert.Equal(t, 12.0, events[0].Bookmakers[0].Markets[0].Outcomes[1].Price)
}

func TestOddsAPIClientUsesCache(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	oddsCache := cache.NewMemoryOddsCache(time.Minute)
	client := NewOddsAPIClient(testOddsConfig(server.URL), oddsCache, nil)

	for i := 0; i < 3; i++ {
		events, err := client.FetchOdds(context.Background(), "soccer_epl")
		require.NoError(t, err)
		require.Len(t, events, 1)
	}
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, oddsCache.Expire(context.Background(), "soccer_epl"))
	_, err := client.FetchOdds(context.Background(), "soccer_epl")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOddsAPIClientStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{"rate limited", http.StatusTooManyRequests, ErrCodeRateLimited},
		{"unauthorized", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"unknown sport", http.StatusNotFound, ErrCodeNotFound},
		{"bad request", http.StatusUnprocessableEntity, ErrCodeServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.Header().Set(HeaderRequestsRemaining, "0")
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewOddsAPIClient(testOddsConfig(server.URL), nil, nil)
			_, err := client.FetchOdds(context.Background(), "soccer_epl")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ErrorCode(err))
			assert.Equal(t, int32(1), calls.Load(), "quota errors must not be retried")
		})
	}
}

func TestOddsAPIClientNonArrayBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"no events"}`))
	}))
	defer server.Close()

	client := NewOddsAPIClient(testOddsConfig(server.URL), nil, nil)
	events, err := client.FetchOdds(context.Background(), "soccer_epl")
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
}

func TestOddsAPIClientMissingKey(t *testing.T) {
	cfg := testOddsConfig("http://127.0.0.1:1")
	cfg.APIKey = ""

	_, err := NewOddsAPIClient(cfg, nil, nil).FetchOdds(context.Background(), "soccer_epl")
	assert.Equal(t, ErrCodeUnauthorized, ErrorCode(err))
}

func TestOddsAPIClientMock(t *testing.T) {
	cfg := testOddsConfig("http://127.0.0.1:1")
	cfg.UseMock = true
	client := NewOddsAPIClient(cfg, nil, nil)

	first, err := client.FetchOdds(context.Background(), "soccer_italy_serie_a")
	require.NoError(t, err)
	second, err := client.FetchOdds(context.Background(), "soccer_italy_serie_a")
	require.NoError(t, err)

	require.Len(t, first, 4)
	assert.Equal(t, first, second)

	none, err := client.FetchOdds(context.Background(), "soccer_unknown")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGenerateMockEventsPriceBands(t *testing.T) {
	for _, ev := range GenerateMockEvents("soccer_epl") {
		outcomes := ev.Bookmakers[0].Markets[0].Outcomes
		require.Len(t, outcomes, 3)
		prices := map[string]float64{}
		for _, o := range outcomes {
			prices[o.Name] = o.Price
			assert.Greater(t, o.Price, 1.0)
		}

		if ev.HomeTeam == "Arsenal" {
			// favourite at home against a non-favourite
			assert.GreaterOrEqual(t, prices["Arsenal"], 1.55)
			assert.LessOrEqual(t, prices["Arsenal"], 1.85)
			assert.GreaterOrEqual(t, prices["Chelsea"], 4.8)
		}
		assert.Contains(t, prices, models.DrawOutcomeName)
	}
}

func TestFootballDataClientUpcoming(t *testing.T) {
	var gotToken string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get(HeaderAuthToken)
		assert.Equal(t, "SCHEDULED", r.URL.Query().Get("status"))

		var fixtures []models.Fixture
		switch r.URL.Path {
		case "/competitions/PL/matches":
			fixtures = []models.Fixture{{ID: 1, HomeTeam: models.FixtureTeam{Name: "Arsenal FC"}, AwayTeam: models.FixtureTeam{Name: "Everton FC"}}}
		case "/competitions/SA/matches":
			fixtures = []models.Fixture{{ID: 2, Competition: models.FixtureCompetition{ID: 2019, Code: "SA"}}}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"matches": fixtures})
	}))
	defer server.Close()

	client := NewFootballDataClient(config.FootballDataConfig{
		BaseURL: server.URL, APIKey: "token", Timeout: 5 * time.Second, RateLimit: 100, Burst: 10,
	}, nil)

	fixtures, err := client.UpcomingMatches(context.Background(), []string{"PL", "SA", "XX"})
	require.NoError(t, err)
	require.Len(t, fixtures, 2)
	assert.Equal(t, "token", gotToken)
	assert.Equal(t, "PL", fixtures[0].Competition.Code, "code is filled when the payload omits it")
	assert.Equal(t, "SA", fixtures[1].Competition.Code)
}

func TestFootballDataClientHistorical(t *testing.T) {
	var seasons []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seasons = append(seasons, r.URL.Query().Get("season"))
		w.Write([]byte(`{"matches":[{"id":10,"utcDate":"2023-08-12T14:00:00Z","season":{"startDate":"2023-08-11"},
			"homeTeam":{"name":"A"},"awayTeam":{"name":"B"},"score":{"fullTime":{"home":1,"away":0}}}]}`))
	}))
	defer server.Close()

	client := NewFootballDataClient(config.FootballDataConfig{
		BaseURL: server.URL, Timeout: 5 * time.Second, RateLimit: 100, Burst: 10,
	}, nil)

	fixtures, err := client.HistoricalMatches(context.Background(), "PL", []int{2022, 2023})
	require.NoError(t, err)
	assert.Equal(t, []string{"2022", "2023"}, seasons)
	require.Len(t, fixtures, 2)
	assert.True(t, fixtures[0].HasFullTimeScore())
}

func TestFootballDataClientUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewFootballDataClient(config.FootballDataConfig{
		BaseURL: server.URL, Timeout: 5 * time.Second, RateLimit: 100, Burst: 10,
	}, nil)

	_, err := client.RecentFinishedMatches(context.Background())
	assert.Equal(t, ErrCodeUnauthorized, ErrorCode(err))
}

func TestCircuitBreakerOpensAfterFailures(t *testing.T) {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 100
	cfg.CircuitBreakerMax = 2
	cfg.CircuitCooldown = time.Hour
	client := NewRateLimitedHTTPClient(cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := client.Get(context.Background(), "http://127.0.0.1:1/unreachable", nil)
		require.Error(t, err)
	}
	assert.True(t, client.IsOpen())

	_, err := client.Get(context.Background(), "http://127.0.0.1:1/unreachable", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()
	noRetry429 := customRetryPolicy(false)
	retry429 := customRetryPolicy(true)

	tooMany := &http.Response{StatusCode: http.StatusTooManyRequests}
	retry, _ := noRetry429(ctx, tooMany, nil)
	assert.False(t, retry)
	retry, _ = retry429(ctx, tooMany, nil)
	assert.True(t, retry)

	retry, _ = noRetry429(ctx, &http.Response{StatusCode: http.StatusBadGateway}, nil)
	assert.True(t, retry)
	retry, _ = noRetry429(ctx, &http.Response{StatusCode: http.StatusBadRequest}, nil)
	assert.False(t, retry)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	retry, err := noRetry429(cancelled, nil, assert.AnError)
	assert.False(t, retry)
	assert.Error(t, err)
}
