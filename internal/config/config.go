// Package config provides configuration management for the Egg Stats application.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App          AppConfig          `mapstructure:"app" validate:"required"`
	Database     DatabaseConfig     `mapstructure:"database" validate:"required"`
	Model        ModelConfig        `mapstructure:"model"`
	Market       MarketConfig       `mapstructure:"market"`
	Backtest     BacktestConfig     `mapstructure:"backtest"`
	OddsAPI      OddsAPIConfig      `mapstructure:"odds_api" validate:"required"`
	FootballData FootballDataConfig `mapstructure:"football_data" validate:"required"`
	Cache        CacheConfig        `mapstructure:"cache"`
	Leagues      []LeagueConfig     `mapstructure:"leagues" validate:"required,min=1,dive"`
	Scanner      ScannerConfig      `mapstructure:"scanner"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Health       HealthConfig       `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MinConnections int    `mapstructure:"min_connections" validate:"gte=0"`
}

// ModelConfig holds rating model hyperparameters. Zero values mean "use the
// default", except InitialHomeAdvantage where only nil does.
type ModelConfig struct {
	Iterations           int      `mapstructure:"iterations" validate:"gte=0"`
	LearningRate         float64  `mapstructure:"learning_rate" validate:"gte=0"`
	L2                   float64  `mapstructure:"l2" validate:"gte=0"`
	HalfLifeDays         float64  `mapstructure:"half_life_days" validate:"gte=0"`
	Shrink               float64  `mapstructure:"shrink" validate:"gte=0,lte=1"`
	InitialHomeAdvantage *float64 `mapstructure:"initial_home_advantage"`
	Rho                  float64  `mapstructure:"rho" validate:"gte=-1,lte=1"`
}

// MarketConfig holds opportunity thresholds. A nil field inherits: the global
// section falls back to the defaults and a league section to the global one.
// A set field applies as given, zero included.
type MarketConfig struct {
	MinEdge      *float64 `mapstructure:"min_edge" validate:"omitempty,gte=0"`
	MinEV        *float64 `mapstructure:"min_ev" validate:"omitempty,gte=0"`
	MinOdd       *float64 `mapstructure:"min_odd" validate:"omitempty,gte=0"`
	MaxOdd       *float64 `mapstructure:"max_odd" validate:"omitempty,gte=0"`
	MaxOverround *float64 `mapstructure:"max_overround" validate:"omitempty,gte=0"`
}

// BacktestConfig represents walk-forward backtest configuration
type BacktestConfig struct {
	MinTrainSize     int     `mapstructure:"min_train_size" validate:"gte=0"`
	MinLeagueMatches int     `mapstructure:"min_league_matches" validate:"gte=0"`
	BaselineShrink   bool    `mapstructure:"baseline_shrink"`
	ShrinkAlpha      float64 `mapstructure:"shrink_alpha" validate:"gte=0,lte=1"`
	Stake            float64 `mapstructure:"stake" validate:"gte=0"`
	OutputPath       string  `mapstructure:"output_path"`
	MonteCarloRuns   int     `mapstructure:"monte_carlo_runs" validate:"gte=0"`
	ParallelLeagues  int     `mapstructure:"parallel_leagues" validate:"gte=0"`
}

// OddsAPIConfig configures The Odds API client
type OddsAPIConfig struct {
	BaseURL    string        `mapstructure:"base_url" validate:"required,url"`
	APIKey     string        `mapstructure:"api_key"`
	Regions    string        `mapstructure:"regions" validate:"required"`
	Markets    string        `mapstructure:"markets" validate:"required"`
	OddsFormat string        `mapstructure:"odds_format" validate:"required,oneof=decimal american"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit  float64       `mapstructure:"rate_limit" validate:"gt=0"`
	Burst      int           `mapstructure:"burst" validate:"gt=0"`
	UseMock    bool          `mapstructure:"use_mock"`
}

// FootballDataConfig configures the football-data.org client
type FootballDataConfig struct {
	BaseURL   string        `mapstructure:"base_url" validate:"required,url"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	RateLimit float64       `mapstructure:"rate_limit" validate:"gt=0"`
	Burst     int           `mapstructure:"burst" validate:"gt=0"`
	Seasons   []int         `mapstructure:"seasons"`
}

// CacheConfig selects the odds cache backend
type CacheConfig struct {
	Backend       string `mapstructure:"backend" validate:"omitempty,cachebackend"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" validate:"gte=0"`
}

// LeagueConfig maps a results-feed competition code to an odds-feed sport key
type LeagueConfig struct {
	Code       string       `mapstructure:"code" validate:"required"`
	SportKey   string       `mapstructure:"sport_key" validate:"required"`
	Enabled    bool         `mapstructure:"enabled"`
	MinMatches int          `mapstructure:"min_matches" validate:"gte=0"`
	Market     MarketConfig `mapstructure:"market"`
}

// ScannerConfig configures the opportunity scan
type ScannerConfig struct {
	TopN        int     `mapstructure:"top_n" validate:"gte=0"`
	Stake       float64 `mapstructure:"stake" validate:"gte=0"`
	Concurrency int     `mapstructure:"concurrency" validate:"gte=0"`
}

// SchedulerConfig holds cron specs for background jobs. Empty disables a job.
type SchedulerConfig struct {
	SnapshotCron string `mapstructure:"snapshot_cron" validate:"omitempty,cronspec"`
	SyncCron     string `mapstructure:"sync_cron" validate:"omitempty,cronspec"`
	SettleCron   string `mapstructure:"settle_cron" validate:"omitempty,cronspec"`
	ScanCron     string `mapstructure:"scan_cron" validate:"omitempty,cronspec"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// HealthConfig configures the health/metrics HTTP server
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LeagueMap returns competition code -> sport key for enabled leagues
func (c *Config) LeagueMap() map[string]string {
	out := make(map[string]string, len(c.Leagues))
	for _, l := range c.Leagues {
		if l.Enabled {
			out[l.Code] = l.SportKey
		}
	}
	return out
}

// League looks up an enabled league by competition code
func (c *Config) League(code string) (LeagueConfig, bool) {
	for _, l := range c.Leagues {
		if l.Code == code && l.Enabled {
			return l, true
		}
	}
	return LeagueConfig{}, false
}

// LeagueCodes returns enabled competition codes in configuration order
func (c *Config) LeagueCodes() []string {
	codes := make([]string, 0, len(c.Leagues))
	for _, l := range c.Leagues {
		if l.Enabled {
			codes = append(codes, l.Code)
		}
	}
	return codes
}

// DefaultLeagues returns the supported competitions and their odds-feed sport keys
func DefaultLeagues() []LeagueConfig {
	pairs := [][2]string{
		{"PL", "soccer_epl"},
		{"SA", "soccer_italy_serie_a"},
		{"PD", "soccer_spain_la_liga"},
		{"BL1", "soccer_germany_bundesliga"},
		{"FL1", "soccer_france_ligue_one"},
		{"BSA", "soccer_brazil_campeonato"},
		{"DED", "soccer_netherlands_eredivisie"},
		{"PPL", "soccer_portugal_primeira_liga"},
	}
	leagues := make([]LeagueConfig, 0, len(pairs))
	for _, p := range pairs {
		leagues = append(leagues, LeagueConfig{Code: p[0], SportKey: p[1], Enabled: true, MinMatches: 50})
	}
	return leagues
}
