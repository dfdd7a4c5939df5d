// Package config provides configuration management for the Egg Stats application.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "EGG_STATS"

// DefaultConfigPath is used when no path is given
const DefaultConfigPath = "config/config.yaml"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error: defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "egg-stats")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "egg_stats")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 1)

	v.SetDefault("model.iterations", 300)
	v.SetDefault("model.learning_rate", 0.001)
	v.SetDefault("model.l2", 0.001)
	v.SetDefault("model.half_life_days", 400)
	v.SetDefault("model.shrink", 0.65)
	v.SetDefault("model.initial_home_advantage", 0.10)
	v.SetDefault("model.rho", 0)

	v.SetDefault("market.min_edge", 0.02)
	v.SetDefault("market.min_ev", 0.01)
	v.SetDefault("market.min_odd", 1.30)
	v.SetDefault("market.max_odd", 8.00)
	v.SetDefault("market.max_overround", 1.10)

	v.SetDefault("backtest.min_train_size", 100)
	v.SetDefault("backtest.min_league_matches", 150)
	v.SetDefault("backtest.shrink_alpha", 0.88)
	v.SetDefault("backtest.stake", 1)
	v.SetDefault("backtest.output_path", "./output/backtest.json")
	v.SetDefault("backtest.monte_carlo_runs", 1000)
	v.SetDefault("backtest.parallel_leagues", 4)

	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com/v4")
	v.SetDefault("odds_api.regions", "eu")
	v.SetDefault("odds_api.markets", "h2h")
	v.SetDefault("odds_api.odds_format", "decimal")
	v.SetDefault("odds_api.cache_ttl", "10m")
	v.SetDefault("odds_api.timeout", "15s")
	v.SetDefault("odds_api.rate_limit", 1.0)
	v.SetDefault("odds_api.burst", 2)

	v.SetDefault("football_data.base_url", "https://api.football-data.org/v4")
	v.SetDefault("football_data.timeout", "15s")
	v.SetDefault("football_data.rate_limit", 0.15)
	v.SetDefault("football_data.burst", 1)
	v.SetDefault("football_data.seasons", []int{2022, 2023, 2024})

	v.SetDefault("cache.backend", "memory")

	leagues := make([]map[string]interface{}, 0)
	for _, l := range DefaultLeagues() {
		leagues = append(leagues, map[string]interface{}{
			"code":        l.Code,
			"sport_key":   l.SportKey,
			"enabled":     l.Enabled,
			"min_matches": l.MinMatches,
		})
	}
	v.SetDefault("leagues", leagues)

	v.SetDefault("scanner.top_n", 20)
	v.SetDefault("scanner.stake", 1)
	v.SetDefault("scanner.concurrency", 4)

	v.SetDefault("scheduler.snapshot_cron", "0 */6 * * *")
	v.SetDefault("scheduler.sync_cron", "30 * * * *")
	v.SetDefault("scheduler.settle_cron", "45 * * * *")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", 8080)
}
