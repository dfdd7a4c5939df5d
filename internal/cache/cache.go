// Package cache provides short-lived storage for odds feed responses.
package cache

import (
	"context"
	"time"

	"github.com/yourusername/egg-stats/internal/config"
	"github.com/yourusername/egg-stats/internal/models"
)

// OddsCache stores odds events by sport key.
type OddsCache interface {
	Get(ctx context.Context, key string) ([]models.OddsEvent, bool, error)
	Set(ctx context.Context, key string, events []models.OddsEvent, ttl time.Duration) error
	Expire(ctx context.Context, key string) error
}

// Stats reports lookup counters for a cache.
type Stats struct {
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// New builds the cache backend selected in cfg. The caller owns Close on redis caches.
func New(cfg config.CacheConfig, defaultTTL time.Duration) (OddsCache, error) {
	if cfg.Backend == "redis" {
		return NewRedisOddsCache(RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
	}
	return NewMemoryOddsCache(defaultTTL), nil
}

func hitRate(hits, misses uint64) float64 {
	total := hits + misses
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}
