package cache

import (
	"context"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
)

// MemoryOddsCache is a process-local odds cache
type MemoryOddsCache struct {
	cache     *gocache.Cache
	ttl       time.Duration
	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewMemoryOddsCache creates a new in-memory odds cache
func NewMemoryOddsCache(ttl time.Duration) *MemoryOddsCache {
	return &MemoryOddsCache{
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// Get retrieves cached events for a sport key
func (mc *MemoryOddsCache) Get(_ context.Context, key string) ([]models.OddsEvent, bool, error) {
	if v, found := mc.cache.Get(key); found {
		if events, ok := v.([]models.OddsEvent); ok {
			mc.hitCount.Add(1)
			metrics.RecordCacheHit()
			return copyEvents(events), true, nil
		}
	}

	mc.missCount.Add(1)
	metrics.RecordCacheMiss()
	return nil, false, nil
}

// Set stores events; a non-positive ttl uses the cache default
func (mc *MemoryOddsCache) Set(_ context.Context, key string, events []models.OddsEvent, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = mc.ttl
	}
	mc.cache.Set(key, copyEvents(events), ttl)
	return nil
}

// Expire drops a key
func (mc *MemoryOddsCache) Expire(_ context.Context, key string) error {
	mc.cache.Delete(key)
	return nil
}

// Clear removes all entries
func (mc *MemoryOddsCache) Clear() {
	mc.cache.Flush()
}

// Stats returns cache statistics
func (mc *MemoryOddsCache) Stats() Stats {
	hits, misses := mc.hitCount.Load(), mc.missCount.Load()
	return Stats{Hits: hits, Misses: misses, HitRate: hitRate(hits, misses)}
}

func copyEvents(events []models.OddsEvent) []models.OddsEvent {
	if events == nil {
		return nil
	}
	out := make([]models.OddsEvent, len(events))
	copy(out, events)
	return out
}
