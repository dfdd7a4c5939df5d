package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/egg-stats/internal/metrics"
	"github.com/yourusername/egg-stats/internal/models"
)

// KeyPrefix namespaces every odds key in a shared redis.
const KeyPrefix = "egg-stats:odds:"

// RedisOptions configures the redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// RedisOddsCache stores odds events as JSON in redis so several processes share one quota.
type RedisOddsCache struct {
	client *redis.Client
}

// NewRedisOddsCache connects to redis and verifies the connection.
func NewRedisOddsCache(opts RedisOptions) (*RedisOddsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisOddsCache{client: client}, nil
}

// NewRedisOddsCacheFromClient wraps an existing client.
func NewRedisOddsCacheFromClient(client *redis.Client) *RedisOddsCache {
	return &RedisOddsCache{client: client}
}

// Get retrieves cached events for a sport key
func (rc *RedisOddsCache) Get(ctx context.Context, key string) ([]models.OddsEvent, bool, error) {
	raw, err := rc.client.Get(ctx, KeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var events []models.OddsEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, false, fmt.Errorf("decode cached odds %s: %w", key, err)
	}
	metrics.RecordCacheHit()
	return events, true, nil
}

// Set stores events with a TTL
func (rc *RedisOddsCache) Set(ctx context.Context, key string, events []models.OddsEvent, ttl time.Duration) error {
	raw, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("encode odds %s: %w", key, err)
	}
	if err := rc.client.Set(ctx, KeyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Expire drops a key
func (rc *RedisOddsCache) Expire(ctx context.Context, key string) error {
	if err := rc.client.Del(ctx, KeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks the redis connection
func (rc *RedisOddsCache) Ping(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}

// Close closes the redis client
func (rc *RedisOddsCache) Close() error {
	return rc.client.Close()
}
