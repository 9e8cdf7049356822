package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/infrastructure/config"
)

// RedisReadCache caches serialized dashboard read models in Redis. It is
// suitable for distributed deployments where several instances share the
// cache; invalidation reaches all of them.
type RedisReadCache struct {
	client *redis.Client
	log    *zap.Logger
}

// NewRedisReadCache connects to Redis and returns a read cache
func NewRedisReadCache(cfg config.RedisConfig, log *zap.Logger) (*RedisReadCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReadCacheWithClient(client, log), nil
}

// NewRedisReadCacheWithClient wraps an existing Redis client. Useful for
// tests or when sharing a client across components.
func NewRedisReadCacheWithClient(client *redis.Client, log *zap.Logger) *RedisReadCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisReadCache{client: client, log: log}
}

// Get reads a cached value. Errors are treated as misses so a Redis outage
// degrades to uncached reads instead of failing requests.
func (c *RedisReadCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return raw, true
}

// Set stores a value with the given TTL, best-effort
func (c *RedisReadCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.log.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}

// InvalidateTenant removes every cached read model for the tenant. Uses SCAN
// rather than KEYS so invalidation does not block the server.
func (c *RedisReadCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("stats:%s:*", tenantID)
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (c *RedisReadCache) Close() error {
	return c.client.Close()
}
