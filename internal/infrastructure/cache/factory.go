package cache

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/infrastructure/config"
)

// ReadCache is what the cache backends implement: the dashboard read cache
// plus tenant-wide invalidation.
type ReadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// NewReadCache selects a cache backend from configuration. Redis when
// enabled and reachable, in-memory otherwise.
func NewReadCache(cfg config.RedisConfig, log *zap.Logger) ReadCache {
	if !cfg.Enabled {
		log.Info("redis disabled, using in-memory read cache")
		return NewMemoryReadCache()
	}

	redisCache, err := NewRedisReadCache(cfg, log)
	if err != nil {
		log.Warn("redis unavailable, falling back to in-memory read cache", zap.Error(err))
		return NewMemoryReadCache()
	}
	log.Info("using redis read cache", zap.String("addr", cfg.Addr()))
	return redisCache
}
