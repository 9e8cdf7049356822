package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// MemoryReadCache is an in-process read cache for single-instance
// deployments and tests. Entries expire on their own TTL.
type MemoryReadCache struct {
	store *gocache.Cache
}

// NewMemoryReadCache creates an in-memory read cache
func NewMemoryReadCache() *MemoryReadCache {
	return &MemoryReadCache{
		store: gocache.New(gocache.NoExpiration, time.Minute),
	}
}

// Get reads a cached value
func (c *MemoryReadCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, found := c.store.Get(key)
	if !found {
		return nil, false
	}
	raw, ok := value.([]byte)
	return raw, ok
}

// Set stores a value with the given TTL
func (c *MemoryReadCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// InvalidateTenant removes every cached read model for the tenant
func (c *MemoryReadCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	prefix := fmt.Sprintf("stats:%s:", tenantID)
	for key := range c.store.Items() {
		if strings.HasPrefix(key, prefix) {
			c.store.Delete(key)
		}
	}
	return nil
}
