package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReadCache_SetAndGet(t *testing.T) {
	c := NewMemoryReadCache()
	ctx := context.Background()

	_, found := c.Get(ctx, "missing")
	assert.False(t, found)

	c.Set(ctx, "key", []byte(`{"a":1}`), time.Minute)
	raw, found := c.Get(ctx, "key")
	require.True(t, found)
	assert.Equal(t, []byte(`{"a":1}`), raw)
}

func TestMemoryReadCache_Expiry(t *testing.T) {
	c := NewMemoryReadCache()
	ctx := context.Background()

	c.Set(ctx, "short", []byte("v"), time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, found := c.Get(ctx, "short")
	assert.False(t, found)
}

func TestMemoryReadCache_InvalidateTenant(t *testing.T) {
	c := NewMemoryReadCache()
	ctx := context.Background()
	tenantA := uuid.New()
	tenantB := uuid.New()

	c.Set(ctx, fmt.Sprintf("stats:%s:aaaa", tenantA), []byte("a"), time.Minute)
	c.Set(ctx, fmt.Sprintf("stats:%s:bbbb", tenantA), []byte("b"), time.Minute)
	c.Set(ctx, fmt.Sprintf("stats:%s:cccc", tenantB), []byte("c"), time.Minute)

	require.NoError(t, c.InvalidateTenant(ctx, tenantA))

	_, found := c.Get(ctx, fmt.Sprintf("stats:%s:aaaa", tenantA))
	assert.False(t, found)
	_, found = c.Get(ctx, fmt.Sprintf("stats:%s:bbbb", tenantA))
	assert.False(t, found)

	_, found = c.Get(ctx, fmt.Sprintf("stats:%s:cccc", tenantB))
	assert.True(t, found, "other tenants keep their entries")
}
