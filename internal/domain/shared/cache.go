package shared

import (
	"context"

	"github.com/google/uuid"
)

// CacheInvalidator drops cached read models after a successful write. Cached
// aggregates are tenant-scoped, so invalidation clears the tenant's whole key
// namespace. Failures are best-effort: callers log and continue.
type CacheInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error
}

// NopInvalidator is a CacheInvalidator that does nothing
type NopInvalidator struct{}

// InvalidateTenant implements CacheInvalidator
func (NopInvalidator) InvalidateTenant(context.Context, uuid.UUID) error { return nil }
