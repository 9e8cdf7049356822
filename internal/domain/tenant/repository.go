package tenant

import (
	"context"

	"github.com/google/uuid"
)

// Repository owns tenant records
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	Save(ctx context.Context, t *Tenant) error
	AllActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}

// SequenceAllocator atomically grants the next integer in a per-tenant,
// per-counter-name sequence. Two simultaneous calls for the same
// (tenant, name) must never return the same value; an absent counter is
// treated as starting at 0, so the first allocation returns 1.
type SequenceAllocator interface {
	Allocate(ctx context.Context, tenantID uuid.UUID, name string) (int64, error)
}

// CounterSync maintains the denormalized dashboard counters. Increment and
// decrement are atomic adds against the stored value; decrement clamps at
// zero (a decrement that would go negative is skipped and reported via the
// Clamped return). Both are invoked best-effort after entity writes: callers
// log errors and never fail the triggering operation on them.
type CounterSync interface {
	Increment(ctx context.Context, tenantID uuid.UUID, name string, delta int64) error
	// Decrement returns clamped=true when the write was skipped because the
	// stored value was already below delta.
	Decrement(ctx context.Context, tenantID uuid.UUID, name string, delta int64) (clamped bool, err error)
	// Set overwrites a counter with an absolute value; used by reconciliation.
	Set(ctx context.Context, tenantID uuid.UUID, name string, value int64) error
	// Get reads the current stored value (0 when absent).
	Get(ctx context.Context, tenantID uuid.UUID, name string) (int64, error)
	// GetAll reads every stored counter for the tenant.
	GetAll(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error)
}
