package reconcile

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/infrastructure/telemetry"
)

// EntityCounter is the slice of a repository the reconciler needs: an exact
// row count for one tenant.
type EntityCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// Drift records a counter whose stored value disagreed with the recomputed one
type Drift struct {
	Counter  string `json:"counter"`
	Stored   int64  `json:"stored"`
	Actual   int64  `json:"actual"`
	Repaired bool   `json:"repaired"`
}

// Result summarizes one tenant's reconciliation run
type Result struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Checked  int       `json:"checked"`
	Drifts   []Drift   `json:"drifts"`
}

// Reconciler recomputes the denormalized dashboard counters from the entity
// tables and repairs any stored value that drifted. Counter updates are
// best-effort and can fall behind after crashes or clamped decrements; this
// is the mechanism that restores them to truth.
type Reconciler struct {
	tenants  tenant.Repository
	counters tenant.CounterSync
	sources  map[string]EntityCounter
	metrics  *telemetry.BusinessMetrics
	log      *zap.Logger
}

// NewReconciler creates a new Reconciler. Counter sources are registered
// afterwards with Register.
func NewReconciler(tenants tenant.Repository, counters tenant.CounterSync, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		tenants:  tenants,
		counters: counters,
		sources:  make(map[string]EntityCounter),
		log:      log,
	}
}

// Register binds a counter name to the repository that holds its entities
func (r *Reconciler) Register(counterName string, source EntityCounter) {
	r.sources[counterName] = source
}

// SetMetrics attaches the business metric instruments
func (r *Reconciler) SetMetrics(metrics *telemetry.BusinessMetrics) {
	r.metrics = metrics
}

// Recompute counts the actual entities behind every registered counter
func (r *Reconciler) Recompute(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	actual := make(map[string]int64, len(r.sources))
	for name, source := range r.sources {
		count, err := source.CountForTenant(ctx, tenantID, shared.Filter{})
		if err != nil {
			return nil, err
		}
		actual[name] = count
	}
	return actual, nil
}

// Reconcile compares stored counters against recomputed truth for one tenant
// and overwrites any that drifted.
func (r *Reconciler) Reconcile(ctx context.Context, tenantID uuid.UUID) (*Result, error) {
	actual, err := r.Recompute(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	stored, err := r.counters.GetAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &Result{TenantID: tenantID, Checked: len(actual)}
	for _, name := range sortedNames(actual) {
		want := actual[name]
		got := stored[name]
		if got == want {
			continue
		}
		drift := Drift{Counter: name, Stored: got, Actual: want}
		if err := r.counters.Set(ctx, tenantID, name, want); err != nil {
			r.log.Error("failed to repair drifted counter",
				zap.String("tenant_id", tenantID.String()),
				zap.String("counter", name),
				zap.Int64("stored", got),
				zap.Int64("actual", want),
				zap.Error(err))
		} else {
			drift.Repaired = true
			r.metrics.CounterDriftRepaired(ctx, name)
			r.log.Warn("repaired drifted counter",
				zap.String("tenant_id", tenantID.String()),
				zap.String("counter", name),
				zap.Int64("stored", got),
				zap.Int64("actual", want))
		}
		result.Drifts = append(result.Drifts, drift)
	}
	return result, nil
}

// ReconcileAll runs reconciliation for every active tenant. A failing tenant
// is logged and skipped so one bad tenant cannot stall the sweep.
func (r *Reconciler) ReconcileAll(ctx context.Context) ([]Result, error) {
	ids, err := r.tenants.AllActiveIDs(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		result, err := r.Reconcile(ctx, id)
		if err != nil {
			r.log.Error("tenant reconciliation failed",
				zap.String("tenant_id", id.String()),
				zap.Error(err))
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}

func sortedNames(m map[string]int64) []string {
	names := lo.Keys(m)
	sort.Strings(names)
	return names
}
