package effects

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
	"github.com/fieldledger/backend/internal/infrastructure/telemetry"
)

// Event describes the side effects requested after one successful write
type Event struct {
	Reason  string
	Entity  string
	Number  string
	Counter string
	Delta   int64
}

// Recorder runs the best-effort tail of every write pipeline: dashboard
// counter sync, read-cache invalidation and notification, in that order.
// Nothing here can fail the triggering write; every failure is logged and
// swallowed. Counter drift introduced by a failed sync is repaired by
// reconciliation.
type Recorder struct {
	counters tenant.CounterSync
	cache    shared.CacheInvalidator
	notifier shared.Notifier
	metrics  *telemetry.BusinessMetrics
	log      *zap.Logger
}

// SetMetrics attaches the business metric instruments
func (r *Recorder) SetMetrics(metrics *telemetry.BusinessMetrics) {
	r.metrics = metrics
}

// NewRecorder creates a new Recorder
func NewRecorder(counters tenant.CounterSync, cache shared.CacheInvalidator, notifier shared.Notifier, log *zap.Logger) *Recorder {
	if cache == nil {
		cache = shared.NopInvalidator{}
	}
	if notifier == nil {
		notifier = shared.NopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{counters: counters, cache: cache, notifier: notifier, log: log}
}

// Record applies the event's side effects
func (r *Recorder) Record(ctx context.Context, tenantID uuid.UUID, ev Event) {
	switch {
	case ev.Delta > 0:
		r.metrics.DocumentCreated(ctx, ev.Entity)
	case ev.Delta < 0:
		r.metrics.DocumentDeleted(ctx, ev.Entity)
	}

	var counters []string
	if ev.Counter != "" && ev.Delta != 0 {
		counters = append(counters, ev.Counter)
		var err error
		if ev.Delta > 0 {
			err = r.counters.Increment(ctx, tenantID, ev.Counter, ev.Delta)
		} else {
			_, err = r.counters.Decrement(ctx, tenantID, ev.Counter, -ev.Delta)
		}
		if err != nil {
			r.log.Warn("dashboard counter sync failed",
				zap.String("tenant_id", tenantID.String()),
				zap.String("counter", ev.Counter),
				zap.Int64("delta", ev.Delta),
				zap.Error(err))
		}
	}

	if err := r.cache.InvalidateTenant(ctx, tenantID); err != nil {
		r.log.Warn("cache invalidation failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}

	if err := r.notifier.Notify(ctx, shared.Notification{
		TenantID: tenantID.String(),
		Reason:   ev.Reason,
		Entity:   ev.Entity,
		Number:   ev.Number,
		Counters: counters,
	}); err != nil {
		r.log.Warn("notification failed",
			zap.String("tenant_id", tenantID.String()),
			zap.String("reason", ev.Reason),
			zap.Error(err))
	}
}
