package effects

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/fieldledger/backend/internal/domain/shared"
	"github.com/fieldledger/backend/internal/domain/tenant"
)

type fakeCounterSync struct {
	values   map[string]int64
	incErr   error
	decErr   error
	incCalls int
	decCalls int
}

func newFakeCounterSync() *fakeCounterSync {
	return &fakeCounterSync{values: make(map[string]int64)}
}

func (f *fakeCounterSync) Increment(ctx context.Context, tenantID uuid.UUID, name string, delta int64) error {
	f.incCalls++
	if f.incErr != nil {
		return f.incErr
	}
	f.values[name] += delta
	return nil
}

func (f *fakeCounterSync) Decrement(ctx context.Context, tenantID uuid.UUID, name string, delta int64) (bool, error) {
	f.decCalls++
	if f.decErr != nil {
		return false, f.decErr
	}
	if f.values[name] < delta {
		return true, nil
	}
	f.values[name] -= delta
	return false, nil
}

func (f *fakeCounterSync) Set(ctx context.Context, tenantID uuid.UUID, name string, value int64) error {
	f.values[name] = value
	return nil
}

func (f *fakeCounterSync) Get(ctx context.Context, tenantID uuid.UUID, name string) (int64, error) {
	return f.values[name], nil
}

func (f *fakeCounterSync) GetAll(ctx context.Context, tenantID uuid.UUID) (map[string]int64, error) {
	return f.values, nil
}

type fakeInvalidator struct {
	calls int
	err   error
}

func (f *fakeInvalidator) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	f.calls++
	return f.err
}

type fakeNotifier struct {
	received []shared.Notification
	err      error
}

func (f *fakeNotifier) Notify(ctx context.Context, n shared.Notification) error {
	f.received = append(f.received, n)
	return f.err
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("increments counter, invalidates cache and notifies", func(t *testing.T) {
		counters := newFakeCounterSync()
		cache := &fakeInvalidator{}
		notifier := &fakeNotifier{}
		rec := NewRecorder(counters, cache, notifier, nil)

		rec.Record(ctx, tenantID, Event{
			Reason:  "invoice.created",
			Entity:  "invoice",
			Number:  "INV-0001",
			Counter: tenant.CountInvoices,
			Delta:   1,
		})

		assert.Equal(t, int64(1), counters.values[tenant.CountInvoices])
		assert.Equal(t, 1, cache.calls)
		assert.Len(t, notifier.received, 1)
		assert.Equal(t, "invoice.created", notifier.received[0].Reason)
		assert.Equal(t, []string{tenant.CountInvoices}, notifier.received[0].Counters)
	})

	t.Run("negative delta decrements", func(t *testing.T) {
		counters := newFakeCounterSync()
		counters.values[tenant.CountInvoices] = 3
		rec := NewRecorder(counters, &fakeInvalidator{}, &fakeNotifier{}, nil)

		rec.Record(ctx, tenantID, Event{
			Reason:  "invoice.deleted",
			Entity:  "invoice",
			Counter: tenant.CountInvoices,
			Delta:   -1,
		})

		assert.Equal(t, int64(2), counters.values[tenant.CountInvoices])
		assert.Equal(t, 1, counters.decCalls)
	})

	t.Run("zero delta skips counter sync but still invalidates and notifies", func(t *testing.T) {
		counters := newFakeCounterSync()
		cache := &fakeInvalidator{}
		notifier := &fakeNotifier{}
		rec := NewRecorder(counters, cache, notifier, nil)

		rec.Record(ctx, tenantID, Event{
			Reason: "invoice.updated",
			Entity: "invoice",
			Number: "INV-0001",
		})

		assert.Equal(t, 0, counters.incCalls)
		assert.Equal(t, 0, counters.decCalls)
		assert.Equal(t, 1, cache.calls)
		assert.Len(t, notifier.received, 1)
		assert.Empty(t, notifier.received[0].Counters)
	})

	t.Run("counter sync failure does not stop the rest of the tail", func(t *testing.T) {
		counters := newFakeCounterSync()
		counters.incErr = errors.New("connection refused")
		cache := &fakeInvalidator{}
		notifier := &fakeNotifier{}
		rec := NewRecorder(counters, cache, notifier, nil)

		rec.Record(ctx, tenantID, Event{
			Reason:  "invoice.created",
			Entity:  "invoice",
			Counter: tenant.CountInvoices,
			Delta:   1,
		})

		assert.Equal(t, 1, cache.calls)
		assert.Len(t, notifier.received, 1)
	})

	t.Run("cache and notifier failures are swallowed", func(t *testing.T) {
		counters := newFakeCounterSync()
		cache := &fakeInvalidator{err: errors.New("redis down")}
		notifier := &fakeNotifier{err: errors.New("bus closed")}
		rec := NewRecorder(counters, cache, notifier, nil)

		assert.NotPanics(t, func() {
			rec.Record(ctx, tenantID, Event{
				Reason:  "invoice.created",
				Entity:  "invoice",
				Counter: tenant.CountInvoices,
				Delta:   1,
			})
		})
		assert.Equal(t, int64(1), counters.values[tenant.CountInvoices])
	})

	t.Run("nil cache and notifier default to no-ops", func(t *testing.T) {
		counters := newFakeCounterSync()
		rec := NewRecorder(counters, nil, nil, nil)

		assert.NotPanics(t, func() {
			rec.Record(ctx, tenantID, Event{
				Reason:  "invoice.created",
				Entity:  "invoice",
				Counter: tenant.CountInvoices,
				Delta:   1,
			})
		})
	})
}
