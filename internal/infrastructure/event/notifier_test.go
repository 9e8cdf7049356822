package event

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fieldledger/backend/internal/domain/shared"
)

func TestBus_DispatchesToAllHandlers(t *testing.T) {
	bus := NewBus(zap.NewNop())

	var mu sync.Mutex
	var got []string
	bus.Subscribe(func(ctx context.Context, n shared.Notification) {
		mu.Lock()
		got = append(got, "first:"+n.Reason)
		mu.Unlock()
	})
	bus.Subscribe(func(ctx context.Context, n shared.Notification) {
		mu.Lock()
		got = append(got, "second:"+n.Reason)
		mu.Unlock()
	})

	err := bus.Notify(context.Background(), shared.Notification{Reason: "invoice_created"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:invoice_created", "second:invoice_created"}, got)
}

func TestBus_RecoversFromPanickingHandler(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	bus := NewBus(zap.New(core))

	called := false
	bus.Subscribe(func(ctx context.Context, n shared.Notification) {
		panic("boom")
	})
	bus.Subscribe(func(ctx context.Context, n shared.Notification) {
		called = true
	})

	err := bus.Notify(context.Background(), shared.Notification{Reason: "order_created"})
	require.NoError(t, err)

	assert.True(t, called, "later handlers still run")
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "notification handler panicked", recorded.All()[0].Message)
}

func TestLogNotifier_WritesEntry(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	notifier := NewLogNotifier(zap.New(core))

	err := notifier.Notify(context.Background(), shared.Notification{
		TenantID: "t-1",
		Reason:   "purchase_order_deleted",
		Entity:   "purchase_order",
		Number:   "PO-001",
	})
	require.NoError(t, err)

	entries := recorded.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "t-1", fields["tenant_id"])
	assert.Equal(t, "PO-001", fields["number"])
}
