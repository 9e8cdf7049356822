// Package event fans write notifications out to in-process subscribers.
package event

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/fieldledger/backend/internal/domain/shared"
)

// Handler consumes a notification. Handlers must tolerate being called
// concurrently from different write pipelines.
type Handler func(ctx context.Context, n shared.Notification)

// Bus is an in-memory shared.Notifier that dispatches each notification to
// every subscribed handler. Dispatch is synchronous; a panicking handler is
// recovered and logged so it cannot take down the write pipeline.
type Bus struct {
	mu       sync.RWMutex
	handlers []Handler
	log      *zap.Logger
}

var _ shared.Notifier = (*Bus)(nil)

// NewBus creates an empty notification bus
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

// Subscribe registers a handler for all notifications
func (b *Bus) Subscribe(handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handler)
}

// Notify implements shared.Notifier
func (b *Bus) Notify(ctx context.Context, n shared.Notification) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.dispatch(ctx, handler, n)
	}
	return nil
}

func (b *Bus) dispatch(ctx context.Context, handler Handler, n shared.Notification) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("notification handler panicked",
				zap.String("reason", n.Reason),
				zap.String("entity", n.Entity),
				zap.Any("panic", r),
			)
		}
	}()
	handler(ctx, n)
}

// LogNotifier is a shared.Notifier that writes each notification to the log.
// Useful as the default subscriber-less deployment.
type LogNotifier struct {
	log *zap.Logger
}

var _ shared.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier writing to the given logger
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogNotifier{log: log.Named("notify")}
}

// Notify implements shared.Notifier
func (n *LogNotifier) Notify(ctx context.Context, notification shared.Notification) error {
	n.log.Info("document event",
		zap.String("tenant_id", notification.TenantID),
		zap.String("reason", notification.Reason),
		zap.String("entity", notification.Entity),
		zap.String("number", notification.Number),
		zap.Strings("counters", notification.Counters),
	)
	return nil
}
