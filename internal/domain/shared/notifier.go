package shared

import "context"

// Notification is the out-of-band event emitted after a successful write.
// It is purely informational: consumers must never be required for
// correctness of the triggering operation.
type Notification struct {
	TenantID string   `json:"tenant_id"`
	Reason   string   `json:"reason"`
	Entity   string   `json:"entity"`
	Number   string   `json:"number,omitempty"`
	Counters []string `json:"counters,omitempty"`
}

// Notifier fans a notification out to interested side channels. Implementations
// must be best-effort: errors are for the caller to log, not to act on.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// NopNotifier discards all notifications
type NopNotifier struct{}

// Notify implements Notifier
func (NopNotifier) Notify(ctx context.Context, n Notification) error { return nil }
