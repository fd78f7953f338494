// Package notification delivers best-effort notifications after a fund
// movement commits. Delivery is fire-and-forget: a failing or missing
// sink can never roll back a completed financial transaction, so
// dispatch happens outside the unit of work and errors are only logged.
package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Notification is one message for a user or a role.
type Notification struct {
	UserID     uuid.UUID // zero when addressed to a role
	Role       string    // e.g. "escrow_manager"; empty when addressed to a user
	Title      string
	Message    string
	EntityKind string // "project", "escrow", "dispute", "transaction"
	EntityID   uuid.UUID
}

// Notifier is the outbound port the services publish through.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// HandlerFunc receives dispatched notifications.
type HandlerFunc func(ctx context.Context, n Notification)

// Dispatcher is an in-memory fan-out Notifier. Handlers are invoked
// synchronously in registration order; a panicking handler is recovered
// and logged so it cannot take the request down with it.
type Dispatcher struct {
	mu        sync.RWMutex
	handlers  []HandlerFunc
	logger    *slog.Logger
	delivered []Notification // captured for tests
}

// NewDispatcher creates a Dispatcher logging through the given logger.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{logger: logger.With("component", "notification")}
}

// Register adds a delivery handler.
func (d *Dispatcher) Register(h HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers = append(d.handlers, h)
}

// Notify fans the notification out to every registered handler.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	d.mu.RLock()
	handlers := make([]HandlerFunc, len(d.handlers))
	copy(handlers, d.handlers)
	d.mu.RUnlock()

	d.mu.Lock()
	d.delivered = append(d.delivered, n)
	d.mu.Unlock()

	for _, h := range handlers {
		d.safeDeliver(ctx, h, n)
	}
}

func (d *Dispatcher) safeDeliver(ctx context.Context, h HandlerFunc, n Notification) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notification handler panicked",
				"title", n.Title, "entityKind", n.EntityKind, "panic", r)
		}
	}()
	h(ctx, n)
}

// NewLogSink returns a handler that writes each notification to the
// log. It stands in for a real delivery channel (email, push) in
// deployments that have none configured.
func NewLogSink(logger *slog.Logger) HandlerFunc {
	return func(_ context.Context, n Notification) {
		logger.Info("notification",
			"userID", n.UserID, "role", n.Role,
			"title", n.Title, "entityKind", n.EntityKind, "entityID", n.EntityID)
	}
}

// Delivered returns every notification passed to Notify. Test use only.
func (d *Dispatcher) Delivered() []Notification {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Notification, len(d.delivered))
	copy(out, d.delivered)
	return out
}

var _ Notifier = (*Dispatcher)(nil)
