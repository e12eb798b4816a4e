// Package events is a small in-process stand-in for a platform event
// trigger: code registers create handlers per record kind and the
// storage layer dispatches after each successful create. Delivery is
// at-least-once from the handlers' point of view; there is no dedup.
package events

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Record kinds the bus dispatches on.
const (
	KindInquiry = "inquiry"
	KindReply   = "reply"
)

// Event carries an immutable snapshot of the newly created record and
// its assigned id. Data is nil when the trigger fired without a payload.
type Event struct {
	Kind string
	ID   uint
	Data any
}

// Handler processes one create event. An error marks the invocation as
// failed; it never stops other handlers for the same event.
type Handler func(ctx context.Context, evt Event) error

// Bus fans create events out to registered handlers, synchronously and
// in registration order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewBus creates an empty event bus
func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// OnCreate registers a handler for creations of the given record kind
func (b *Bus) OnCreate(kind string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[kind] = append(b.handlers[kind], handler)
}

// Dispatch invokes every handler registered for the event's kind. All
// handlers run even if an earlier one fails; the first error is
// returned after logging each failure with its record id.
func (b *Bus) Dispatch(ctx context.Context, evt Event) error {
	b.mu.RLock()
	handlers := b.handlers[evt.Kind]
	b.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, evt); err != nil {
			log.Printf("[EVENTS] %s handler failed for id=%d: %v", evt.Kind, evt.ID, err)
			if firstErr == nil {
				firstErr = fmt.Errorf("%s handler: %w", evt.Kind, err)
			}
		}
	}
	return firstErr
}

// DispatchAsync runs Dispatch on its own goroutine, logging the outcome
// instead of returning it. Used where the creating request should not
// wait on downstream notification work.
func (b *Bus) DispatchAsync(evt Event) {
	go func() {
		if err := b.Dispatch(context.Background(), evt); err != nil {
			log.Printf("[EVENTS] async dispatch failed: kind=%s id=%d: %v", evt.Kind, evt.ID, err)
		}
	}()
}
