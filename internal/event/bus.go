// Package event decouples the experiment harness from its observers: the
// harness publishes progress events and the CLI (or tests) subscribe,
// without either knowing about the other.
package event

import (
	"log"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Handler is a function that handles an event.
type Handler func(Event)

type subscription struct {
	id        uint64
	eventType string
	handler   Handler
}

// Bus is a simple synchronous pub-sub event bus. Handlers run on the
// publisher's goroutine in registration order; the harness is sequential,
// so event order matches experiment order.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription
	nextID        atomic.Uint64
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{subscriptions: make(map[string][]subscription)}
}

// Subscribe registers a handler for a specific event type and returns an
// id usable with Unsubscribe.
func (b *Bus) Subscribe(eventType string, handler Handler) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.subscriptions[eventType] = append(b.subscriptions[eventType],
		subscription{id: id, eventType: eventType, handler: handler})
	return id
}

// SubscribeAll registers a handler for every event type.
func (b *Bus) SubscribeAll(handler Handler) uint64 {
	return b.Subscribe("*", handler)
}

// Unsubscribe removes a subscription by id. Returns true if it existed.
func (b *Bus) Unsubscribe(id uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscriptions {
		for i, sub := range subs {
			if sub.id == id {
				b.subscriptions[eventType] = append(subs[:i], subs[i+1:]...)
				return true
			}
		}
	}
	return false
}

// Publish dispatches an event to all matching handlers: type-specific
// subscribers first, then wildcard subscribers. A panicking handler is
// logged and skipped rather than taking down the run.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	specific := make([]subscription, len(b.subscriptions[event.EventType()]))
	copy(specific, b.subscriptions[event.EventType()])
	wildcard := make([]subscription, len(b.subscriptions["*"]))
	copy(wildcard, b.subscriptions["*"])
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range wildcard {
		b.safeCall(sub.handler, event)
	}
}

func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: event handler panicked for event %s: %v\n%s",
				event.EventType(), r, debug.Stack())
		}
	}()
	handler(event)
}
