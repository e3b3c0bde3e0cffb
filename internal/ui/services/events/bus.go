package events

import (
	"fmt"
	"sync"
)

// Bus is a simple event bus for UI services. Listeners are keyed by the
// dynamic type of the event, see TypeOf.
type Bus struct {
	mu        sync.RWMutex
	listeners map[string][]func(interface{})
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[string][]func(interface{})),
	}
}

// Subscribe registers a listener for an event type
func (b *Bus) Subscribe(eventType string, handler func(interface{})) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[eventType] = append(b.listeners[eventType], handler)
}

// Publish sends an event to all listeners
func (b *Bus) Publish(event interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if handlers, ok := b.listeners[TypeOf(event)]; ok {
		for _, handler := range handlers {
			// Run handlers in goroutines to avoid blocking the publisher,
			// which usually holds the coordinator lock
			go handler(event)
		}
	}
}

// TypeOf returns the key listeners of event's type subscribe with
func TypeOf(event interface{}) string {
	return fmt.Sprintf("%T", event)
}
