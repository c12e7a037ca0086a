package events

import (
	"context"
	"sync"
)

// Handler handles a published event.
type Handler func(context.Context, Envelope) error

// Dispatcher fans engine events out to host subscribers (toast
// notifications, badge counters, activity feeds).
type Dispatcher interface {
	Publish(ctx context.Context, event Envelope) error
	Subscribe(eventType Type, handler Handler)
}

// inMemoryDispatcher is a simple synchronous dispatcher. Handlers run
// on the engine loop, so they must not block.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[Type][]Handler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[Type][]Handler),
	}
}

// Publish synchronously invokes handlers for the given event.
func (d *inMemoryDispatcher) Publish(ctx context.Context, event Envelope) error {
	d.mu.RLock()
	handlers := append([]Handler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			// continue processing other handlers despite errors
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType Type, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
