package application

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"renextract/internal/domain"
)

// EventHandler reacts to a workflow event.
type EventHandler func(ctx context.Context, event domain.Event) error

// Bus routes workflow events between stores. Handlers run sequentially
// on the publishing goroutine, in registration order.
type Bus struct {
	handlers map[domain.EventType][]EventHandler
	mu       sync.RWMutex
	log      *zap.Logger
}

// NewBus creates an empty bus. A nil logger discards output.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		handlers: make(map[domain.EventType][]EventHandler),
		log:      log,
	}
}

// Subscribe registers a handler for one event type.
func (b *Bus) Subscribe(eventType domain.EventType, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler for several event types.
func (b *Bus) SubscribeAll(types []domain.EventType, handler EventHandler) {
	for _, t := range types {
		b.Subscribe(t, handler)
	}
}

// Publish delivers an event to every handler of its type. A failing
// handler is logged and the remaining handlers still run; the first
// error is returned.
func (b *Bus) Publish(ctx context.Context, event domain.Event) error {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	if len(handlers) == 0 {
		b.log.Debug("no handlers for event",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
		)
		return nil
	}

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.log.Error("event handler failed",
				zap.String("event_type", string(event.Type)),
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			if firstErr == nil {
				firstErr = fmt.Errorf("handler for %s failed: %w", event.Type, err)
			}
		}
	}
	return firstErr
}
