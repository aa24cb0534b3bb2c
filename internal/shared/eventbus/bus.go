package eventbus

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"v5c-properties/internal/shared/logger"
)

// Catalog event types
const (
	EventTypeDocumentCreated = "document.created"
	EventTypeDocumentUpdated = "document.updated"
	EventTypeDocumentDeleted = "document.deleted"
)

// Event represents a generic event
type Event interface {
	Type() string
	Data() interface{}
	Timestamp() time.Time
	Source() string
}

// Handler defines the event handler function type
type Handler func(ctx context.Context, event Event) error

// Publisher is the narrow side of the bus that producers depend on.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// EventBus is an in-process fan-out of events to subscribed handlers.
// Handlers registered under Wildcard receive every event.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   logger.Logger
}

// Wildcard subscribes a handler to every event type.
const Wildcard = "*"

// NewEventBus creates a synchronous event bus
func NewEventBus(log logger.Logger) *EventBus {
	if log == nil {
		log = logger.Nop()
	}
	return &EventBus{
		handlers: make(map[string][]Handler),
		logger:   log,
	}
}

// Subscribe adds a handler for a specific event type
func (eb *EventBus) Subscribe(eventType string, handler Handler) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.handlers[eventType] = append(eb.handlers[eventType], handler)
	eb.logger.Debugf("Subscribed handler for event type: %s", eventType)
}

// Publish delivers an event to every matching handler. A failing handler does
// not stop delivery to the others; all failures are joined into the result.
func (eb *EventBus) Publish(ctx context.Context, event Event) error {
	eb.mu.RLock()
	handlers := make([]Handler, 0, len(eb.handlers[event.Type()])+len(eb.handlers[Wildcard]))
	handlers = append(handlers, eb.handlers[event.Type()]...)
	handlers = append(handlers, eb.handlers[Wildcard]...)
	eb.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var errs []error
	for i, h := range handlers {
		if err := eb.run(ctx, event, h, i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (eb *EventBus) run(ctx context.Context, event Event, h Handler, idx int) error {
	if err := h(ctx, event); err != nil {
		eb.logger.Errorf("Handler %d failed for event %s: %v", idx, event.Type(), err)
		return fmt.Errorf("handler %d for %s: %w", idx, event.Type(), err)
	}
	return nil
}

// BasicEvent implements the Event interface
type BasicEvent struct {
	eventType string
	data      interface{}
	timestamp time.Time
	source    string
}

// NewEvent creates an event stamped with the current time
func NewEvent(eventType string, data interface{}, source string) Event {
	return &BasicEvent{
		eventType: eventType,
		data:      data,
		timestamp: time.Now().UTC(),
		source:    source,
	}
}

func (e *BasicEvent) Type() string         { return e.eventType }
func (e *BasicEvent) Data() interface{}    { return e.data }
func (e *BasicEvent) Timestamp() time.Time { return e.timestamp }
func (e *BasicEvent) Source() string       { return e.source }
