package usecase

import (
	"context"
	"sync"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/eventbus"
	"v5c-properties/internal/shared/logger"

	"github.com/google/uuid"
)

// ChangeFeed fans change events out to live subscribers. Each subscriber has
// a buffered channel; a subscriber whose buffer is full is dropped and its
// channel closed rather than blocking the writer.
type ChangeFeed struct {
	mu          sync.RWMutex
	subscribers map[string]chan model.ChangeEvent
	buffer      int
	logger      logger.Logger
}

// NewChangeFeed creates a feed whose subscriber channels hold buffer events.
func NewChangeFeed(buffer int, log logger.Logger) *ChangeFeed {
	if buffer <= 0 {
		buffer = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ChangeFeed{
		subscribers: make(map[string]chan model.ChangeEvent),
		buffer:      buffer,
		logger:      log.WithComponent("change-feed"),
	}
}

// Subscribe registers a new subscriber.
func (f *ChangeFeed) Subscribe() (string, <-chan model.ChangeEvent) {
	id := uuid.NewString()
	ch := make(chan model.ChangeEvent, f.buffer)

	f.mu.Lock()
	f.subscribers[id] = ch
	f.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Unknown ids are ignored.
func (f *ChangeFeed) Unsubscribe(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.subscribers[id]; ok {
		close(ch)
		delete(f.subscribers, id)
	}
}

// Broadcast delivers event to every subscriber and returns how many received it.
func (f *ChangeFeed) Broadcast(event model.ChangeEvent) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	delivered := 0
	for id, ch := range f.subscribers {
		select {
		case ch <- event:
			delivered++
		default:
			f.logger.Warnf("Dropping slow subscriber %s", id)
			close(ch)
			delete(f.subscribers, id)
		}
	}
	return delivered
}

// Handle is an eventbus.Handler that forwards catalog change events.
func (f *ChangeFeed) Handle(ctx context.Context, event eventbus.Event) error {
	if change, ok := event.Data().(model.ChangeEvent); ok {
		f.Broadcast(change)
	}
	return nil
}

// SubscriberCount returns the number of live subscribers.
func (f *ChangeFeed) SubscriberCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subscribers)
}

// Close drops every subscriber.
func (f *ChangeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, ch := range f.subscribers {
		close(ch)
		delete(f.subscribers, id)
	}
}
