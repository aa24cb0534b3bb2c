package usecase

import (
	"context"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/domain/repository"
	"v5c-properties/internal/shared/errors"
	"v5c-properties/internal/shared/eventbus"
	"v5c-properties/internal/shared/logger"
)

const (
	defaultRecentEvents = 50
	maxRecentEvents     = 500
)

// EventsUsecase records change events and serves the recent history.
type EventsUsecase struct {
	store  repository.EventStore
	logger logger.Logger
}

// NewEventsUsecase creates an EventsUsecase. A nil store disables history.
func NewEventsUsecase(store repository.EventStore, log logger.Logger) *EventsUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &EventsUsecase{store: store, logger: log.WithComponent("events")}
}

// Enabled reports whether an event store is configured.
func (uc *EventsUsecase) Enabled() bool {
	return uc.store != nil
}

// Record is an eventbus.Handler that appends catalog change events to the store.
func (uc *EventsUsecase) Record(ctx context.Context, event eventbus.Event) error {
	if uc.store == nil {
		return nil
	}
	change, ok := event.Data().(model.ChangeEvent)
	if !ok {
		return nil
	}
	return uc.store.Append(ctx, change)
}

// Recent returns up to limit events, newest first. limit is clamped to a
// sane range.
func (uc *EventsUsecase) Recent(ctx context.Context, limit int) ([]model.ChangeEvent, error) {
	if uc.store == nil {
		return nil, errors.ErrEventsDisabled
	}
	if limit <= 0 {
		limit = defaultRecentEvents
	}
	if limit > maxRecentEvents {
		limit = maxRecentEvents
	}
	return uc.store.Recent(ctx, int64(limit))
}
