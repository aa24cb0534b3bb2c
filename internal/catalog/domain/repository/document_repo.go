package repository

import (
	"context"

	"v5c-properties/internal/catalog/domain/model"
)

// DocumentRepository persists one resource collection.
type DocumentRepository[T model.Entity] interface {
	// List returns every document, newest first.
	List(ctx context.Context) ([]T, error)
	// Get returns errors.ErrDocumentNotFound for unknown or malformed ids.
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) error
	// Replace overwrites the stored document that has item's ID.
	Replace(ctx context.Context, item T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// EventStore keeps a bounded history of change events.
type EventStore interface {
	Append(ctx context.Context, event model.ChangeEvent) error
	Recent(ctx context.Context, limit int64) ([]model.ChangeEvent, error)
}
