package usecase

import (
	"context"
	"time"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/domain/repository"
	"v5c-properties/internal/shared/errors"
	"v5c-properties/internal/shared/eventbus"
	"v5c-properties/internal/shared/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventSource tags events published by the catalog.
const EventSource = "catalog"

// ResourceUsecase implements list/get/create/update/delete for one resource.
// Every resource in the catalog runs through the same code; only the
// descriptor differs.
type ResourceUsecase[T model.Entity] struct {
	resource  model.Resource[T]
	repo      repository.DocumentRepository[T]
	validator *Validator
	publisher eventbus.Publisher
	logger    logger.Logger
	now       func() time.Time
}

// NewResourceUsecase compiles the resource's validation rules and wires the
// repository. publisher may be nil.
func NewResourceUsecase[T model.Entity](
	resource model.Resource[T],
	repo repository.DocumentRepository[T],
	publisher eventbus.Publisher,
	log logger.Logger,
) (*ResourceUsecase[T], error) {
	validator, err := NewValidator(resource.Required, resource.Rules)
	if err != nil {
		return nil, errors.NewInternalError("invalid rules for " + resource.Name).WithCause(err)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ResourceUsecase[T]{
		resource:  resource,
		repo:      repo,
		validator: validator,
		publisher: publisher,
		logger:    log.WithComponent("catalog").WithFields(map[string]interface{}{"resource": resource.Name}),
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}, nil
}

// Resource returns the descriptor this usecase serves.
func (uc *ResourceUsecase[T]) Resource() model.Resource[T] {
	return uc.resource
}

// New returns an empty value of the resource type, used to decode request bodies.
func (uc *ResourceUsecase[T]) New() T {
	return uc.resource.New()
}

// List returns all stored documents, newest first.
func (uc *ResourceUsecase[T]) List(ctx context.Context) ([]T, error) {
	items, err := uc.repo.List(ctx)
	if err != nil {
		uc.logger.WithContext(ctx).Errorf("Failed to list documents: %v", err)
		return nil, err
	}
	return items, nil
}

// Get returns one document or errors.ErrDocumentNotFound.
func (uc *ResourceUsecase[T]) Get(ctx context.Context, id string) (T, error) {
	return uc.repo.Get(ctx, id)
}

// Create stamps metadata on item, validates and stores it. Any metadata the
// caller set is replaced.
func (uc *ResourceUsecase[T]) Create(ctx context.Context, item T) (T, error) {
	return uc.create(ctx, item, false)
}

func (uc *ResourceUsecase[T]) create(ctx context.Context, item T, seeded bool) (T, error) {
	var zero T
	now := uc.now()
	meta := item.Meta()
	meta.ID = primitive.NewObjectID()
	meta.CreatedAt = now
	meta.UpdatedAt = now
	meta.Seeded = seeded

	normalize(item)
	if err := uc.validator.Validate(item); err != nil {
		return zero, err
	}

	if err := uc.repo.Create(ctx, item); err != nil {
		uc.logger.WithContext(ctx).Errorf("Failed to create document: %v", err)
		return zero, err
	}

	uc.logger.WithContext(ctx).Infof("Document created: %s", meta.ID.Hex())
	uc.publish(ctx, model.ChangeCreated, meta.ID.Hex(), now)
	return item, nil
}

// Update loads the document, lets apply change the fields present in the
// request, then re-validates and replaces it. There is no concurrency control;
// the last writer wins.
func (uc *ResourceUsecase[T]) Update(ctx context.Context, id string, apply func(T) error) (T, error) {
	var zero T
	item, err := uc.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	meta := item.Meta()
	original := *meta
	if err := apply(item); err != nil {
		return zero, errors.NewValidationError("invalid request body").WithCause(err)
	}

	meta = item.Meta()
	meta.ID = original.ID
	meta.CreatedAt = original.CreatedAt
	meta.UpdatedAt = uc.now()
	meta.Seeded = original.Seeded

	normalize(item)
	if err := uc.validator.Validate(item); err != nil {
		return zero, err
	}

	if err := uc.repo.Replace(ctx, item); err != nil {
		if !errors.IsNotFound(err) {
			uc.logger.WithContext(ctx).Errorf("Failed to update document %s: %v", id, err)
		}
		return zero, err
	}

	uc.publish(ctx, model.ChangeUpdated, original.ID.Hex(), meta.UpdatedAt)
	return item, nil
}

// Delete removes a document by id.
func (uc *ResourceUsecase[T]) Delete(ctx context.Context, id string) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		if !errors.IsNotFound(err) {
			uc.logger.WithContext(ctx).Errorf("Failed to delete document %s: %v", id, err)
		}
		return err
	}

	uc.logger.WithContext(ctx).Infof("Document deleted: %s", id)
	uc.publish(ctx, model.ChangeDeleted, id, uc.now())
	return nil
}

// SeedIfEmpty stores copies of statics, marked as seeded, when the collection
// holds nothing yet. Statics are inserted last-to-first so the newest-first listing keeps their
// bundled order.
func (uc *ResourceUsecase[T]) SeedIfEmpty(ctx context.Context, statics []T) (int, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	inserted := 0
	for i := len(statics) - 1; i >= 0; i-- {
		item, err := cloneEntity(statics[i], uc.resource.New)
		if err != nil {
			return inserted, err
		}
		if _, err := uc.create(ctx, item, true); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (uc *ResourceUsecase[T]) publish(ctx context.Context, kind model.ChangeType, id string, at time.Time) {
	if uc.publisher == nil {
		return
	}

	change := model.ChangeEvent{
		ID:         uuid.NewString(),
		Type:       kind,
		Resource:   uc.resource.Name,
		DocumentID: id,
		Timestamp:  at,
	}
	if err := uc.publisher.Publish(ctx, eventbus.NewEvent(eventTypeFor(kind), change, EventSource)); err != nil {
		uc.logger.WithContext(ctx).Warnf("Change event for %s not fully delivered: %v", id, err)
	}
}

func eventTypeFor(kind model.ChangeType) string {
	switch kind {
	case model.ChangeCreated:
		return eventbus.EventTypeDocumentCreated
	case model.ChangeUpdated:
		return eventbus.EventTypeDocumentUpdated
	default:
		return eventbus.EventTypeDocumentDeleted
	}
}

func normalize(item interface{}) {
	if n, ok := item.(model.Normalizer); ok {
		n.Normalize()
	}
}

// cloneEntity deep-copies item through its BSON form.
func cloneEntity[T model.Entity](item T, newItem func() T) (T, error) {
	clone := newItem()
	raw, err := bson.Marshal(item)
	if err != nil {
		return clone, err
	}
	err = bson.Unmarshal(raw, clone)
	return clone, err
}
