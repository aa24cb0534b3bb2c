package memory

import (
	"context"
	"sort"
	"sync"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/domain/repository"
	sharederrors "v5c-properties/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentRepository keeps a resource in process memory. Documents are stored
// in their BSON form so callers never share state with the store.
type DocumentRepository[T model.Entity] struct {
	mu      sync.RWMutex
	docs    map[primitive.ObjectID][]byte
	newItem func() T
}

var _ repository.DocumentRepository[*model.Lead] = (*DocumentRepository[*model.Lead])(nil)

// NewDocumentRepository creates an empty in-memory repository.
func NewDocumentRepository[T model.Entity](resource model.Resource[T]) *DocumentRepository[T] {
	return &DocumentRepository[T]{
		docs:    make(map[primitive.ObjectID][]byte),
		newItem: resource.New,
	}
}

// List returns every document ordered by createdAt then _id, newest first.
func (r *DocumentRepository[T]) List(ctx context.Context) ([]T, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]T, 0, len(r.docs))
	for _, raw := range r.docs {
		item, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].Meta(), items[j].Meta()
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() > b.ID.Hex()
	})
	return items, nil
}

// Get returns a copy of the stored document.
func (r *DocumentRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, sharederrors.ErrDocumentNotFound
	}

	r.mu.RLock()
	raw, ok := r.docs[oid]
	r.mu.RUnlock()
	if !ok {
		return zero, sharederrors.ErrDocumentNotFound
	}
	return r.decode(raw)
}

// Create stores a copy of item, assigning an ObjectID when it has none.
func (r *DocumentRepository[T]) Create(ctx context.Context, item T) error {
	meta := item.Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	raw, err := bson.Marshal(item)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[meta.ID] = raw
	return nil
}

// Replace overwrites an existing document.
func (r *DocumentRepository[T]) Replace(ctx context.Context, item T) error {
	raw, err := bson.Marshal(item)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	id := item.Meta().ID
	if _, ok := r.docs[id]; !ok {
		return sharederrors.ErrDocumentNotFound
	}
	r.docs[id] = raw
	return nil
}

// Delete removes a document.
func (r *DocumentRepository[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return sharederrors.ErrDocumentNotFound
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[oid]; !ok {
		return sharederrors.ErrDocumentNotFound
	}
	delete(r.docs, oid)
	return nil
}

// Count returns the number of stored documents.
func (r *DocumentRepository[T]) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

// Ping always succeeds.
func (r *DocumentRepository[T]) Ping(ctx context.Context) error {
	return nil
}

func (r *DocumentRepository[T]) decode(raw []byte) (T, error) {
	item := r.newItem()
	if err := bson.Unmarshal(raw, item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}
