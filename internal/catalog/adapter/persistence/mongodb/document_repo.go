package mongodb

import (
	"context"
	"errors"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/catalog/domain/repository"
	sharederrors "v5c-properties/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// newestFirst orders documents by creation time, breaking ties on _id.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// DocumentRepository stores one resource in its own MongoDB collection.
type DocumentRepository[T model.Entity] struct {
	collection *mongo.Collection
	newItem    func() T
}

var _ repository.DocumentRepository[*model.Property] = (*DocumentRepository[*model.Property])(nil)

// NewDocumentRepository creates a repository over the resource's collection.
func NewDocumentRepository[T model.Entity](db *mongo.Database, resource model.Resource[T]) *DocumentRepository[T] {
	return &DocumentRepository[T]{
		collection: db.Collection(resource.Collection),
		newItem:    resource.New,
	}
}

// EnsureIndexes creates the index backing the newest-first listing.
func (r *DocumentRepository[T]) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	return err
}

// List returns every document, newest first.
func (r *DocumentRepository[T]) List(ctx context.Context) ([]T, error) {
	cursor, err := r.collection.Find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	items := make([]T, 0)
	for cursor.Next(ctx) {
		item := r.newItem()
		if err := cursor.Decode(item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Get loads a document by its hex ObjectID.
func (r *DocumentRepository[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, sharederrors.ErrDocumentNotFound
	}

	item := r.newItem()
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, sharederrors.ErrDocumentNotFound
		}
		return zero, err
	}
	return item, nil
}

// Create inserts a document, assigning an ObjectID when it has none.
func (r *DocumentRepository[T]) Create(ctx context.Context, item T) error {
	meta := item.Meta()
	if meta.ID.IsZero() {
		meta.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, item)
	return err
}

// Replace overwrites the stored document with the same ID.
func (r *DocumentRepository[T]) Replace(ctx context.Context, item T) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": item.Meta().ID}, item)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return sharederrors.ErrDocumentNotFound
	}
	return nil
}

// Delete removes a document by its hex ObjectID.
func (r *DocumentRepository[T]) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return sharederrors.ErrDocumentNotFound
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return sharederrors.ErrDocumentNotFound
	}
	return nil
}

// Count returns the number of stored documents.
func (r *DocumentRepository[T]) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{})
}

// Ping checks the connection to the primary.
func (r *DocumentRepository[T]) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
