package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document holds the metadata every stored record carries. Zero values are
// left out of JSON so bundled static records render without an _id, which
// clients use to tell demo items from stored ones. Seeded marks stored copies
// of bundled records.
type Document struct {
	ID        primitive.ObjectID `json:"_id,omitzero" bson:"_id,omitempty" yaml:"-"`
	CreatedAt time.Time          `json:"createdAt,omitzero" bson:"createdAt" yaml:"-"`
	UpdatedAt time.Time          `json:"updatedAt,omitzero" bson:"updatedAt" yaml:"-"`
	Seeded    bool               `json:"seeded,omitempty" bson:"seeded,omitempty" yaml:"-"`
}

// Meta gives generic code access to the embedded metadata.
func (d *Document) Meta() *Document {
	return d
}

// Entity is implemented by every resource type through the embedded Document.
type Entity interface {
	Meta() *Document
}

// Normalizer is implemented by entities that need to tidy their fields
// (for example replacing nil slices) before they are stored.
type Normalizer interface {
	Normalize()
}

// Text is a free-form string field that also accepts a JSON number, since
// forms submit numeric inputs such as beds and baths either way.
type Text string

// UnmarshalJSON accepts a string, a number, or null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*t = Text(n.String())
	return nil
}

// String returns the underlying text.
func (t Text) String() string {
	return string(t)
}
