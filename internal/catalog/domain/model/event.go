package model

import "time"

// ChangeType is the kind of mutation a ChangeEvent reports.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent is emitted after every successful write to a resource.
type ChangeEvent struct {
	ID         string     `json:"id"`
	Type       ChangeType `json:"type"`
	Resource   string     `json:"resource"`
	DocumentID string     `json:"documentId"`
	Timestamp  time.Time  `json:"timestamp"`
}
