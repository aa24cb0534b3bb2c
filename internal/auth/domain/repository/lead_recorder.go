package repository

import "context"

// LeadRecorder stores the contact details of a visitor who signed in.
type LeadRecorder interface {
	RecordVisitor(ctx context.Context, name, email, phone string) error
}
