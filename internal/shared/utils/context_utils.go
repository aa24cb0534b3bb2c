package utils

import (
	"context"
	"errors"

	"v5c-properties/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound  = errors.New("requestID not found in context")
	ErrRequestIDNotString = errors.New("requestID in context is not a string")
	ErrRoleNotFound       = errors.New("role not found in context")
	ErrRoleNotString      = errors.New("role in context is not a string")
)

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithRole stores the caller's role in the context.
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, contextkeys.RoleKey, role)
}

// WithSubject stores the caller's display name in the context.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, contextkeys.SubjectKey, subject)
}

// WithResource stores the targeted catalog resource in the context.
func WithResource(ctx context.Context, resource string) context.Context {
	return context.WithValue(ctx, contextkeys.ResourceKey, resource)
}

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RequestIDKey)
	if val == nil {
		return "", ErrRequestIDNotFound
	}
	requestID, ok := val.(string)
	if !ok {
		return "", ErrRequestIDNotString
	}
	return requestID, nil
}

// GetRoleFromContext retrieves the caller's role from the context.
func GetRoleFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(contextkeys.RoleKey)
	if val == nil {
		return "", ErrRoleNotFound
	}
	role, ok := val.(string)
	if !ok {
		return "", ErrRoleNotString
	}
	return role, nil
}

// IsAdmin reports whether the context belongs to an authenticated administrator.
func IsAdmin(ctx context.Context) bool {
	role, err := GetRoleFromContext(ctx)
	return err == nil && role == "admin"
}
