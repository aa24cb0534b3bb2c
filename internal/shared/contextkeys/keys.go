package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "v5c-properties context key " + string(c)
}

const (
	// RequestIDKey carries the X-Request-ID assigned to the current request.
	RequestIDKey = contextKey("requestID")
	// RoleKey carries the role ("admin" or "user") of an authenticated caller.
	RoleKey = contextKey("role")
	// SubjectKey carries the display name of an authenticated caller.
	SubjectKey = contextKey("subject")
	// ClaimsKey carries the validated token claims.
	ClaimsKey = contextKey("claims")
	// ResourceKey carries the catalog resource a request targets.
	ResourceKey = contextKey("resource")
	// ComponentKey carries the component name for logging.
	ComponentKey = contextKey("component")
)
