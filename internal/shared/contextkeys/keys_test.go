package contextkeys

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextKey_String(t *testing.T) {
	key := contextKey("testKey")
	assert.Equal(t, "v5c-properties context key testKey", key.String())
}

func TestContextKeys_Usage(t *testing.T) {
	ctx := context.Background()
	ctx = context.WithValue(ctx, RequestIDKey, "req-456")
	ctx = context.WithValue(ctx, RoleKey, "admin")
	ctx = context.WithValue(ctx, SubjectKey, "Administrator")
	ctx = context.WithValue(ctx, ResourceKey, "properties")
	ctx = context.WithValue(ctx, ComponentKey, "catalog")

	assert.Equal(t, "req-456", ctx.Value(RequestIDKey))
	assert.Equal(t, "admin", ctx.Value(RoleKey))
	assert.Equal(t, "Administrator", ctx.Value(SubjectKey))
	assert.Equal(t, "properties", ctx.Value(ResourceKey))
	assert.Equal(t, "catalog", ctx.Value(ComponentKey))
	assert.Nil(t, ctx.Value(ClaimsKey))
}
