package repository

import (
	"context"

	"v5c-properties/internal/auth/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService defines the interface for token operations
type TokenService interface {
	GenerateToken(ctx context.Context, principal *model.Principal) (string, error)
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents JWT claims
type Claims struct {
	Role  model.Role `json:"role"`
	Name  string     `json:"name"`
	Email string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims carry role.
func (c *Claims) HasRole(role model.Role) bool {
	return c != nil && c.Role == role
}
