package http

import (
	"strings"
	"time"

	"v5c-properties/internal/auth/domain/model"
	"v5c-properties/internal/auth/domain/repository"
	"v5c-properties/internal/auth/usecase"
	"v5c-properties/internal/shared/contextkeys"
	"v5c-properties/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestIDLocalsKey is where the requestid middleware stores the id.
const RequestIDLocalsKey = "requestid"

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase usecase.AuthUsecaseInterface
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface) *AuthMiddleware {
	return &AuthMiddleware{usecase: uc}
}

// CORS allows the storefront to call the API from another origin. Tokens
// travel in the Authorization header, so credentials are not enabled.
func CORS(allowOrigins string) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Requested-With,X-Request-ID",
		MaxAge:       86400,
	})
}

// SecurityHeaders adds security headers
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	}
}

// RequestID assigns or propagates X-Request-ID.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		ContextKey: RequestIDLocalsKey,
	})
}

// RateLimiter limits login attempts per client IP. Forwarded headers only
// count when the app trusts the proxy that set them.
func RateLimiter(max int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Rate limit exceeded. Please try again later.",
			})
		},
	})
}

// Protect returns middleware that requires a valid token of any role
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := m.authenticate(c)
		if !ok {
			return nil
		}
		m.attach(c, claims)
		return c.Next()
	}
}

// RequireAdmin returns middleware that only lets admin tokens through. It is
// the write guard for protected catalog resources.
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := m.authenticate(c)
		if !ok {
			return nil
		}
		if !claims.HasRole(model.RoleAdmin) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Insufficient permissions",
			})
		}
		m.attach(c, claims)
		return c.Next()
	}
}

// OptionalAuth middleware that optionally validates authentication
func (m *AuthMiddleware) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return c.Next()
		}
		claims, err := m.usecase.ValidateToken(c.UserContext(), token)
		if err == nil {
			m.attach(c, claims)
		}
		return c.Next()
	}
}

// authenticate validates the request token. When it fails the 401 response
// has already been written and ok is false.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*repository.Claims, bool) {
	token := extractToken(c)
	if token == "" {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
		return nil, false
	}

	claims, err := m.usecase.ValidateToken(c.UserContext(), token)
	if err != nil {
		_ = c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": usecase.MsgInvalidToken,
		})
		return nil, false
	}
	return claims, true
}

func (m *AuthMiddleware) attach(c *fiber.Ctx, claims *repository.Claims) {
	ctx := utils.WithRole(c.UserContext(), string(claims.Role))
	ctx = utils.WithSubject(ctx, claims.Name)
	c.SetUserContext(ctx)
	c.Locals(contextkeys.ClaimsKey, claims)
}

// GetClaims returns the claims attached by Protect, RequireAdmin or OptionalAuth.
func GetClaims(c *fiber.Ctx) (*repository.Claims, bool) {
	claims, ok := c.Locals(contextkeys.ClaimsKey).(*repository.Claims)
	return claims, ok
}

// extractToken reads a bearer token from the Authorization header, falling
// back to the token query parameter used by WebSocket clients.
func extractToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	return c.Query("token")
}
