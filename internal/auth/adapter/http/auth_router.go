package http

import (
	"time"

	"v5c-properties/internal/auth/usecase"
	"v5c-properties/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// AuthHTTPHandler handles HTTP requests for authentication
type AuthHTTPHandler struct {
	usecase         usecase.AuthUsecaseInterface
	loginRateLimit  int
	loginRateWindow time.Duration
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, loginRateLimit int, loginRateWindow time.Duration) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		usecase:         uc,
		loginRateLimit:  loginRateLimit,
		loginRateWindow: loginRateWindow,
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware) {
	limited := RateLimiter(h.loginRateLimit, h.loginRateWindow)

	router.Post("/login", limited, h.Login)
	router.Post("/visitor", limited, h.Visitor)
	router.Get("/me", middleware.Protect(), h.Me)
}

// Login handles admin login
func (h *AuthHTTPHandler) Login(c *fiber.Ctx) error {
	var req usecase.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	principal, err := h.usecase.AdminLogin(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(principal)
}

// Visitor handles visitor sign-in
func (h *AuthHTTPHandler) Visitor(c *fiber.Ctx) error {
	var req usecase.VisitorRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	principal, err := h.usecase.VisitorLogin(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(principal)
}

// Me returns the caller's token claims
func (h *AuthHTTPHandler) Me(c *fiber.Ctx) error {
	claims, ok := GetClaims(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	resp := fiber.Map{
		"role": claims.Role,
		"name": claims.Name,
	}
	if claims.Email != "" {
		resp["email"] = claims.Email
	}
	if claims.ExpiresAt != nil {
		resp["expiresAt"] = claims.ExpiresAt.Time
	}
	return c.JSON(resp)
}

func respondError(c *fiber.Ctx, err error) error {
	return c.Status(errors.HTTPStatus(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}
