package auth

import (
	"fmt"

	authhttp "v5c-properties/internal/auth/adapter/http"
	"v5c-properties/internal/auth/adapter/security"
	"v5c-properties/internal/auth/config"
	"v5c-properties/internal/auth/domain/repository"
	"v5c-properties/internal/auth/usecase"
	"v5c-properties/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// AuthModule represents the complete authentication module
type AuthModule struct {
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
}

// NewAuthModule creates a new authentication module instance. leads receives
// visitor sign-ins and may be nil.
func NewAuthModule(cfg *config.Config, leads repository.LeadRecorder, log logger.Logger) (*AuthModule, error) {
	if log == nil {
		log = logger.Nop()
	}

	tokenSvc, err := security.NewJWTokenService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	authUsecase, err := usecase.NewAuthUsecase(tokenSvc, leads, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth usecase: %w", err)
	}

	if cfg.GeneratedSecret {
		log.WithComponent("auth").Warn("JWT_SECRET_KEY is not set; using a random secret, tokens will not survive a restart")
	}

	return &AuthModule{
		usecase:    authUsecase,
		handler:    authhttp.NewAuthHTTPHandler(authUsecase, cfg.LoginRateLimit, cfg.LoginRateWindow),
		middleware: authhttp.NewAuthMiddleware(authUsecase),
		config:     cfg,
	}, nil
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutesWithMiddleware(router, am.middleware)
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// WriteGuard returns the admin check for catalog writes.
func (am *AuthModule) WriteGuard() fiber.Handler {
	return am.middleware.RequireAdmin()
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
