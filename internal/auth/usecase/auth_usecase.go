package usecase

import (
	"context"
	"fmt"
	"strings"

	"v5c-properties/internal/auth/config"
	"v5c-properties/internal/auth/domain/model"
	"v5c-properties/internal/auth/domain/repository"
	"v5c-properties/internal/shared/errors"
	"v5c-properties/internal/shared/logger"

	"golang.org/x/crypto/bcrypt"
)

// Messages shown to the browser as-is.
const (
	MsgInvalidAdminCredentials = "Invalid Admin Credentials"
	MsgMissingVisitorFields    = "Please fill in all fields."
	MsgInvalidToken            = "Invalid token"
)

var (
	ErrInvalidAdminCredentials = errors.NewAuthenticationError(MsgInvalidAdminCredentials)
	ErrMissingVisitorFields    = errors.NewValidationError(MsgMissingVisitorFields)
	ErrTokenInvalid            = errors.NewAuthenticationError(MsgInvalidToken)
)

// AuthUsecaseInterface defines the contract for authentication use cases.
type AuthUsecaseInterface interface {
	AdminLogin(ctx context.Context, req LoginRequest) (*model.Principal, error)
	VisitorLogin(ctx context.Context, req VisitorRequest) (*model.Principal, error)
	ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error)
}

// LoginRequest represents the admin login request
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// VisitorRequest represents a visitor sign-in
type VisitorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AuthUsecase implements the authentication logic.
type AuthUsecase struct {
	tokenSvc     repository.TokenService
	leads        repository.LeadRecorder
	config       *config.Config
	passwordHash []byte
	logger       logger.Logger
}

// NewAuthUsecase creates a new instance of AuthUsecase. When no bcrypt hash
// is configured the plain admin password is hashed once here, so login always
// compares through bcrypt. leads may be nil.
func NewAuthUsecase(
	tokenSvc repository.TokenService,
	leads repository.LeadRecorder,
	cfg *config.Config,
	log logger.Logger,
) (*AuthUsecase, error) {
	if log == nil {
		log = logger.Nop()
	}

	hash := []byte(cfg.AdminPasswordHash)
	if len(hash) == 0 {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash admin password: %w", err)
		}
	} else if _, err := bcrypt.Cost(hash); err != nil {
		return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
	}

	return &AuthUsecase{
		tokenSvc:     tokenSvc,
		leads:        leads,
		config:       cfg,
		passwordHash: hash,
		logger:       log.WithComponent("auth"),
	}, nil
}

// AdminLogin checks the configured admin credentials and issues an admin token.
func (uc *AuthUsecase) AdminLogin(ctx context.Context, req LoginRequest) (*model.Principal, error) {
	username := strings.TrimSpace(req.Username)
	passwordErr := bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(req.Password))
	if username != uc.config.AdminUsername || passwordErr != nil {
		uc.logger.WithContext(ctx).Warnf("Rejected admin login for %q", username)
		return nil, ErrInvalidAdminCredentials
	}

	principal := &model.Principal{
		Role: model.RoleAdmin,
		Name: uc.config.AdminDisplayName,
	}
	if err := uc.sign(ctx, principal); err != nil {
		return nil, err
	}
	uc.logger.WithContext(ctx).Info("Admin signed in")
	return principal, nil
}

// VisitorLogin records the visitor as a lead and issues a user token.
// Failing to record the lead does not fail the sign-in.
func (uc *AuthUsecase) VisitorLogin(ctx context.Context, req VisitorRequest) (*model.Principal, error) {
	principal := &model.Principal{
		Role:  model.RoleUser,
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
		Phone: strings.TrimSpace(req.Phone),
	}
	if principal.Name == "" || principal.Email == "" || principal.Phone == "" {
		return nil, ErrMissingVisitorFields
	}

	if uc.leads != nil {
		if err := uc.leads.RecordVisitor(ctx, principal.Name, principal.Email, principal.Phone); err != nil {
			uc.logger.WithContext(ctx).Warnf("Failed to record visitor lead for %s: %v", principal.Email, err)
		}
	}

	if err := uc.sign(ctx, principal); err != nil {
		return nil, err
	}
	return principal, nil
}

// ValidateToken validates a JWT string
func (uc *AuthUsecase) ValidateToken(ctx context.Context, tokenString string) (*repository.Claims, error) {
	claims, err := uc.tokenSvc.ValidateToken(ctx, tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func (uc *AuthUsecase) sign(ctx context.Context, principal *model.Principal) error {
	token, err := uc.tokenSvc.GenerateToken(ctx, principal)
	if err != nil {
		return fmt.Errorf("failed to generate token: %w", err)
	}
	principal.Token = token
	return nil
}
