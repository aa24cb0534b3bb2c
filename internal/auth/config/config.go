package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"
)

// Config holds all configuration for the auth module.
type Config struct {
	// Admin credentials. AdminPasswordHash, when set, is a bcrypt hash and
	// takes precedence over AdminPassword.
	AdminUsername     string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword     string `env:"ADMIN_PASSWORD" envDefault:"admin"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	AdminDisplayName  string `env:"ADMIN_DISPLAY_NAME" envDefault:"Administrator"`

	// JWT Configuration
	JWTSecretKey   string        `env:"JWT_SECRET_KEY"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"v5c-properties"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`

	// GeneratedSecret is true when no JWT_SECRET_KEY was configured and a
	// random one was created. Tokens then do not survive a restart.
	GeneratedSecret bool `env:"-"`

	// Rate limit for the login endpoints, per client IP.
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT" envDefault:"10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW" envDefault:"1m"`

	CORSAllowOrigins string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load auth configuration from environment: " + err.Error())
	}

	cfg.AdminUsername = strings.TrimSpace(cfg.AdminUsername)
	if cfg.JWTSecretKey == "" {
		cfg.JWTSecretKey = uuid.NewString() + uuid.NewString()
		cfg.GeneratedSecret = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the module cannot run with.
func (c *Config) Validate() error {
	if c.AdminUsername == "" {
		return errors.New("admin_username is required")
	}
	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("admin_password or admin_password_hash is required")
	}
	if c.JWTSecretKey == "" {
		return errors.New("jwt_secret_key is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("access_token_ttl must be positive")
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("login_rate_limit must be positive")
	}
	return nil
}

// DefaultConfig returns the configuration used by tests and local runs.
func DefaultConfig() *Config {
	return &Config{
		AdminUsername:    "admin",
		AdminPassword:    "admin",
		AdminDisplayName: "Administrator",
		JWTSecretKey:     "dev-secret-key-change-me-in-production",
		JWTIssuer:        "v5c-properties",
		AccessTokenTTL:   24 * time.Hour,
		LoginRateLimit:   10,
		LoginRateWindow:  time.Minute,
		CORSAllowOrigins: "*",
	}
}
