package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v6"
)

// Storage backends
const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host        string `env:"SERVER_HOST"`
	Port        string `env:"PORT" envDefault:"5000"`
	BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"50"`

	// ProxyHeader names the header carrying the client IP, honoured only for
	// requests arriving from TrustedProxies.
	ProxyHeader    string   `env:"PROXY_HEADER"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

// BodyLimit returns the request body ceiling in bytes.
func (s ServerConfig) BodyLimit() int {
	return s.BodyLimitMB * 1024 * 1024
}

// RedisConfig holds connection settings for the change-event stream.
type RedisConfig struct {
	Enabled         bool   `env:"REDIS_ENABLED" envDefault:"false"`
	Host            string `env:"REDIS_HOST" envDefault:"localhost"`
	Port            string `env:"REDIS_PORT" envDefault:"6379"`
	Password        string `env:"REDIS_PASSWORD"`
	Database        int    `env:"REDIS_DB" envDefault:"0"`
	MaxRetries      int    `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	PoolSize        int    `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns    int    `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	EnableTLS       bool   `env:"REDIS_TLS" envDefault:"false"`
	ConnMaxIdleTime string `env:"REDIS_CONN_MAX_IDLE_TIME" envDefault:"30m"`
	ConnMaxLifetime string `env:"REDIS_CONN_MAX_LIFETIME" envDefault:"1h"`
	StreamName      string `env:"EVENT_STREAM" envDefault:"v5c:changes"`
	StreamMaxLength int64  `env:"EVENT_STREAM_MAX_LEN" envDefault:"1000"`
}

// GetAddr returns host:port.
func (r RedisConfig) GetAddr() string {
	return r.Host + ":" + r.Port
}

// RealtimeConfig holds settings for the WebSocket change feed.
type RealtimeConfig struct {
	WebSocketPath           string `env:"WEBSOCKET_PATH" envDefault:"/ws/changes"`
	ClientSendChannelBuffer int    `env:"CLIENT_SEND_CHANNEL_BUFFER" envDefault:"16"`
}

// CatalogConfig holds all configuration for the catalog module.
type CatalogConfig struct {
	MongoURI       string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	DatabaseName   string `env:"DATABASE_NAME" envDefault:"v5c_properties"`
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"mongo"`
	SeedOnStart    bool   `env:"SEED_ON_START" envDefault:"false"`
	ProtectWrites  bool   `env:"PROTECT_WRITES" envDefault:"false"`

	// StaticContentPath overrides the bundled fallback content when set.
	StaticContentPath string `env:"STATIC_CONTENT_PATH"`

	Server   ServerConfig
	Redis    RedisConfig
	Realtime RealtimeConfig
}

// LoadConfig loads configuration from environment variables and applies defaults.
func LoadConfig() (*CatalogConfig, error) {
	cfg := &CatalogConfig{}

	// Nested structs without an envPrefix are parsed by env.Parse as well.
	if err := env.Parse(cfg); err != nil {
		return nil, errors.New("failed to load catalog configuration from environment: " + err.Error())
	}

	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c *CatalogConfig) Validate() error {
	switch c.StorageBackend {
	case StorageMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo storage backend")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMongo, StorageMemory, c.StorageBackend)
	}
	if c.Server.BodyLimitMB <= 0 {
		return errors.New("BODY_LIMIT_MB must be positive")
	}
	if c.Server.ProxyHeader != "" && len(c.Server.TrustedProxies) == 0 {
		return errors.New("PROXY_HEADER requires TRUSTED_PROXIES")
	}
	if c.Realtime.ClientSendChannelBuffer <= 0 {
		c.Realtime.ClientSendChannelBuffer = 16
	}
	if c.Redis.StreamMaxLength <= 0 {
		c.Redis.StreamMaxLength = 1000
	}
	return nil
}

// DefaultCatalogConfig returns a CatalogConfig with default values.
func DefaultCatalogConfig() *CatalogConfig {
	return &CatalogConfig{
		MongoURI:       "mongodb://localhost:27017",
		DatabaseName:   "v5c_properties",
		StorageBackend: StorageMongo,
		Server: ServerConfig{
			Port:        "5000",
			BodyLimitMB: 50,
		},
		Redis: RedisConfig{
			Host:            "localhost",
			Port:            "6379",
			MaxRetries:      3,
			PoolSize:        10,
			MinIdleConns:    2,
			ConnMaxIdleTime: "30m",
			ConnMaxLifetime: "1h",
			StreamName:      "v5c:changes",
			StreamMaxLength: 1000,
		},
		Realtime: RealtimeConfig{
			WebSocketPath:           "/ws/changes",
			ClientSendChannelBuffer: 16,
		},
	}
}
