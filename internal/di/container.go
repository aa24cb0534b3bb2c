package di

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"v5c-properties/internal/auth"
	authconfig "v5c-properties/internal/auth/config"
	"v5c-properties/internal/catalog"
	catalogconfig "v5c-properties/internal/catalog/config"
	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/logger"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const shutdownTimeout = 30 * time.Second

// Container owns the application's connections and modules and shuts them
// down in reverse order of initialization.
type Container struct {
	mu sync.RWMutex
	// Module instances
	AuthModule    *auth.AuthModule
	CatalogModule *catalog.CatalogModule
	// Connections
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
	// Configuration
	CatalogConfig *catalogconfig.CatalogConfig
	AuthConfig    *authconfig.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.NewLogger()
	}
	return &Container{Logger: log}
}

// InitializeStorage connects to MongoDB unless the memory backend is selected,
// and to Redis when it is enabled.
func (c *Container) InitializeStorage(ctx context.Context, cfg *catalogconfig.CatalogConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CatalogConfig = cfg

	if cfg.StorageBackend == catalogconfig.StorageMongo {
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		if err := client.Ping(ctx, nil); err != nil {
			_ = client.Disconnect(context.Background())
			return fmt.Errorf("failed to ping MongoDB: %w", err)
		}
		c.MongoClient = client
		c.MongoDB = client.Database(cfg.DatabaseName)
		c.Logger.Infof("MongoDB connection established (database %s)", cfg.DatabaseName)
	} else {
		c.Logger.Warn("Using in-memory storage; data is lost on restart")
	}

	if cfg.Redis.Enabled {
		client := catalogconfig.NewRedisClient(&cfg.Redis)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.GetAddr(), err)
		}
		c.Redis = client
		c.Logger.Infof("Redis connection established (%s)", cfg.Redis.GetAddr())
	}
	return nil
}

// InitializeCatalog builds the catalog module over the initialized storage.
func (c *Container) InitializeCatalog(ctx context.Context, content *model.StaticContent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CatalogConfig == nil {
		return errors.New("storage must be initialized before the catalog module")
	}

	module, err := catalog.NewCatalogModule(ctx, catalog.Dependencies{
		Config:  c.CatalogConfig,
		DB:      c.MongoDB,
		Redis:   c.Redis,
		Content: content,
		Logger:  c.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog module: %w", err)
	}
	c.CatalogModule = module
	return nil
}

// InitializeAuth initializes the authentication module. Visitor sign-ins are
// recorded as catalog leads.
func (c *Container) InitializeAuth(authConfig *authconfig.Config) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.CatalogModule == nil {
		return errors.New("catalog module must be initialized before the auth module")
	}

	c.AuthConfig = authConfig
	module, err := auth.NewAuthModule(authConfig, c.CatalogModule, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}
	c.AuthModule = module
	return nil
}

// GetAuthModule returns the auth module instance
func (c *Container) GetAuthModule() *auth.AuthModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.AuthModule
}

// GetCatalogModule returns the catalog module instance
func (c *Container) GetCatalogModule() *catalog.CatalogModule {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.CatalogModule
}

// HealthCheck performs health check on all registered services
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.CatalogModule == nil {
		return errors.New("catalog module is not initialized")
	}
	return c.CatalogModule.HealthCheck(ctx)
}

// Cleanup stops modules and closes connections in reverse order of initialization.
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop auth module: %w", err))
		}
		c.AuthModule = nil
	}
	if c.CatalogModule != nil {
		if err := c.CatalogModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop catalog module: %w", err))
		}
		c.CatalogModule = nil
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
		c.Redis = nil
	}
	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("disconnect mongodb: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}
	return errors.Join(errs...)
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close() error {
	c.Logger.Info("Closing DI container resources...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("Cleanup errors occurred: %v", err)
		return err
	}

	c.Logger.Info("DI container resources closed")
	return nil
}
