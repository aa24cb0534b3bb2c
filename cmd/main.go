package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	authhttp "v5c-properties/internal/auth/adapter/http"
	authconfig "v5c-properties/internal/auth/config"
	cataloghttp "v5c-properties/internal/catalog/adapter/http"
	"v5c-properties/internal/catalog/adapter/static"
	catalogconfig "v5c-properties/internal/catalog/config"
	"v5c-properties/internal/di"
	sharederrors "v5c-properties/internal/shared/errors"
	"v5c-properties/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
	healthTimeout   = 5 * time.Second
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	catalogCfg, err := catalogconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load catalog configuration: %v", err)
	}
	authCfg, err := authconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load auth configuration: %v", err)
	}

	appLogger := logger.NewLogger()
	appLogger.Info("Application configuration loaded successfully")

	content, err := static.Load(catalogCfg.StaticContentPath)
	if err != nil {
		appLogger.Fatalf("Failed to load static content: %v", err)
	}

	container := di.NewContainer(appLogger)
	defer func() {
		if err := container.Close(); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := container.InitializeStorage(ctx, catalogCfg); err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}
	if err := container.InitializeCatalog(ctx, content); err != nil {
		appLogger.Fatalf("Failed to initialize catalog module: %v", err)
	}
	if err := container.InitializeAuth(authCfg); err != nil {
		appLogger.Fatalf("Failed to initialize auth module: %v", err)
	}
	appLogger.Info("Modules initialized successfully")

	if catalogCfg.SeedOnStart {
		counts, err := container.GetCatalogModule().Seed(ctx)
		if err != nil {
			appLogger.Errorf("Seeding failed: %v", err)
		} else {
			appLogger.WithFields(toFields(counts)).Info("Seeded empty collections")
		}
	}

	app := newApp(container, catalogCfg, authCfg, appLogger)

	serverAddr := catalogCfg.Server.Addr()
	appLogger.Infof("Starting HTTP server on %s", serverAddr)

	// Start server in a goroutine for graceful shutdown
	serverShutdown := make(chan error, 1)
	go func() {
		serverShutdown <- app.Listen(serverAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverShutdown:
		if err != nil {
			appLogger.Errorf("Server failed: %v", err)
		}
	case sig := <-quit:
		appLogger.Infof("Received shutdown signal: %v", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// Disconnect WebSocket subscribers first so their handlers return.
		_ = container.GetCatalogModule().Stop()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Errorf("Server forced to shutdown: %v", err)
		}
		appLogger.Info("HTTP server stopped")
	}
}

// newApp builds the Fiber application over an initialized container.
func newApp(container *di.Container, catalogCfg *catalogconfig.CatalogConfig, authCfg *authconfig.Config, appLogger logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:                 "V5C Properties API",
		BodyLimit:               catalogCfg.Server.BodyLimit(),
		ProxyHeader:             catalogCfg.Server.ProxyHeader,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          catalogCfg.Server.TrustedProxies,
		EnableIPValidation:      true,
		ReadTimeout:             30 * time.Second,
		WriteTimeout:            30 * time.Second,
		IdleTimeout:             60 * time.Second,
		ErrorHandler:            func(c *fiber.Ctx, err error) error {
			code := sharederrors.HTTPStatus(err)
			message := "Internal Server Error"
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
				message = fe.Message
			} else if code != fiber.StatusInternalServerError {
				message = err.Error()
			}
			if code >= fiber.StatusInternalServerError {
				appLogger.Errorf("HTTP error on %s %s: %v", c.Method(), c.Path(), err)
			}
			return c.Status(code).JSON(fiber.Map{"error": message})
		},
	})

	app.Use(recover.New())
	app.Use(authhttp.RequestID())
	app.Use(cataloghttp.RequestContext(authhttp.RequestIDLocalsKey))
	app.Use(cataloghttp.AccessLog(appLogger))
	app.Use(authhttp.CORS(authCfg.CORSAllowOrigins))
	app.Use(authhttp.SecurityHeaders())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("V5C Properties API is running")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		healthCtx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()

		if err := container.HealthCheck(healthCtx); err != nil {
			appLogger.Errorf("Health check failed: %v", err)
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "UNHEALTHY",
				"error":  err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"storage":   catalogCfg.StorageBackend,
			"events":    catalogCfg.Redis.Enabled,
			"timestamp": time.Now().UTC(),
		})
	})

	authModule := container.GetAuthModule()
	catalogModule := container.GetCatalogModule()

	api := app.Group("/api", authModule.GetMiddleware().OptionalAuth())
	authModule.RegisterRoutes(api.Group("/auth"))

	var writeGuard fiber.Handler
	if catalogCfg.ProtectWrites {
		writeGuard = authModule.WriteGuard()
		appLogger.Info("Catalog writes require an admin token")
	}
	catalogModule.RegisterRoutes(api, writeGuard)
	catalogModule.RegisterRealtime(app)

	return app
}

func toFields(counts map[string]int) map[string]interface{} {
	fields := make(map[string]interface{}, len(counts))
	for name, n := range counts {
		fields[name] = n
	}
	return fields
}
