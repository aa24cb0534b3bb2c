// Command seed copies the bundled site content into empty collections and exits.
package main

import (
	"context"
	"log"
	"sort"
	"time"

	"v5c-properties/internal/catalog/adapter/static"
	catalogconfig "v5c-properties/internal/catalog/config"
	"v5c-properties/internal/di"
	"v5c-properties/internal/shared/logger"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := catalogconfig.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load catalog configuration: %v", err)
	}
	appLogger := logger.NewLogger().WithComponent("seed")
	if cfg.StorageBackend == catalogconfig.StorageMemory {
		appLogger.Warn("STORAGE_BACKEND=memory; seeded data will not outlive this process")
	}

	content, err := static.Load(cfg.StaticContentPath)
	if err != nil {
		appLogger.Fatalf("Failed to load static content: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	container := di.NewContainer(appLogger)
	if err := container.InitializeStorage(ctx, cfg); err != nil {
		appLogger.Fatalf("Failed to initialize storage: %v", err)
	}
	if err := container.InitializeCatalog(ctx, content); err != nil {
		_ = container.Close()
		appLogger.Fatalf("Failed to initialize catalog module: %v", err)
	}

	counts, seedErr := container.GetCatalogModule().Seed(ctx)

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		appLogger.Infof("%-13s %d inserted", name, counts[name])
	}

	if err := container.Close(); err != nil {
		appLogger.Errorf("Failed to close container: %v", err)
	}
	if seedErr != nil {
		appLogger.Fatalf("Seeding failed: %v", seedErr)
	}
}
