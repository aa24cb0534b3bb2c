package di

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	authconfig "v5c-properties/internal/auth/config"
	"v5c-properties/internal/auth/usecase"
	"v5c-properties/internal/catalog/adapter/static"
	catalogconfig "v5c-properties/internal/catalog/config"
	"v5c-properties/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig() *catalogconfig.CatalogConfig {
	cfg := catalogconfig.DefaultCatalogConfig()
	cfg.StorageBackend = catalogconfig.StorageMemory
	return cfg
}

func TestContainer_InitializeMemoryBackend(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(logger.Nop())

	require.NoError(t, c.InitializeStorage(ctx, memoryConfig()))
	assert.Nil(t, c.MongoClient)
	assert.Nil(t, c.Redis)

	require.NoError(t, c.InitializeCatalog(ctx, static.Bundled()))
	require.NoError(t, c.InitializeAuth(authconfig.DefaultConfig()))

	assert.NotNil(t, c.GetCatalogModule())
	assert.NotNil(t, c.GetAuthModule())
	assert.NoError(t, c.HealthCheck(ctx))

	require.NoError(t, c.Close())
	assert.Nil(t, c.GetCatalogModule())
	assert.Nil(t, c.GetAuthModule())
	assert.Error(t, c.HealthCheck(ctx))
}

func TestContainer_InitializationOrder(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(nil)

	assert.Error(t, c.InitializeCatalog(ctx, static.Bundled()))
	assert.Error(t, c.InitializeAuth(authconfig.DefaultConfig()))
	assert.Error(t, c.HealthCheck(ctx))
}

func TestContainer_VisitorLoginRecordsLead(t *testing.T) {
	ctx := context.Background()
	c := NewContainer(logger.Nop())
	require.NoError(t, c.InitializeStorage(ctx, memoryConfig()))
	require.NoError(t, c.InitializeCatalog(ctx, static.Bundled()))
	require.NoError(t, c.InitializeAuth(authconfig.DefaultConfig()))
	t.Cleanup(func() { _ = c.Close() })

	principal, err := c.GetAuthModule().GetUsecase().VisitorLogin(ctx, usecase.VisitorRequest{
		Name:  "Omar",
		Email: "Omar@Example.com",
		Phone: "+971501234567",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, principal.Token)

	app := fiber.New()
	c.GetCatalogModule().RegisterRoutes(app.Group("/api"), nil)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/leads", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var leads []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&leads))
	require.Len(t, leads, 1)
	assert.Equal(t, "omar@example.com", leads[0]["email"])
	assert.Equal(t, "visitor-login", leads[0]["source"])
}
