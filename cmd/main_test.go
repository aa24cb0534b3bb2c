package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authconfig "v5c-properties/internal/auth/config"
	"v5c-properties/internal/catalog/adapter/static"
	catalogconfig "v5c-properties/internal/catalog/config"
	"v5c-properties/internal/di"
	"v5c-properties/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, protectWrites bool) *fiber.App {
	t.Helper()
	catalogCfg := catalogconfig.DefaultCatalogConfig()
	catalogCfg.ProtectWrites = protectWrites
	return newTestServerWithConfig(t, catalogCfg)
}

func newTestServerWithConfig(t *testing.T, catalogCfg *catalogconfig.CatalogConfig) *fiber.App {
	t.Helper()
	ctx := context.Background()

	catalogCfg.StorageBackend = catalogconfig.StorageMemory
	authCfg := authconfig.DefaultConfig()

	container := di.NewContainer(logger.Nop())
	require.NoError(t, container.InitializeStorage(ctx, catalogCfg))
	require.NoError(t, container.InitializeCatalog(ctx, static.Bundled()))
	require.NoError(t, container.InitializeAuth(authCfg))
	t.Cleanup(func() { _ = container.Close() })

	return newApp(container, catalogCfg, authCfg, logger.Nop())
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestServer_Liveness(t *testing.T) {
	app := newTestServer(t, false)

	resp, raw := do(t, app, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "V5C Properties API is running", string(raw))
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

func TestServer_Health(t *testing.T) {
	app := newTestServer(t, false)

	resp, raw := do(t, app, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "HEALTHY", body["status"])
	assert.Equal(t, "memory", body["storage"])
	assert.Equal(t, false, body["events"])
}

func TestServer_UnknownRouteUsesErrorEnvelope(t *testing.T) {
	app := newTestServer(t, false)

	resp, raw := do(t, app, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Cannot GET /nope"}`, string(raw))
}

func TestServer_OpenWritesByDefault(t *testing.T) {
	app := newTestServer(t, false)

	resp, raw := do(t, app, http.MethodPost, "/api/properties", `{"title":"Marina Loft"}`, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, raw = do(t, app, http.MethodGet, "/api/site", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "Marina Loft")
}

func TestServer_ProtectedWrites(t *testing.T) {
	app := newTestServer(t, true)

	resp, _ := do(t, app, http.MethodPost, "/api/properties", `{"title":"Marina Loft"}`, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw := do(t, app, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"admin"}`, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))
	var login map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &login))
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	resp, raw = do(t, app, http.MethodPost, "/api/properties", `{"title":"Marina Loft"}`, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	// Reads and public submissions stay open.
	resp, _ = do(t, app, http.MethodGet, "/api/properties", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, raw = do(t, app, http.MethodPost, "/api/leads", `{"name":"Omar","email":"omar@example.com","phone":"+971501234567"}`, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	// Lead contact details are admin-only.
	resp, _ = do(t, app, http.MethodGet, "/api/leads", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp, raw = do(t, app, http.MethodGet, "/api/leads", "", token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "omar@example.com")
}

func TestServer_BodyLimitOnListener(t *testing.T) {
	catalogCfg := catalogconfig.DefaultCatalogConfig()
	catalogCfg.Server.BodyLimitMB = 1
	app := newTestServerWithConfig(t, catalogCfg)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	send := func(body string, contentLength int) (*http.Response, []byte) {
		conn, err := net.DialTimeout("tcp", ln.Addr().String(), 5*time.Second)
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

		_, err = fmt.Fprintf(conn, "POST /api/properties HTTP/1.1\r\nHost: localhost\r\nContent-Type: application/json\r\nContent-Length: %d\r\nConnection: close\r\n\r\n%s", contentLength, body)
		require.NoError(t, err)

		resp, err := http.ReadResponse(bufio.NewReader(conn), nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp, raw
	}

	// The declared length is checked before the body is read.
	resp, raw := send("", 2*1024*1024)
	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Request Entity Too Large"}`, string(raw))

	body := `{"title":"Marina Loft"}`
	resp, raw = send(body, len(body))
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
}

func TestServer_CreatedAtStableAcrossReads(t *testing.T) {
	app := newTestServer(t, false)

	resp, raw := do(t, app, http.MethodPost, "/api/services", `{"title":"Golden Visa"}`, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &created))
	id, _ := created["_id"].(string)
	require.NotEmpty(t, id)

	resp, raw = do(t, app, http.MethodGet, "/api/services/"+id, "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fetched))

	assert.Equal(t, created["createdAt"], fetched["createdAt"])
	assert.Equal(t, created["updatedAt"], fetched["updatedAt"])
}
