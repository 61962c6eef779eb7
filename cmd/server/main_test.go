package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dex-mcp-server/internal/config"
	"dex-mcp-server/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApplication(t *testing.T) *application {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Audit.Enabled = false
	cfg.Cache.Enabled = false

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app, err := buildApplication(ctx, cfg, logging.NewNoopLogger())
	require.NoError(t, err)
	t.Cleanup(app.close)
	return app
}

func TestBuildApplicationWithoutOptionalBackends(t *testing.T) {
	app := newTestApplication(t)

	assert.NotNil(t, app.client)
	assert.NotNil(t, app.dexServer)
	assert.NotNil(t, app.hub)
	assert.Nil(t, app.store)
	assert.Nil(t, app.limiter)
	assert.Nil(t, app.redis)
}

func TestHandleMCPToolsList(t *testing.T) {
	app := newTestApplication(t)

	body, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader(body))
	app.handleMCP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp["error"])
	assert.NotNil(t, resp["result"])
}

func TestHandleMCPRejectsInvalidJSON(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewReader([]byte("not json")))
	app.handleMCP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleMCPPreflight(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(methodOptions, "/mcp", nil)
	app.handleMCP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHandleHealth(t *testing.T) {
	app := newTestApplication(t)

	rec := httptest.NewRecorder()
	app.handleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "healthy", status["status"])
}

func TestDispatchList(t *testing.T) {
	app := newTestApplication(t)

	resp := app.dispatchList(httptest.NewRequest(http.MethodGet, "/api/v1/prompts", nil), "prompts/list")
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.NotNil(t, resp.Result)
}
