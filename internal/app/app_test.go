package app

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnirag/console/internal/config"
)

func testConfig(t *testing.T, apiURL string) *config.Config {
	return &config.Config{
		AppPort:        0,
		APIBaseURL:     apiURL,
		DatabasePath:   filepath.Join(t.TempDir(), "console.db"),
		LogLevel:       "DEBUG",
		SessionsLimit:  50,
		HistoryLimit:   50,
		HistoryWindow:  5,
		RequestTimeout: 5 * time.Second,
	}
}

func TestNewApp(t *testing.T) {
	backend := httptest.NewServer(http.NotFoundHandler())
	defer backend.Close()

	app, err := NewApp(testConfig(t, backend.URL))
	require.NoError(t, err)
	require.NotNil(t, app)
	defer app.Close()

	assert.NotNil(t, app.DB)
	assert.NotNil(t, app.Server)
	assert.NotNil(t, app.Chat)
	assert.NotNil(t, app.Auth)
}

func TestNewApp_RoutesServeHealth(t *testing.T) {
	app, err := NewApp(testConfig(t, "http://127.0.0.1:1"))
	require.NoError(t, err)
	defer app.Close()

	rr := httptest.NewRecorder()
	app.Server.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestNewApp_TokenOverride(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	cfg.AccessToken = "from-env"
	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()

	status, err := app.Auth.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Configured)
	assert.Equal(t, "env", status.Source)
}

func TestServe_StopsOnCancel(t *testing.T) {
	cfg := testConfig(t, "http://127.0.0.1:1")
	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Close()
	app.Server.Addr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Serve(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	SetupLogger("warn", &buf)
	defer SetupLogger("INFO", &bytes.Buffer{})

	slog.Info("hidden")
	slog.Warn("shown")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, `"msg":"shown"`))
}
