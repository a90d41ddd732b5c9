package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/locallibrary/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		HTTP:     config.HTTP{RequestTimeout: 5 * time.Second},
		Database: config.Database{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "library.db"), LogLevel: "silent"},
		Audit:    config.Audit{Enabled: true, RetentionDays: 30, CleanupSchedule: "0 3 * * *"},
		Tasks:    config.Tasks{Enabled: true, Workers: 1, ReleaseAfter: time.Minute, CleanupInterval: time.Hour},
		Metrics:  config.Metrics{Enabled: true, Path: "/metrics"},
	}
}

func TestNewApp_WiresEnabledComponents(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)

	app, err := NewApp(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, app.Start(ctx))
	defer app.Shutdown(context.Background())

	assert.NotNil(t, app.Audit)
	assert.NotNil(t, app.Metrics)
	assert.NotNil(t, app.Tasks)
	assert.True(t, app.Scheduler.IsRunning())

	router := app.Router(cfg, "test")
	for _, path := range []string{"/catalog", "/health", "/metrics", "/catalog/audit"} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"tasks": "ok"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/catalog/audit/cleanup", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestNewApp_OptionalComponentsDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Audit.Enabled = false
	cfg.Metrics.Enabled = false

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	assert.Nil(t, app.Audit)
	assert.Nil(t, app.Metrics)
	assert.Nil(t, app.Tasks, "cleanup queue needs the audit trail")

	router := app.Router(cfg, "test")
	for path, want := range map[string]int{
		"/catalog":       http.StatusOK,
		"/metrics":       http.StatusNotFound,
		"/catalog/audit": http.StatusNotFound,
	} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, path)
	}
}

func TestNewApp_ExplicitTasksDBPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Tasks.DBPath = filepath.Join(t.TempDir(), "queue", "jobs.db")
	require.NoError(t, os.MkdirAll(filepath.Dir(cfg.Tasks.DBPath), 0o755))

	app, err := NewApp(cfg)
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	_, err = os.Stat(cfg.Tasks.DBPath)
	assert.NoError(t, err, "queue database should be created at the configured path")
	_, err = os.Stat(filepath.Join(filepath.Dir(cfg.Database.Path), "library-tasks.db"))
	assert.True(t, os.IsNotExist(err), "no queue file next to the catalog")
}

func TestNewApp_InvalidSchedule(t *testing.T) {
	cfg := testConfig(t)
	cfg.Audit.CleanupSchedule = "every day"

	_, err := NewApp(cfg)
	assert.Error(t, err)
}
