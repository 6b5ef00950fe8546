package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-board-sync/internal/config"
	"github.com/MKhiriev/go-board-sync/internal/logger"
	"github.com/MKhiriev/go-board-sync/internal/service"
	"github.com/MKhiriev/go-board-sync/internal/store"
)

// newBoardRouter поднимает полный стек сервера поверх sqlite во временной
// директории.
func newBoardRouter(t *testing.T, cfg config.ServerConfig) (*Handler, http.Handler) {
	t.Helper()

	storages, err := store.NewStorages(context.Background(), config.DB{DSN: filepath.Join(t.TempDir(), "server.db")}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = storages.Close() })

	services, err := service.NewServices(storages, config.App{Version: "test-version"}, logger.Nop())
	require.NoError(t, err)

	h := NewHandler(services, cfg, logger.Nop())
	return h, h.Init()
}

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()
	cfg := config.ServerConfig{
		App:    config.App{HashKey: "k"},
		Server: config.Server{Latency: 5 * time.Millisecond, FailureRate: 0.25},
	}

	h := NewHandler(svc, cfg, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.Equal(t, "k", h.hashKey)

	latency, rate := h.chaos.settings()
	assert.Equal(t, 5*time.Millisecond, latency)
	assert.InDelta(t, 0.25, rate, 1e-9)
}

// ─────────────────────────────────────────────
// Init: route registration
// ─────────────────────────────────────────────

func TestInit_RegistersAllRoutes(t *testing.T) {
	_, router := newBoardRouter(t, config.ServerConfig{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/board"},
		{http.MethodGet, "/api/health"},
		{http.MethodGet, "/api/version"},
		{http.MethodPost, "/api/reset"},
		{http.MethodPost, "/api/config"},
		{http.MethodPost, "/api/lists"},
		{http.MethodPut, "/api/lists/l1"},
		{http.MethodDelete, "/api/lists/l1"},
		{http.MethodPost, "/api/cards"},
		{http.MethodPut, "/api/cards/c1"},
		{http.MethodDelete, "/api/cards/c1"},
		{http.MethodPost, "/api/reorder"},
	}

	for _, tc := range routes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))

			// без тела handler вернёт 400, но не 404/405
			assert.NotEqual(t, http.StatusNotFound, rec.Code)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code)
		})
	}
}

func TestInit_UnknownRouteReturns404(t *testing.T) {
	_, router := newBoardRouter(t, config.ServerConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_WrongMethodReturns404(t *testing.T) {
	_, router := newBoardRouter(t, config.ServerConfig{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/board", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
