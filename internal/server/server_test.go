package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sales-dashboard/internal/analytics"
	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
	"sales-dashboard/internal/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServer(t *testing.T) *Server {
	t.Helper()
	a := services.NewAnalytics(analytics.DefaultOptions(), config.DefaultPresentation(), testLogger())
	a.SetData([]models.Transaction{
		{BusinessUnit: "Decathlon Makati", Month: "June", TimeOfDay: "9 AM-10 AM", TransactionID: "T1", CustomerID: "C1", Quantity: 1, UnitPrice: 100, Model: "M1"},
	})
	return NewServer(a, testLogger(), nil)
}

func TestServer_Routes(t *testing.T) {
	srv := testServer(t)

	tests := []struct {
		target      string
		status      int
		contentType string
	}{
		{"/", http.StatusOK, "text/html; charset=utf-8"},
		{"/health", http.StatusOK, "application/json"},
		{"/admin/stats", http.StatusOK, "application/json"},
		{"/api/dimensions", http.StatusOK, "application/json"},
		{"/api/charts", http.StatusOK, "application/json"},
		{"/api/charts/avg-basket-value", http.StatusOK, "application/json"},
		{"/api/charts/nope", http.StatusNotFound, "application/json"},
		{"/charts/top-models.svg", http.StatusOK, "image/svg+xml"},
		{"/sse/dashboard", http.StatusOK, "text/event-stream"},
		{"/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.contentType != "" {
				assert.Contains(t, w.Header().Get("Content-Type"), tt.contentType)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	w := httptest.NewRecorder()
	testServer(t).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/charts", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_TemplateOverride(t *testing.T) {
	a := services.NewAnalytics(analytics.DefaultOptions(), config.DefaultPresentation(), testLogger())
	srv := NewServer(a, testLogger(), &TemplateHandlers{
		Dashboard: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) },
	})

	w := httptest.NewRecorder()
	srv.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestGracefulServer_RunShutsDownOnCancel(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: 5 * time.Second}}
	httpServer := &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), cfg)

	var hookRan atomic.Bool
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		hookRan.Store(true)
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.True(t, hookRan.Load())
}

func TestGracefulServer_HookError(t *testing.T) {
	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: 5 * time.Second}}
	httpServer := &http.Server{Addr: freeAddr(t), Handler: http.NotFoundHandler()}
	gs := NewGracefulServer(httpServer, testLogger(), cfg)

	hookErr := errors.New("flush failed")
	gs.RegisterShutdownHook(func(ctx context.Context) error { return hookErr })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- gs.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, hookErr)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestGracefulServer_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := &config.Config{Server: config.ServerConfig{ShutdownTimeout: time.Second}}
	gs := NewGracefulServer(&http.Server{Addr: l.Addr().String()}, testLogger(), cfg)

	err = gs.Run(context.Background())
	assert.Error(t, err)
}
