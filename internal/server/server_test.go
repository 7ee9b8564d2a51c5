package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/hidden-gems/internal/app/middleware"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/config"
	"github.com/FACorreiaa/hidden-gems/internal/pkg/storage"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	srv, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	srv.SetRouter(SetupRouter(srv))
	return srv
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":{"active":0,"resumed":0,"created":0,"evictions":0}}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set(middleware.DeviceIDHeader, "device-1")
	srv.HTTPServer().Handler.ServeHTTP(httptest.NewRecorder(), req)

	w = httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.JSONEq(t, `{"status":"ok","sessions":{"active":1,"resumed":0,"created":1,"evictions":0}}`, w.Body.String())
}

func TestServer_StorageDrivers(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		wantErr bool
	}{
		{name: "memory", driver: storage.DriverMemory},
		{name: "badger", driver: storage.DriverBadger},
		{name: "unknown", driver: "etcd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Repositories.Driver = tt.driver
			cfg.Repositories.Badger.Path = filepath.Join(t.TempDir(), "badger")

			srv, err := New(context.Background(), cfg, zap.NewNop())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer srv.Close()
			require.NoError(t, srv.Store().Set(context.Background(), "k", "v"))
		})
	}
}

func TestServer_SearchWithoutAPIKey(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.Gemini.APIKey = "" })

	body := `{"prompt":"quiet beaches","mode":"specific_location","locationQuery":"Porto"}`
	req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.DeviceIDHeader, "device-1")
	w := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"appState":"error"`)
	assert.Equal(t, 1, srv.Registry().Stats().Active)
}

func TestServer_SearchRateLimited(t *testing.T) {
	srv := newTestServer(t, func(cfg *config.Config) { cfg.SearchRatePerMinute = 1 })

	do := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/search", strings.NewReader(`{"prompt":"","mode":"specific_location"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(middleware.DeviceIDHeader, "device-1")
		w := httptest.NewRecorder()
		srv.HTTPServer().Handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func TestServer_SwaggerDoc(t *testing.T) {
	srv := newTestServer(t, nil)

	w := httptest.NewRecorder()
	srv.HTTPServer().Handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/search"`)
	assert.Contains(t, w.Body.String(), `"Hidden Gems API"`)
}
