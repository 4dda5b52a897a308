package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmanMalviya08/Bill-app-backend/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		Environment: config.EnvTest,
		Port:        "0",
		LogLevel:    "error",
		Database: config.DatabaseConfig{
			Path:            filepath.Join(dir, "billing.db"),
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			BusyTimeout:     1000,
			AutoMigrate:     true,
		},
		Storage: config.StorageConfig{Type: "local", LocalPath: filepath.Join(dir, "reports")},
		Auth:    config.AuthConfig{Secret: "container-test-secret", ExpiryHours: 1},
		Reports: config.ReportConfig{TopSubcategories: 5, TopClients: 10, TopSpenders: 5},
	}
}

func TestNewContainer(t *testing.T) {
	cfg := testConfig(t)

	container, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer container.Close()

	require.NotNil(t, container.Services)
	assert.NotNil(t, container.Services.InvoiceService)
	assert.NotNil(t, container.Services.ReportService)
	assert.NotNil(t, container.Services.CatalogService)
	assert.NotNil(t, container.Services.ClientService)
	assert.NotNil(t, container.Services.CompanyService)
	assert.NotNil(t, container.Auth)
	assert.NoError(t, container.HealthCheck(context.Background()))

	w := httptest.NewRecorder()
	container.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"healthy"`)

	// Development routes are mounted outside production
	w = httptest.NewRecorder()
	container.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dev/config", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestContainerAuthentication(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.Enabled = true

	container, err := NewContainer(context.Background(), cfg)
	require.NoError(t, err)
	defer container.Close()

	w := httptest.NewRecorder()
	container.Router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := container.Auth.GenerateToken("u-1", "owner", []string{"admin"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/companies", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	container.Router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "error")
}

func TestContainerArchive(t *testing.T) {
	tests := []struct {
		name    string
		storage string
		status  int
	}{
		{"local archive", "local", http.StatusNotFound},
		{"memory archive", "memory", http.StatusNotFound},
		{"archiving disabled", "none", http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Storage.Type = tt.storage

			container, err := NewContainer(context.Background(), cfg)
			require.NoError(t, err)
			defer container.Close()

			w := httptest.NewRecorder()
			container.Router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/companies/none/branches/none/report/archive", nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestNewContainer_BadDatabasePath(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.Database.Path = filepath.Join(blocker, "billing.db")

	_, err := NewContainer(context.Background(), cfg)
	assert.Error(t, err)
}
