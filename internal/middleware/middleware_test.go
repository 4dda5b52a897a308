package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() (*logrus.Logger, *test.Hook) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger, test.NewLocal(logger)
}

func perform(r http.Handler, method, path string, headers map[string]string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://shop.example"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/x", map[string]string{"Origin": "https://shop.example"}, "")
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = perform(r, http.MethodGet, "/x", map[string]string{"Origin": "https://evil.example"}, "")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	w = perform(r, http.MethodOptions, "/x", nil, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	open := gin.New()
	open.Use(CORS([]string{"*"}))
	open.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	w = perform(open, http.MethodGet, "/x", map[string]string{"Origin": "https://any.example"}, "")
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestAndCorrelationID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), CorrelationID())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(RequestIDKey)+"|"+c.GetString(CorrelationIDKey))
	})

	w := perform(r, http.MethodGet, "/x", map[string]string{"X-Request-ID": "req-1"}, "")
	assert.Equal(t, "req-1|req-1", w.Body.String())
	assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))

	w = perform(r, http.MethodGet, "/x", map[string]string{"X-Correlation-ID": "corr-9"}, "")
	parts := strings.Split(w.Body.String(), "|")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 36)
	assert.Equal(t, "corr-9", parts[1])
}

func TestAuthService(t *testing.T) {
	svc := NewAuthService(&AuthConfig{JWTSecret: "test-secret-0123456789", TokenDuration: time.Hour})

	token, err := svc.GenerateToken("u1", "asha", []string{"accountant"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, []string{"accountant"}, claims.Roles)
	assert.Equal(t, defaultIssuer, claims.Issuer)

	refreshed, err := svc.RefreshToken(token)
	require.NoError(t, err)
	_, err = svc.ValidateToken(refreshed)
	assert.NoError(t, err)

	other := NewAuthService(&AuthConfig{JWTSecret: "another-secret-0123456789"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err)

	wrongIssuer := NewAuthService(&AuthConfig{JWTSecret: "test-secret-0123456789", Issuer: "someone-else"})
	_, err = wrongIssuer.ValidateToken(token)
	assert.Error(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.Error(t, err, "expired token must be rejected")
}

func TestAuthenticationAndAuthorization(t *testing.T) {
	logger, hook := testLogger()
	svc := NewAuthService(&AuthConfig{JWTSecret: "test-secret-0123456789"})

	r := gin.New()
	r.Use(RequestID())
	api := r.Group("/api", Authentication(svc, logger))
	api.GET("/companies/:companyId/clients", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(UserIDKey))
	})
	api.DELETE("/companies/:companyId", Authorization(logger, string(RoleAdmin)), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cashier, err := svc.GenerateToken("u1", "asha", []string{"cashier"})
	require.NoError(t, err)
	admin, err := svc.GenerateToken("u2", "root", []string{"admin"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		status int
	}{
		{"missing header", http.MethodGet, "/api/companies/c1/clients", "", http.StatusUnauthorized},
		{"malformed header", http.MethodGet, "/api/companies/c1/clients", "Token abc", http.StatusUnauthorized},
		{"bad token", http.MethodGet, "/api/companies/c1/clients", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", http.MethodGet, "/api/companies/c1/clients", "Bearer " + cashier, http.StatusOK},
		{"lower case scheme", http.MethodGet, "/api/companies/c1/clients", "bearer " + cashier, http.StatusOK},
		{"role required", http.MethodDelete, "/api/companies/c1", "Bearer " + cashier, http.StatusForbidden},
		{"admin role", http.MethodDelete, "/api/companies/c1", "Bearer " + admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{"X-Request-ID": "req-auth"}
			if tt.auth != "" {
				headers["Authorization"] = tt.auth
			}
			w := perform(r, tt.method, tt.path, headers, "")
			assert.Equal(t, tt.status, w.Code)
			if tt.status >= 400 {
				resp := decodeError(t, w)
				assert.Equal(t, "req-auth", resp.RequestID)
				assert.NotEmpty(t, resp.Error)
			}
		})
	}

	found := false
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Token validation failed" {
			found = true
		}
	}
	assert.True(t, found, "expected a warning for the bad token")
}

func TestRateLimiter(t *testing.T) {
	logger, hook := testLogger()

	r := gin.New()
	r.Use(RateLimiter(logger, 1, 2))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, perform(r, http.MethodGet, "/x", nil, "").Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "Rate limit exceeded", hook.LastEntry().Message)

	// A different client has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	disabled := gin.New()
	disabled.Use(RateLimiter(logger, 0, 0))
	disabled.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, perform(disabled, http.MethodGet, "/x", nil, "").Code)
	}
}

func TestClientLimiter_EvictsIdleVisitors(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	l := newClientLimiter(1, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))

	now = now.Add(11 * time.Minute)
	assert.True(t, l.allow("b"))
	_, stillThere := l.visitors["a"]
	assert.False(t, stillThere)
}

func TestErrorHandler(t *testing.T) {
	logger, _ := testLogger()

	type payload struct {
		Name string `validate:"required"`
	}

	r := gin.New()
	r.Use(RequestID(), ErrorHandler(logger))
	r.GET("/bind", func(c *gin.Context) {
		err := validator.New().Struct(payload{})
		_ = c.Error(err).SetType(gin.ErrorTypeBind)
	})
	r.GET("/private", func(c *gin.Context) {
		_ = c.Error(errors.New("database exploded"))
	})
	r.GET("/handled", func(c *gin.Context) {
		_ = c.Error(errors.New("already answered"))
		c.JSON(http.StatusConflict, gin.H{"error": "DUPLICATE"})
	})

	w := perform(r, http.MethodGet, "/bind", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error)
	require.Len(t, resp.ValidationErrors, 1)
	assert.Equal(t, "Name is required", resp.ValidationErrors[0].Message)

	w = perform(r, http.MethodGet, "/private", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp = decodeError(t, w)
	assert.NotContains(t, resp.Message, "exploded")

	w = perform(r, http.MethodGet, "/handled", nil, "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestContentTypeAndSizeLimits(t *testing.T) {
	r := gin.New()
	r.Use(ContentTypeValidation(), RequestSizeLimit(16))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := perform(r, http.MethodPost, "/x", map[string]string{"Content-Type": "application/json; charset=utf-8"}, `{"a":1}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodPost, "/x", map[string]string{"Content-Type": "text/plain"}, "hello")
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = perform(r, http.MethodPost, "/x", map[string]string{"Content-Type": "application/json"}, `{"name":"far too long for the limit"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	w = perform(r, http.MethodPost, "/x", nil, "")
	assert.Equal(t, http.StatusCreated, w.Code, "bodiless POST needs no content type")
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/swagger/index.html", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := perform(r, http.MethodGet, "/api/x", nil, "")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))

	w = perform(r, http.MethodGet, "/swagger/index.html", nil, "")
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
}

func TestAuditLogger(t *testing.T) {
	logger, hook := testLogger()

	r := gin.New()
	r.Use(RequestID(), AuditLogger(logger))
	r.POST("/api/v1/companies/:companyId/branches/:branchId/invoices", func(c *gin.Context) { c.Status(http.StatusCreated) })
	r.GET("/api/v1/companies/:companyId", func(c *gin.Context) { c.Status(http.StatusOK) })

	perform(r, http.MethodGet, "/api/v1/companies/c1", nil, "")
	assert.Empty(t, hook.AllEntries(), "reads are not audited")

	perform(r, http.MethodPost, "/api/v1/companies/c1/branches/b1/invoices", nil, "")
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "CREATE", entry.Data["operation"])
	assert.Equal(t, "invoice", entry.Data["resource_type"])
	assert.Equal(t, "c1", entry.Data["company_id"])
	_, hasID := entry.Data["resource_id"]
	assert.False(t, hasID)
}

func TestResourceFromPath(t *testing.T) {
	tests := []struct {
		path     string
		wantType string
		wantID   string
	}{
		{"/api/v1/companies", "company", ""},
		{"/api/v1/companies/c1", "company", "c1"},
		{"/api/v1/companies/c1/branches/b1/invoices/i1/items/it1", "invoice_item", "it1"},
		{"/api/v1/companies/c1/branches/b1/categories/k1/subcategories/import", "subcategory", ""},
		{"/api/v1/companies/c1/clients/cl1/regular", "client", "cl1"},
		{"/api/v1/companies/c1/branches/b1/report/archive", "report", ""},
		{"/api/v1/companies/c1/invoices/summary", "invoice", ""},
		{"/health", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			gotType, gotID := resourceFromPath(tt.path)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantID, gotID)
		})
	}
}
