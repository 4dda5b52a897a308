package middleware

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the key used to store request ID in context
const RequestIDKey = "request_id"

// CorrelationIDKey is the key used to store correlation ID in context
const CorrelationIDKey = "correlation_id"

const maxLoggedBody = 10 * 1024

// responseWriter wraps gin.ResponseWriter to capture error response bodies
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if w.body.Len() < maxLoggedBody {
		w.body.Write(b)
	}
	return w.ResponseWriter.Write(b)
}

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// CorrelationID middleware propagates X-Correlation-ID, defaulting to the request ID
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader("X-Correlation-ID")
		if correlationID == "" {
			correlationID = c.GetString(RequestIDKey)
		}
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(CorrelationIDKey, correlationID)
		c.Header("X-Correlation-ID", correlationID)
		c.Next()
	}
}

// StructuredLogger logs one entry per request. Request and error response bodies are
// included only in gin debug mode.
func StructuredLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		debug := gin.Mode() == gin.DebugMode

		var requestBody []byte
		if debug && c.Request.Body != nil && c.Request.ContentLength > 0 && c.Request.ContentLength < maxLoggedBody {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		writer := &responseWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := logrus.Fields{
			"request_id":     c.GetString(RequestIDKey),
			"correlation_id": c.GetString(CorrelationIDKey),
			"method":         c.Request.Method,
			"path":           path,
			"route":          c.FullPath(),
			"status_code":    status,
			"latency_ms":     float64(latency.Nanoseconds()) / 1e6,
			"client_ip":      c.ClientIP(),
			"user_agent":     c.Request.UserAgent(),
			"response_size":  c.Writer.Size(),
		}
		if raw != "" {
			fields["query"] = raw
		}
		if userID := c.GetString(UserIDKey); userID != "" {
			fields["user_id"] = userID
		}
		if companyID := c.Param(companyParam); companyID != "" {
			fields["company_id"] = companyID
		}
		if debug && len(requestBody) > 0 {
			fields["request_body"] = string(requestBody)
		}
		if debug && status >= 400 && writer.body.Len() < 1024 {
			fields["response_body"] = writer.body.String()
		}

		entry := logger.WithFields(fields)
		switch {
		case status >= 500:
			entry.Error("Server error")
		case status >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request completed")
		}
	}
}

// AuditLogger logs every write operation with the affected resource
func AuditLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"audit":          true,
			"request_id":     c.GetString(RequestIDKey),
			"user_id":        c.GetString(UserIDKey),
			"username":       c.GetString(UsernameKey),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status_code":    c.Writer.Status(),
			"client_ip":      c.ClientIP(),
			"operation_time": time.Since(start).Milliseconds(),
			"operation":      operationName(c.Request.Method),
		}

		resourceType, resourceID := resourceFromPath(c.Request.URL.Path)
		if resourceType != "" {
			fields["resource_type"] = resourceType
		}
		if resourceID != "" {
			fields["resource_id"] = resourceID
		}
		if companyID := c.Param(companyParam); companyID != "" {
			fields["company_id"] = companyID
		}

		logger.WithFields(fields).Info("Audit log")
	}
}

// PerformanceMonitor warns about requests slower than slowThreshold
func PerformanceMonitor(logger *logrus.Logger, slowThreshold time.Duration) gin.HandlerFunc {
	if slowThreshold == 0 {
		slowThreshold = time.Second
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		if latency > slowThreshold {
			logger.WithFields(logrus.Fields{
				"performance_alert": true,
				"request_id":        c.GetString(RequestIDKey),
				"method":            c.Request.Method,
				"route":             c.FullPath(),
				"latency_ms":        float64(latency.Nanoseconds()) / 1e6,
				"threshold_ms":      float64(slowThreshold.Nanoseconds()) / 1e6,
				"status_code":       c.Writer.Status(),
			}).Warn("Slow request detected")
		}
	}
}

func operationName(method string) string {
	switch method {
	case http.MethodPost:
		return "CREATE"
	case http.MethodPut, http.MethodPatch:
		return "UPDATE"
	case http.MethodDelete:
		return "DELETE"
	default:
		return method
	}
}

// resourceKinds maps collection path segments to audit resource types
var resourceKinds = map[string]string{
	"companies":     "company",
	"branches":      "branch",
	"categories":    "category",
	"subcategories": "subcategory",
	"invoices":      "invoice",
	"items":         "invoice_item",
	"clients":       "client",
	"report":        "report",
	"reports":       "report",
}

// actionSegments follow a collection without naming a record
var actionSegments = map[string]bool{
	"archive": true, "import": true, "print": true, "prices": true,
	"regular": true, "summary": true, "sales": true, "portfolio": true,
}

// resourceFromPath returns the innermost resource named in path and its id, if any.
// "/api/v1/companies/c1/branches/b1/invoices" yields ("invoice", "").
func resourceFromPath(path string) (string, string) {
	parts := strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
	resourceType, resourceID := "", ""
	for i, part := range parts {
		kind, ok := resourceKinds[part]
		if !ok {
			continue
		}
		resourceType, resourceID = kind, ""
		if i+1 < len(parts) {
			if _, isKind := resourceKinds[parts[i+1]]; !isKind && !actionSegments[parts[i+1]] {
				resourceID = parts[i+1]
			}
		}
	}
	return resourceType, resourceID
}
