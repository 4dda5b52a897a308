package lambda

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"

	"github.com/AmanMalviya08/Bill-app-backend/internal/middleware"
)

// Proxy serves API Gateway proxy events with an http.Handler
type Proxy struct {
	handler http.Handler
}

// NewProxy wraps handler, normally the application's gin engine
func NewProxy(handler http.Handler) *Proxy {
	return &Proxy{handler: handler}
}

// Handle replays the event against the handler and converts the recorded response
func (p *Proxy) Handle(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	req, err := NewRequest(ctx, event)
	if err != nil {
		return ErrorResponse(http.StatusBadRequest, event.RequestContext.RequestID, "INVALID_REQUEST", err.Error()), nil
	}

	w := httptest.NewRecorder()
	p.handler.ServeHTTP(w, req)
	return NewResponse(w.Result().StatusCode, w.Header(), w.Body.Bytes()), nil
}

// NewRequest builds an http.Request from an API Gateway proxy event
func NewRequest(ctx context.Context, event events.APIGatewayProxyRequest) (*http.Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode body: %w", err)
		}
		body = decoded
	}

	query := url.Values{}
	for key, values := range event.MultiValueQueryStringParameters {
		query[key] = append(query[key], values...)
	}
	for key, value := range event.QueryStringParameters {
		if _, ok := query[key]; !ok {
			query.Set(key, value)
		}
	}

	target := event.Path
	if target == "" {
		target = "/"
	}
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}

	method := event.HTTPMethod
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, target, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	for key, values := range event.MultiValueHeaders {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	for key, value := range event.Headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	if ip := event.RequestContext.Identity.SourceIP; ip != "" {
		req.RemoteAddr = ip + ":0"
		if req.Header.Get("X-Forwarded-For") == "" {
			req.Header.Set("X-Forwarded-For", ip)
		}
	}
	if id := event.RequestContext.RequestID; id != "" && req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", id)
	}
	req.ContentLength = int64(len(body))
	return req, nil
}

// NewResponse converts a recorded response. Bodies that are not valid UTF-8 are base64 encoded.
func NewResponse(status int, header http.Header, body []byte) events.APIGatewayProxyResponse {
	resp := events.APIGatewayProxyResponse{
		StatusCode:        status,
		Headers:           make(map[string]string, len(header)),
		MultiValueHeaders: make(map[string][]string, len(header)),
	}
	for key, values := range header {
		resp.Headers[key] = strings.Join(values, ",")
		resp.MultiValueHeaders[key] = values
	}

	if utf8.Valid(body) {
		resp.Body = string(body)
	} else {
		resp.Body = base64.StdEncoding.EncodeToString(body)
		resp.IsBase64Encoded = true
	}
	return resp
}

// ErrorResponse renders the same error envelope as the HTTP handlers
func ErrorResponse(status int, requestID, code, message string) events.APIGatewayProxyResponse {
	body, err := json.Marshal(middleware.ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		body = []byte(`{"error":"INTERNAL_ERROR"}`)
	}
	return NewResponse(status, http.Header{"Content-Type": {"application/json"}}, body)
}
