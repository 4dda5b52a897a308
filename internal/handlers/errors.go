package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/AmanMalviya08/Bill-app-backend/internal/adapters/storage"
	"github.com/AmanMalviya08/Bill-app-backend/internal/middleware"
	"github.com/AmanMalviya08/Bill-app-backend/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse = middleware.ErrorResponse

// MessageResponse is returned by operations without a resource body
type MessageResponse struct {
	Message string `json:"message"`
}

// responder renders service results and failures
type responder struct {
	logger     *logrus.Logger
	production bool
}

// statusFor maps a service error kind to its HTTP status
func statusFor(se *services.ServiceError) int {
	switch se.Kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindValidation:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	case services.KindUpstream:
		if errors.Is(se.Err, storage.ErrStorageUnavailable) || errors.Is(se.Err, storage.ErrTimeout) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for err. Upstream causes never leak in production.
func (r responder) fail(c *gin.Context, err error) {
	se, ok := services.AsServiceError(err)
	if !ok {
		se = &services.ServiceError{Kind: services.KindUpstream, Code: services.CodeUpstream, Message: "unexpected error", Err: err}
	}
	status := statusFor(se)

	response := middleware.NewErrorResponse(c, se.Code, se.Message)
	response.Field = se.Field
	response.Details = se.Details

	entry := r.logger.WithFields(logrus.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"code":       se.Code,
		"status":     status,
		"path":       c.Request.URL.Path,
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
		if r.production {
			response.Message = "An internal error occurred"
			response.Details = nil
		} else {
			response.Message = err.Error()
		}
	} else {
		entry.Debug(se.Message)
	}

	c.AbortWithStatusJSON(status, response)
}

// badRequest rejects a malformed request before it reaches a service
func (r responder) badRequest(c *gin.Context, code, field, message string) {
	response := middleware.NewErrorResponse(c, code, message)
	response.Field = field
	c.AbortWithStatusJSON(http.StatusBadRequest, response)
}

// bindJSON decodes the request body, rejecting it with 400 when it is not valid JSON
func (r responder) bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		r.badRequest(c, "INVALID_REQUEST", "", "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// queryTime parses an optional date query parameter. Dates without a time
// cover the whole day when end is set.
func (r responder) queryTime(c *gin.Context, name string, end bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		r.badRequest(c, services.CodeInvalidFilter, name, name+" must be a date (YYYY-MM-DD) or an RFC3339 timestamp")
		return nil, false
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

// queryBool parses an optional boolean query parameter
func (r responder) queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		r.badRequest(c, services.CodeInvalidFilter, name, name+" must be true or false")
		return nil, false
	}
	return &v, true
}
