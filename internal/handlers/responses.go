package handlers

import (
	stderrors "errors"
	"net/http"

	"wallet-dashboard/internal/errors"
	"wallet-dashboard/internal/services"

	"github.com/labstack/echo/v4"
)

// STANDARDIZED ERROR HANDLING PATTERNS
//
// All handlers must use the following standardized error response functions:
//
// 1. SendError - For client errors and filter errors (4xx responses)
//    Use cases:
//    - Validation errors: SendError(c, errors.ValidationGeneral, errors.WithDetails("..."))
//    - Filter errors: SendError(c, errors.FilterUnparseableDate)
//
// 2. SendUpstreamError - For failures to obtain wallet data (502/503/504 responses)
//
// 3. SendSystemError - For system/internal errors (500 responses)
//    Use cases:
//    - Snapshot store errors
//    - Unexpected errors that should not expose internal details to client
//
// DO NOT USE:
//    - echo.NewHTTPError() - Use SendError or SendSystemError instead
//    - Direct c.JSON() for errors - Use the helper functions

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty" swaggertype:"object"`
	Message string      `json:"message,omitempty"`
	Meta    interface{} `json:"meta,omitempty" swaggertype:"object"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, _ := errors.WrapSystemError(err, traceID)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

// SendUpstreamError reports a failure to fetch wallet data. Errors that did not
// come from the data source are treated as system errors.
func SendUpstreamError(c echo.Context, err error) error {
	if !stderrors.Is(err, services.ErrDataUnavailable) {
		return SendSystemError(c, err)
	}
	return SendError(c, UpstreamErrorCode(err))
}

// UpstreamErrorCode maps a data source failure to its API error code
func UpstreamErrorCode(err error) errors.ErrorCode {
	switch {
	case stderrors.Is(err, services.ErrCircuitBreakerOpen):
		return errors.SystemServiceUnavailable
	case stderrors.Is(err, services.ErrUpstreamTimeout):
		return errors.UpstreamTimeout
	case stderrors.Is(err, services.ErrUpstreamUnauthorized):
		return errors.UpstreamUnauthorized
	default:
		return errors.UpstreamUnavailable
	}
}
