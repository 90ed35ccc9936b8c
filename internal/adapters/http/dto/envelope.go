// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"net/http"
	"time"
)

// APIVersion is reported in every envelope's meta block.
const APIVersion = "v1"

// Envelope wraps every response body, successful or not.
type Envelope struct {
	Success bool         `json:"success"`
	Data    any          `json:"data"`
	Message *string      `json:"message"`
	Meta    Meta         `json:"meta"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// Meta describes the response itself.
type Meta struct {
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
	RequestID   string `json:"request_id,omitempty"`
	TraceID     string `json:"trace_id,omitempty"`
}

// ErrorDetail carries the machine-readable side of a failure.
type ErrorDetail struct {
	// Code is one of the ErrorCode constants.
	Code string `json:"code"`

	// Details holds field-level messages for validation failures.
	Details map[string]string `json:"details,omitempty"`
}

// Error codes.
const (
	ErrorCodeValidation       = "VALIDATION_ERROR"
	ErrorCodeUnauthorized     = "UNAUTHORIZED"
	ErrorCodeForbidden        = "FORBIDDEN"
	ErrorCodeNotFound         = "NOT_FOUND"
	ErrorCodeRateLimited      = "RATE_LIMITED"
	ErrorCodeInternal         = "INTERNAL_ERROR"
	ErrorCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrorCodeTimeout          = "TIMEOUT"
	ErrorCodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Messages shared by more than one responder.
const (
	MessageInternal         = "Internal server error"
	MessageNotFound         = "Resource not found"
	MessageMethodNotAllowed = "Method not allowed"
	MessageUnauthorized     = "Unauthorized"
	MessageForbidden        = "Forbidden"
	MessageRateLimited      = "rate limit exceeded"
	MessageTimeout          = "request timeout exceeded"
)

// NewSuccess wraps data. An empty message is encoded as null.
func NewSuccess(data any, message string) *Envelope {
	return &Envelope{
		Success: true,
		Data:    data,
		Message: optional(message),
		Meta:    Meta{Version: APIVersion},
	}
}

// NewFailure builds an error envelope. Data is always null.
func NewFailure(code, message string, details map[string]string) *Envelope {
	return &Envelope{
		Message: optional(message),
		Meta:    Meta{Version: APIVersion},
		Error:   &ErrorDetail{Code: code, Details: details},
	}
}

// Stamp fills in the meta block.
func (e *Envelope) Stamp(now time.Time, requestID, traceID string) *Envelope {
	e.Meta.GeneratedAt = now.UTC().Format(time.RFC3339)
	e.Meta.Version = APIVersion
	e.Meta.RequestID = requestID
	e.Meta.TraceID = traceID

	return e
}

// HTTPStatusFromCode maps error codes to HTTP status codes.
func HTTPStatusFromCode(code string) int {
	switch code {
	case ErrorCodeValidation:
		return http.StatusBadRequest
	case ErrorCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrorCodeForbidden:
		return http.StatusForbidden
	case ErrorCodeNotFound:
		return http.StatusNotFound
	case ErrorCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrorCodeRateLimited:
		return http.StatusTooManyRequests
	case ErrorCodeUnavailable:
		return http.StatusServiceUnavailable
	case ErrorCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
