// Package middleware provides the gin middleware chain: IDs, logging,
// recovery, timeouts, CORS, rate limiting and admin key checks.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one hop. Envelopes echo it as meta.request_id.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a business transaction across services.
	HeaderCorrelationID = "X-Correlation-ID"

	// Gin context keys for the two IDs.
	ContextKeyRequestID     = "request_id"
	ContextKeyCorrelationID = "correlation_id"
)

// maxIDLength bounds client-supplied IDs before they reach logs.
const maxIDLength = 128

type contextKey string

const (
	ctxKeyRequestID     contextKey = "request_id"
	ctxKeyCorrelationID contextKey = "correlation_id"
)

// idHeader describes one propagated identifier: where it is read and
// echoed, and where handlers, loggers and outbound clients find it.
type idHeader struct {
	header string
	ginKey string
	store  func(ctx context.Context, id string) context.Context
	attach func(ctx context.Context, id string) context.Context
}

var (
	requestIDHeader = idHeader{
		header: HeaderRequestID,
		ginKey: ContextKeyRequestID,
		store:  ContextWithRequestID,
		attach: logging.WithRequestID,
	}
	correlationIDHeader = idHeader{
		header: HeaderCorrelationID,
		ginKey: ContextKeyCorrelationID,
		store:  ContextWithCorrelationID,
		attach: logging.WithCorrelationID,
	}
)

// RequestID reuses the caller's X-Request-ID or mints a UUID, echoes it,
// and tags the request logger with it.
func RequestID() gin.HandlerFunc { return requestIDHeader.middleware() }

// CorrelationID does for X-Correlation-ID what RequestID does for
// X-Request-ID.
func CorrelationID() gin.HandlerFunc { return correlationIDHeader.middleware() }

// GetRequestID returns the request ID, or "" outside the middleware.
func GetRequestID(c *gin.Context) string { return c.GetString(ContextKeyRequestID) }

// GetCorrelationID returns the correlation ID, or "" outside the middleware.
func GetCorrelationID(c *gin.Context) string { return c.GetString(ContextKeyCorrelationID) }

// RequestIDFromContext returns the request ID stored on ctx, or "". The
// remote quote client forwards it on outbound calls.
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyRequestID)
}

// CorrelationIDFromContext returns the correlation ID stored on ctx, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, ctxKeyCorrelationID)
}

// ContextWithRequestID stores id where RequestIDFromContext finds it. The
// RequestID middleware uses it, and tests use it to drive outbound clients
// without a request.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, id)
}

// ContextWithCorrelationID is ContextWithRequestID for the correlation ID.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyCorrelationID, id)
}

func (h idHeader) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(h.header)
		if !acceptableID(id) {
			id = uuid.NewString()
		}

		c.Set(h.ginKey, id)
		c.Header(h.header, id)

		ctx := h.store(c.Request.Context(), id)
		c.Request = c.Request.WithContext(h.attach(ctx, id))

		c.Next()
	}
}

// acceptableID keeps client IDs that are short printable ASCII.
func acceptableID(id string) bool {
	if id == "" || len(id) > maxIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(key).(string)

	return id
}
