package dto

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// requestIDKey is the gin context key the request ID middleware writes.
const requestIDKey = "request_id"

// Now is the envelope clock. Tests may replace it.
var Now = time.Now

// TraceID returns the active OpenTelemetry trace ID, or "".
func TraceID(c *gin.Context) string {
	if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}

	return ""
}

// Write stamps env and writes it with status.
func Write(c *gin.Context, status int, env *Envelope) {
	c.JSON(status, env.Stamp(Now(), c.GetString(requestIDKey), TraceID(c)))
}

// Abort stamps env, writes it, and stops the handler chain.
func Abort(c *gin.Context, status int, env *Envelope) {
	c.AbortWithStatusJSON(status, env.Stamp(Now(), c.GetString(requestIDKey), TraceID(c)))
}

// Fail writes a failure envelope with the status implied by code.
func Fail(c *gin.Context, code, message string) {
	Write(c, HTTPStatusFromCode(code), NewFailure(code, message, nil))
}

