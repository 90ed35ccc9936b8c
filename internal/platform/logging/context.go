package logging

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Attribute keys for the per-request identifiers.
const (
	KeyRequestID     = "request_id"
	KeyTraceID       = "trace_id"
	KeyCorrelationID = "correlation_id"
)

var defaultLogger = slog.Default()

// FromContext returns the request logger, or the process default when ctx
// carries none. ctx may be nil.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := Lookup(ctx); ok {
		return logger
	}

	return defaultLogger
}

// Lookup returns the logger stored by WithContext. Storing nil counts as
// storing nothing.
func Lookup(ctx context.Context) (*slog.Logger, bool) {
	if ctx == nil {
		return nil, false
	}

	logger, _ := ctx.Value(ctxKey{}).(*slog.Logger)

	return logger, logger != nil
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, KeyRequestID, id)
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, KeyTraceID, id)
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withAttr(ctx, KeyCorrelationID, id)
}

// withAttr stores a child of the current logger that always logs key.
func withAttr(ctx context.Context, key, value string) context.Context {
	return WithContext(ctx, FromContext(ctx).With(slog.String(key, value)))
}

// SetDefault installs logger as the fallback for FromContext and as the
// slog package default.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
