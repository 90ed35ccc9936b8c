package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/uptrace/bun"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

// QueryLogger is a bun.QueryHook that writes each statement to slog.
// Successful statements log at trace level and failures at warn.
type QueryLogger struct {
	logger *slog.Logger
}

var _ bun.QueryHook = (*QueryLogger)(nil)

// NewQueryLogger creates a query hook. The request logger from the context
// is preferred so statements carry the request id.
func NewQueryLogger(logger *slog.Logger) *QueryLogger {
	return &QueryLogger{logger: logger}
}

// BeforeQuery implements bun.QueryHook.
func (h *QueryLogger) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

// AfterQuery implements bun.QueryHook.
func (h *QueryLogger) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	logger := h.logger
	if fromCtx, ok := logging.Lookup(ctx); ok {
		logger = fromCtx
	}

	attrs := []slog.Attr{
		slog.String("operation", event.Operation()),
		slog.String("query", event.Query),
		slog.Duration("duration", time.Since(event.StartTime)),
	}

	if event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) {
		attrs = append(attrs, slog.Any("error", event.Err))
		logger.LogAttrs(ctx, slog.LevelWarn, "query failed", attrs...)

		return
	}

	logger.LogAttrs(ctx, logging.LevelTrace, "query", attrs...)
}
