package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler tees each record to every handler that wants its level. The
// service uses it to write the terminal stream and the rotated JSON file
// from one logger.
type MultiHandler struct {
	handlers []slog.Handler
}

func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.handlers {
		if sink.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

// Handle gives each sink its own copy of r. A failing sink does not stop
// the others; their errors are joined.
func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error { //nolint:gocritic // slog.Handler interface requires value
	var err error

	for _, sink := range h.handlers {
		if sink.Enabled(ctx, r.Level) {
			err = errors.Join(err, sink.Handle(ctx, r.Clone()))
		}
	}

	return err
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(sink slog.Handler) slog.Handler { return sink.WithAttrs(attrs) })
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(sink slog.Handler) slog.Handler { return sink.WithGroup(name) })
}

func (h *MultiHandler) derive(fn func(slog.Handler) slog.Handler) *MultiHandler {
	sinks := make([]slog.Handler, 0, len(h.handlers))
	for _, sink := range h.handlers {
		sinks = append(sinks, fn(sink))
	}

	return &MultiHandler{handlers: sinks}
}
