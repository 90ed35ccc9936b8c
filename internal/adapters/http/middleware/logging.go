package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

// Logging writes an access log line once the handler chain returns.
// Paths under /-/ and the given skipPaths are not logged.
func Logging(skipPaths ...string) gin.HandlerFunc {
	quiet := make(map[string]bool, len(skipPaths))
	for _, p := range skipPaths {
		quiet[p] = true
	}

	return func(c *gin.Context) {
		if quiet[c.Request.URL.Path] || strings.HasPrefix(c.Request.URL.Path, "/-/") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()

		logging.FromContext(ctx).LogAttrs(ctx, accessLevel(status), "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.RequestURI()),
			slog.String("route", c.FullPath()),
			slog.Int("status", status),
			slog.String("client_ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}

// accessLevel logs server faults at error and client faults, including
// 429s, at warn.
func accessLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
