package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

// SimpleTimeout gives the handler and the store calls it makes a deadline
// of d. Handlers run on the request goroutine; when one returns past the
// deadline without writing, the client gets a 504 TIMEOUT envelope.
func SimpleTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		expired := errors.Is(ctx.Err(), context.DeadlineExceeded)
		if !expired || c.Writer.Written() {
			return
		}

		logging.FromContext(ctx).Warn("request deadline exceeded",
			slog.String("route", c.FullPath()),
			slog.Duration("timeout", d),
		)

		dto.Abort(c, http.StatusGatewayTimeout, dto.NewFailure(dto.ErrorCodeTimeout, dto.MessageTimeout, nil))
	}
}
