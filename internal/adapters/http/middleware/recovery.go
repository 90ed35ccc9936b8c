package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

// Recovery answers a panicking handler with the generic 500 envelope and
// logs the stack. It goes first in the chain. http.ErrAbortHandler is
// re-raised so net/http can drop the connection.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				recovered(c, r)
			}
		}()

		c.Next()
	}
}

func recovered(c *gin.Context, r any) {
	if err, ok := r.(error); ok && errors.Is(err, http.ErrAbortHandler) {
		panic(r)
	}

	logging.FromContext(c.Request.Context()).Error("panic recovered",
		slog.Any("error", r),
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("trace_id", dto.TraceID(c)),
		slog.String("stack", string(debug.Stack())),
	)

	// Headers already went out; all that is left is to stop the chain.
	if c.Writer.Written() {
		c.Abort()
		return
	}

	dto.Abort(c, http.StatusInternalServerError, dto.NewFailure(dto.ErrorCodeInternal, dto.MessageInternal, nil))
}
