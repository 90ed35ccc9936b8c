package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

// APIKeyConfig configures RequireAPIKey.
type APIKeyConfig struct {
	// Header carries the key, x-api-key by default.
	Header string

	// Key is the admin key. An empty Key rejects every request.
	Key string

	// Secret keys the HMAC both sides are reduced to before comparison.
	Secret []byte
}

// RequireAPIKey admits only requests whose header matches the admin key.
// A missing header is 401; a wrong value is 403. The comparison runs in
// constant time on HMAC-SHA256 digests, so key length does not leak either.
func RequireAPIKey(cfg APIKeyConfig) gin.HandlerFunc {
	header := cfg.Header
	if header == "" {
		header = "x-api-key"
	}

	want := digest(cfg.Secret, cfg.Key)

	return func(c *gin.Context) {
		got := c.GetHeader(header)
		if got == "" {
			dto.AbortError(c, domain.NewUnauthorizedError("missing "+header+" header"))
			return
		}

		if cfg.Key == "" || !hmac.Equal(digest(cfg.Secret, got), want) {
			logging.FromContext(c.Request.Context()).Warn("admin key rejected",
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("client_ip", c.ClientIP()),
			)
			dto.AbortError(c, domain.NewForbiddenError("admin", "api key mismatch"))

			return
		}

		c.Next()
	}
}

func digest(secret []byte, value string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(value))

	return mac.Sum(nil)
}
