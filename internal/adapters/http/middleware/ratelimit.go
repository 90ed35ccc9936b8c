package middleware

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/ratelimit"
)

// Rate limit response headers.
const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// KeyFunc picks the bucket a request counts against.
type KeyFunc func(c *gin.Context) string

// ClientIPKey keys on gin's ClientIP, which honors the trusted proxies.
func ClientIPKey(c *gin.Context) string {
	return c.ClientIP()
}

// RateLimit charges every request to limiter. Rejected requests get a 429
// envelope and a Retry-After header in whole seconds, rounded up.
func RateLimit(limiter ratelimit.Limiter, key KeyFunc) gin.HandlerFunc {
	if key == nil {
		key = ClientIPKey
	}

	return func(c *gin.Context) {
		allowed, info := limiter.Allow(key(c))

		h := c.Writer.Header()
		h.Set(HeaderRateLimitLimit, strconv.Itoa(info.Limit))
		h.Set(HeaderRateLimitRemaining, strconv.Itoa(max(info.Remaining, 0)))
		h.Set(HeaderRateLimitReset, strconv.FormatInt(info.ResetAt.Unix(), 10))

		if !allowed {
			h.Set(HeaderRetryAfter, strconv.Itoa(ceilSeconds(info.RetryAfter)))
			dto.AbortError(c, domain.NewRateLimitError(
				fmt.Sprintf("%d per window", info.Limit), info.RetryAfter))

			return
		}

		c.Next()
	}
}

func ceilSeconds(d time.Duration) int {
	return max(int(math.Ceil(d.Seconds())), 1)
}
