package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/handlers"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/middleware"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/ratelimit"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/telemetry"
)

// DefaultRequestTimeout is the deadline for /api/v1 requests when
// RouterConfig.Timeout is unset.
const DefaultRequestTimeout = 15 * time.Second

// RouterConfig contains everything SetupRouter wires together.
type RouterConfig struct {
	// ServiceName labels traces and metrics.
	ServiceName string

	IndexHandler  *handlers.IndexHandler
	HealthHandler *handlers.HealthHandler
	QuoteHandler  *handlers.QuoteHandler

	// Limiter is charged by every public and API route. Nil disables
	// rate limiting.
	Limiter ratelimit.Limiter

	// ReadLimiter is the extra burst ceiling on quote reads. Optional.
	ReadLimiter ratelimit.Limiter

	APIKey middleware.APIKeyConfig
	CORS   middleware.CORSConfig

	// Timeout is the /api/v1 request deadline.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Request ID
//  3. Correlation ID
//  4. OpenTelemetry tracing and metrics
//  5. Logging (skips /-/ and /health)
//  6. CORS (acts on /api/ only)
//
// Route groups:
//   - /-/ operational endpoints, no limits
//   - / and /health, rate limited
//   - /api/v1 reads, rate limited with the extra read ceiling
//   - /api/v1 writes, rate limited and behind the admin key
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.HandleMethodNotAllowed = true
	engine.NoRoute(notFound)
	engine.NoMethod(methodNotAllowed)

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	engine.Use(telemetry.Middleware(cfg.ServiceName)...)
	engine.Use(
		middleware.Logging("/health"),
		middleware.CORS(cfg.CORS),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(engine.Group("/-"))
	}

	var limited []gin.HandlerFunc
	if cfg.Limiter != nil {
		limited = append(limited, middleware.RateLimit(cfg.Limiter, middleware.ClientIPKey))
	}

	if cfg.IndexHandler != nil {
		public := engine.Group("", limited...)
		public.GET("/", cfg.IndexHandler.Index)
		public.GET("/health", cfg.IndexHandler.Health)
	}

	if cfg.QuoteHandler != nil {
		setupAPIRoutes(engine.Group("/api/v1"), cfg)
	}
}

// setupAPIRoutes registers the quote endpoints. Reads charge the combined
// default and read limiter once; writes charge the default limiter and then
// require the admin key.
func setupAPIRoutes(api *gin.RouterGroup, cfg RouterConfig) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	api.Use(middleware.SimpleTimeout(timeout))

	reads := api.Group("")
	if limiter := readLimiter(cfg); limiter != nil {
		reads.Use(middleware.RateLimit(limiter, middleware.ClientIPKey))
	}

	cfg.QuoteHandler.RegisterReadRoutes(reads)

	writes := api.Group("")
	if cfg.Limiter != nil {
		writes.Use(middleware.RateLimit(cfg.Limiter, middleware.ClientIPKey))
	}

	writes.Use(middleware.RequireAPIKey(cfg.APIKey))
	cfg.QuoteHandler.RegisterAdminRoutes(writes)
}

func readLimiter(cfg RouterConfig) ratelimit.Limiter {
	switch {
	case cfg.Limiter != nil && cfg.ReadLimiter != nil:
		return ratelimit.Multi(cfg.Limiter, cfg.ReadLimiter)
	case cfg.Limiter != nil:
		return cfg.Limiter
	default:
		return cfg.ReadLimiter
	}
}
