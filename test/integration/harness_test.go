//go:build integration

package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"

	httpadapter "github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/handlers"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/middleware"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/storage/bunstore"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/ratelimit"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/ports"
)

const adminKey = "integration-admin-key"

func init() {
	gin.SetMode(gin.TestMode)
}

// serverOptions tunes an in-process API server.
type serverOptions struct {
	// Rate is the default per-client limit. Empty disables limiting.
	Rate string

	// ReadRate is the extra ceiling on quote reads. Optional.
	ReadRate string
}

// apiServer is the full router over a private in-memory SQLite database,
// served by httptest.
type apiServer struct {
	URL   string
	Store *bunstore.Store

	server   *httptest.Server
	limiters []ratelimit.Limiter
}

func openMemoryStore(ctx context.Context) (*bunstore.Store, error) {
	db, err := bunstore.Open(ctx, bunstore.Config{
		Driver: bunstore.DriverSQLite,
		DSN:    ":memory:",
		Logger: logging.Discard(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	if _, err := bunstore.Migrate(ctx, db, logging.Discard()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrating sqlite: %w", err)
	}

	return bunstore.New(db), nil
}

func startAPIServer(ctx context.Context, opts serverOptions) (*apiServer, error) {
	store, err := openMemoryStore(ctx)
	if err != nil {
		return nil, err
	}

	s := &apiServer{Store: store}

	var limiter, readLimiter ratelimit.Limiter

	if opts.Rate != "" {
		if limiter, err = ratelimit.NewFromExpr(ratelimit.StrategyFixedWindow, opts.Rate, ratelimit.WithCleanupInterval(0)); err != nil {
			s.Close()
			return nil, err
		}

		s.limiters = append(s.limiters, limiter)
	}

	if opts.ReadRate != "" {
		if readLimiter, err = ratelimit.NewFromExpr(ratelimit.StrategyFixedWindow, opts.ReadRate, ratelimit.WithCleanupInterval(0)); err != nil {
			s.Close()
			return nil, err
		}

		s.limiters = append(s.limiters, readLimiter)
	}

	registry := ports.NewHealthRegistry()
	if err := registry.Register(bunstore.NewHealthChecker(store)); err != nil {
		s.Close()
		return nil, err
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{Store: store, Logger: logging.Discard()})

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		ServiceName:   "motivation-api-integration",
		IndexHandler:  handlers.NewIndexHandler("https://github.com/wabo-kabrel/daily-motivational-quotes-api"),
		HealthHandler: handlers.NewHealthHandler(registry, handlers.NewBuildInfo("integration", "none", "now")),
		QuoteHandler:  handlers.NewQuoteHandler(service, handlers.DefaultListLimit),
		Limiter:       limiter,
		ReadLimiter:   readLimiter,
		APIKey:        middleware.APIKeyConfig{Key: adminKey, Secret: []byte("integration-secret")},
		CORS: middleware.CORSConfig{
			PathPrefix:     "/api/",
			AllowedOrigins: []string{"*"},
			AllowedHeaders: []string{"Content-Type", "x-api-key"},
			MaxAge:         time.Hour,
		},
		Timeout: 5 * time.Second,
	})

	s.server = httptest.NewServer(engine)
	s.URL = s.server.URL

	return s, nil
}

// Close stops the server and releases the database and limiters.
func (s *apiServer) Close() {
	if s.server != nil {
		s.server.Close()
	}

	for _, l := range s.limiters {
		l.Close()
	}

	if s.Store != nil {
		_ = s.Store.Close()
	}
}
