package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/handlers"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/middleware"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/storage/bunstore"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/ratelimit"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/telemetry"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/ports"
)

const secretKeyBytes = 32

func newServeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *globalOptions) error {
	cfg, logger, err := bootstrap(opts)
	if err != nil {
		return err
	}

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// Noop tracing and OTLP when disabled; /-/metrics is always served.
	telProvider, err := telemetry.New(ctx, telemetry.FromConfig(cfg))
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	store, err := openStore(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("closing database", slog.Any("error", closeErr))
		}
	}()

	seedOnStartup(ctx, cfg, store, logger)

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(bunstore.NewHealthChecker(store)); err != nil {
		return fmt.Errorf("registering database health check: %w", err)
	}

	limiter, readLimiter, err := newLimiters(&cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("creating rate limiters: %w", err)
	}

	defer closeLimiters(limiter, readLimiter)

	secret, err := apiKeySecret(cfg.Auth.SecretKey)
	if err != nil {
		return err
	}

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		Store:    store,
		Logger:   logger,
		MaxLimit: cfg.API.MaxLimit,
	})

	server, err := http.New(&cfg.Server, logger)
	if err != nil {
		return fmt.Errorf("creating HTTP server: %w", err)
	}

	http.SetupRouter(server.Engine(), http.RouterConfig{
		ServiceName:   serviceName(cfg),
		IndexHandler:  handlers.NewIndexHandler(cfg.API.DocumentationURL),
		HealthHandler: handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		QuoteHandler:  handlers.NewQuoteHandler(quoteService, cfg.API.DefaultLimit),
		Limiter:       limiter,
		ReadLimiter:   readLimiter,
		APIKey: middleware.APIKeyConfig{
			Header: cfg.Auth.Header,
			Key:    cfg.Auth.AdminAPIKey,
			Secret: secret,
		},
		CORS: middleware.CORSConfig{
			PathPrefix:     "/api/",
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedHeaders: []string{"Content-Type", cfg.Auth.Header, middleware.HeaderRequestID, middleware.HeaderCorrelationID},
			MaxAge:         cfg.CORS.MaxAge,
		},
		Timeout: cfg.API.RequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// seedOnStartup imports the configured seed sources. Failures are logged and
// the server starts with whatever is already stored.
func seedOnStartup(ctx context.Context, cfg *config.Config, store ports.QuoteStore, logger *slog.Logger) {
	sources, err := seedSources(cfg, cfg.Seed.Path, cfg.Seed.URL, logger)
	if err != nil {
		logger.Error("seed sources unavailable", slog.Any("error", err))
		return
	}

	if len(sources) == 0 {
		return
	}

	importer := app.NewSeedImporter(store, logger)
	if _, err := importAll(ctx, importer, sources); err != nil {
		logger.Error("startup seed import failed", slog.Any("error", err))
	}
}

// newLimiters builds the default and read limiters. Both are nil when rate
// limiting is disabled; the read limiter is nil when no read rate is set.
func newLimiters(cfg *config.RateLimitConfig) (limiter, read ratelimit.Limiter, err error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	opts := []ratelimit.Option{ratelimit.WithCleanupInterval(cfg.CleanupInterval)}

	limiter, err = ratelimit.NewFromExpr(cfg.Strategy, cfg.Default, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("default rate %q: %w", cfg.Default, err)
	}

	if cfg.Read == "" {
		return limiter, nil, nil
	}

	read, err = ratelimit.NewFromExpr(cfg.Strategy, cfg.Read, opts...)
	if err != nil {
		limiter.Close()
		return nil, nil, fmt.Errorf("read rate %q: %w", cfg.Read, err)
	}

	return limiter, read, nil
}

func closeLimiters(limiters ...ratelimit.Limiter) {
	for _, l := range limiters {
		if l != nil {
			l.Close()
		}
	}
}

// apiKeySecret returns the configured HMAC key, or a random one.
func apiKeySecret(configured string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	secret := make([]byte, secretKeyBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generating api key secret: %w", err)
	}

	return secret, nil
}

func serviceName(cfg *config.Config) string {
	if cfg.Telemetry.ServiceName != "" {
		return cfg.Telemetry.ServiceName
	}

	return cfg.App.Name
}

// waitForShutdown blocks until SIGINT, SIGTERM or a server error, then
// drains in-flight requests within shutdownTimeout.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case <-sigCtx.Done():
		logger.Info("received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
