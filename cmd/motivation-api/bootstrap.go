package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/clients"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/seed"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/storage/bunstore"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/ports"
)

// bootstrap loads and validates the configuration, then installs the
// configured logger as the default.
func bootstrap(opts *globalOptions) (*config.Config, *slog.Logger, error) {
	profile := config.Profile(opts.profile)

	cfg, err := config.Load(profile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.New(loggingConfig(cfg))
	logging.SetDefault(logger)

	logger.Debug("configuration loaded", slog.String("profile", profile))

	return cfg, logger, nil
}

func loggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}
}

// storeConfig resolves the database settings. An explicit driver and DSN
// win over the URL.
func storeConfig(cfg *config.DatabaseConfig, logger *slog.Logger) (bunstore.Config, error) {
	driver, dsn := cfg.Driver, cfg.DSN

	if driver == "" || dsn == "" {
		var err error

		driver, dsn, err = bunstore.ParseURL(cfg.URL)
		if err != nil {
			return bunstore.Config{}, fmt.Errorf("parsing database url: %w", err)
		}
	}

	return bunstore.Config{
		Driver:          driver,
		DSN:             dsn,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.ConnMaxIdleTime,
		LogQueries:      cfg.LogQueries,
		Logger:          logger,
	}, nil
}

// openStore connects to the database and, when auto_migrate is on, brings
// the schema up to date.
func openStore(ctx context.Context, cfg *config.DatabaseConfig, logger *slog.Logger) (*bunstore.Store, error) {
	storeCfg, err := storeConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	db, err := bunstore.Open(ctx, storeCfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := bunstore.New(db)

	if cfg.AutoMigrate {
		if _, err := bunstore.Migrate(ctx, db, logger); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	logger.Info("database ready", slog.String("driver", storeCfg.Driver))

	return store, nil
}

// seedSources builds the quote sources for a file path and a feed URL.
// Either may be empty.
func seedSources(cfg *config.Config, path, url string, logger *slog.Logger) ([]ports.QuoteSource, error) {
	var sources []ports.QuoteSource

	if path != "" {
		sources = append(sources, seed.NewFileSource(path))
	}

	if url != "" {
		client, err := clients.New(clients.Config{
			Name:     "seed-feed",
			Settings: cfg.Client,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("creating seed client: %w", err)
		}

		sources = append(sources, seed.NewRemoteSource(url, client))
	}

	return sources, nil
}

// importAll runs every source through the importer and returns the
// per-source results. It stops at the first failure.
func importAll(ctx context.Context, importer *app.SeedImporter, sources []ports.QuoteSource) ([]app.ImportResult, error) {
	results := make([]app.ImportResult, 0, len(sources))

	for _, src := range sources {
		result, err := importer.Import(ctx, src)
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	return results, nil
}
