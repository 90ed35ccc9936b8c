package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/storage/bunstore"
)

func newMigrateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd.Context(), cmd, opts)
		},
	}
}

func runMigrate(ctx context.Context, cmd *cobra.Command, opts *globalOptions) error {
	cfg, logger, err := bootstrap(opts)
	if err != nil {
		return err
	}

	// openStore would migrate on its own when auto_migrate is set.
	dbCfg := cfg.Database
	dbCfg.AutoMigrate = false

	store, err := openStore(ctx, &dbCfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	result, err := bunstore.Migrate(ctx, store.DB(), logger)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	if len(result.Applied) == 0 {
		cmd.Println("schema is up to date")
		return nil
	}

	logger.Info("migrations applied", slog.Any("versions", result.Applied))
	cmd.Printf("applied %d migration(s)\n", len(result.Applied))

	return nil
}
