package bunstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

//go:embed migrations
var embeddedMigrations embed.FS

// MigrationResult lists the versions applied by a Migrate call.
type MigrationResult struct {
	Applied []string
}

// Migrate applies every embedded migration for the database's dialect that
// is not yet recorded in schema_migrations. Each file runs in its own
// transaction together with its bookkeeping row.
func Migrate(ctx context.Context, db *bun.DB, logger *slog.Logger) (*MigrationResult, error) {
	if logger == nil {
		logger = slog.Default()
	}

	dir, err := migrationDir(db.Dialect().Name())
	if err != nil {
		return nil, err
	}

	versions, err := migrationVersions(dir)
	if err != nil {
		return nil, err
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return nil, fmt.Errorf("creating schema_migrations: %w", err)
	}

	result := &MigrationResult{}

	for _, version := range versions {
		applied, err := isApplied(ctx, db, version)
		if err != nil {
			return result, fmt.Errorf("checking migration %s: %w", version, err)
		}

		if applied {
			continue
		}

		body, err := embeddedMigrations.ReadFile(path.Join(dir, version+".up.sql"))
		if err != nil {
			return result, fmt.Errorf("reading migration %s: %w", version, err)
		}

		start := time.Now()

		err = db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, string(body)); err != nil {
				return err
			}

			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
				version, time.Now().UTC())

			return err
		})
		if err != nil {
			return result, fmt.Errorf("applying migration %s: %w", version, err)
		}

		logger.InfoContext(ctx, "applied migration",
			slog.String("version", version),
			slog.Duration("duration", time.Since(start)),
		)

		result.Applied = append(result.Applied, version)
	}

	return result, nil
}

func migrationDir(name dialect.Name) (string, error) {
	switch name {
	case dialect.SQLite:
		return "migrations/" + DriverSQLite, nil
	case dialect.PG:
		return "migrations/" + DriverPostgres, nil
	case dialect.MySQL:
		return "migrations/" + DriverMySQL, nil
	default:
		return "", fmt.Errorf("%w: dialect %s", ErrUnsupportedDriver, name)
	}
}

func migrationVersions(dir string) ([]string, error) {
	entries, err := fs.ReadDir(embeddedMigrations, dir)
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations %s: %w", dir, err)
	}

	var versions []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}

		versions = append(versions, strings.TrimSuffix(e.Name(), ".up.sql"))
	}

	sort.Strings(versions)

	return versions, nil
}

func ensureMigrationsTable(ctx context.Context, db *bun.DB) error {
	// MySQL cannot index an unbounded TEXT column.
	versionType := "TEXT"
	if db.Dialect().Name() == dialect.MySQL {
		versionType = "VARCHAR(191)"
	}

	_, err := db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS schema_migrations (version %s PRIMARY KEY, applied_at TIMESTAMP)",
		versionType))

	return err
}

func isApplied(ctx context.Context, db *bun.DB, version string) (bool, error) {
	var one int

	err := db.QueryRowContext(ctx, "SELECT 1 FROM schema_migrations WHERE version = ?", version).Scan(&one)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, err
	}
}
