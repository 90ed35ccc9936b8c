// Package bunstore implements ports.QuoteStore on top of the bun ORM.
// SQLite (modernc.org/sqlite), PostgreSQL (pgx) and MySQL are supported.
package bunstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported values for Config.Driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

const (
	defaultPingTimeout   = 10 * time.Second
	sqliteBusyTimeoutMS  = 10000
	defaultMaxOpenConns  = 25
	defaultMaxIdleConns  = 25
	defaultConnLifetime  = 5 * time.Minute
	defaultConnIdleLimit = time.Minute
)

// ErrUnsupportedDriver is returned for drivers other than sqlite, postgres and mysql.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

// Config describes how to reach the database.
type Config struct {
	// Driver is one of DriverSQLite, DriverPostgres or DriverMySQL.
	Driver string

	// DSN is passed to the driver as-is.
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	// LogQueries logs every statement at trace level.
	LogQueries bool

	Logger *slog.Logger
}

// ParseURL converts a URL-style connection string into a driver name and a DSN.
//
//	sqlite:///relative.db        -> sqlite, relative.db
//	sqlite:////abs/path.db       -> sqlite, /abs/path.db
//	sqlite:///:memory:           -> sqlite, :memory:
//	postgres://u:p@h:5432/db     -> postgres, postgres://u:p@h:5432/db
//	postgresql+psycopg2://...    -> postgres, postgres://...
//	mysql://u:p@h:3306/db        -> mysql, u:p@tcp(h:3306)/db?parseTime=true
func ParseURL(raw string) (driver, dsn string, err error) {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return "", "", fmt.Errorf("database url %q has no scheme", raw)
	}

	// SQLAlchemy style "dialect+driver" schemes.
	base, _, _ := strings.Cut(strings.ToLower(scheme), "+")

	switch base {
	case "sqlite", "sqlite3":
		path := strings.TrimPrefix(rest, "/")
		if path == "" {
			return "", "", fmt.Errorf("database url %q has no path", raw)
		}

		return DriverSQLite, path, nil

	case "postgres", "postgresql":
		return DriverPostgres, "postgres://" + rest, nil

	case "mysql", "mariadb":
		dsn, err := mysqlDSN("mysql://" + rest)
		if err != nil {
			return "", "", err
		}

		return DriverMySQL, dsn, nil

	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, scheme)
	}
}

// mysqlDSN rewrites a mysql:// URL in go-sql-driver's DSN format.
func mysqlDSN(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parsing mysql url: %w", err)
	}

	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = u.Host
	cfg.DBName = strings.TrimPrefix(u.Path, "/")
	cfg.ParseTime = true

	if u.User != nil {
		cfg.User = u.User.Username()
		cfg.Passwd, _ = u.User.Password()
	}

	if !strings.Contains(cfg.Addr, ":") {
		cfg.Addr += ":3306"
	}

	params := u.Query()
	if len(params) > 0 {
		cfg.Params = make(map[string]string, len(params))
		for k := range params {
			cfg.Params[k] = params.Get(k)
		}
	}

	return cfg.FormatDSN(), nil
}

// Open connects to the database, tunes the pool and verifies the connection.
func Open(ctx context.Context, cfg Config) (*bun.DB, error) {
	driverName, err := sqlDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn := cfg.DSN
	if cfg.Driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	sqlDB, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	configurePool(sqlDB, cfg)

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", cfg.Driver, err)
	}

	db := newBunDB(sqlDB, cfg.Driver)

	if cfg.LogQueries {
		logger := cfg.Logger
		if logger == nil {
			logger = slog.Default()
		}

		db.AddQueryHook(NewQueryLogger(logger))
	}

	return db, nil
}

func sqlDriverName(driver string) (string, error) {
	switch driver {
	case DriverSQLite:
		return "sqlite", nil
	case DriverPostgres:
		return "pgx", nil
	case DriverMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

func newBunDB(sqlDB *sql.DB, driver string) *bun.DB {
	switch driver {
	case DriverPostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case DriverMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// sqliteDSN adds the busy timeout and WAL pragmas to file databases.
func sqliteDSN(dsn string) string {
	if isMemoryDSN(dsn) || strings.Contains(dsn, "_pragma=") {
		return dsn
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}

	return fmt.Sprintf("%s%s_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", dsn, sep, sqliteBusyTimeoutMS)
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}

func configurePool(sqlDB *sql.DB, cfg Config) {
	// SQLite allows a single writer, and an in-memory database exists per
	// connection, so one connection serializes access.
	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)

		return
	}

	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, defaultMaxOpenConns))
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, defaultMaxIdleConns))
	sqlDB.SetConnMaxLifetime(orDefault(cfg.ConnMaxLifetime, defaultConnLifetime))
	sqlDB.SetConnMaxIdleTime(orDefault(cfg.ConnMaxIdleTime, defaultConnIdleLimit))
}

func orDefault[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}

	return def
}
