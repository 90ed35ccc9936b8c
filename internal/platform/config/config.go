// Package config provides configuration loading and management using koanf.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Default configuration values.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultMaxRequestSize is the default maximum request body size (1MB).
	DefaultMaxRequestSize = 1 << 20

	// DefaultRateLimit applies to every API route.
	DefaultRateLimit = "60/minute"

	// DefaultReadRateLimit is the extra burst ceiling on read routes.
	DefaultReadRateLimit = "10/second"

	// DefaultPageLimit is the page size when the limit parameter is absent.
	DefaultPageLimit = 10

	// DefaultMaxPageLimit is the largest page size a client may request.
	DefaultMaxPageLimit = 100

	// DefaultAPIKeyHeader carries the admin key.
	DefaultAPIKeyHeader = "x-api-key"

	DefaultDatabaseURL = "sqlite:///quotes.db"

	DefaultClientRetryMaxAttempts     = 3
	DefaultClientRetryMultiplier      = 2.0
	DefaultClientRetryJitterFactor    = 0.25
	DefaultClientCircuitMaxFailures   = 5
	DefaultClientCircuitHalfOpenLimit = 3

	DefaultTransportMaxIdleConns        = 100
	DefaultTransportMaxIdleConnsPerHost = 10

	DefaultLogFileMaxSizeMB  = 100
	DefaultLogFileMaxBackups = 3
	DefaultLogFileMaxAgeDays = 28

	// EnvPrefix marks environment variables read into the config tree.
	// A double underscore separates levels: APP_DATABASE__LOG_QUERIES.
	EnvPrefix = "APP_"

	envLevelSeparator = "__"
)

// Config is the root configuration structure.
type Config struct {
	App       AppConfig       `koanf:"app"        validate:"required"`
	Server    ServerConfig    `koanf:"server"     validate:"required"`
	Log       LogConfig       `koanf:"log"        validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Database  DatabaseConfig  `koanf:"database"   validate:"required"`
	Auth      AuthConfig      `koanf:"auth"       validate:"required"`
	RateLimit RateLimitConfig `koanf:"rate_limit" validate:"required"`
	API       APIConfig       `koanf:"api"        validate:"required"`
	CORS      CORSConfig      `koanf:"cors"`
	Seed      SeedConfig      `koanf:"seed"`
	Client    ClientConfig    `koanf:"client"     validate:"required"`
}

// AppConfig contains application-level settings.
type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`

	// TrustedProxies lists proxy IPs or CIDRs whose forwarding headers are
	// believed when resolving the client IP. Empty trusts none.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"omitempty,dive,ip|cidr"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig contains rolling log file settings.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"        validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"    validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"     validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig contains OpenTelemetry settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,hostname_port|url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// DatabaseConfig selects and tunes the quote store.
// URL is the usual way to configure it; Driver and DSN override the values
// parsed from URL when both are set.
type DatabaseConfig struct {
	URL             string        `koanf:"url"                validate:"required_without=DSN"`
	Driver          string        `koanf:"driver"             validate:"required_with=DSN,omitempty,oneof=sqlite postgres mysql"`
	DSN             string        `koanf:"dsn"`
	MaxOpenConns    int           `koanf:"max_open_conns"     validate:"min=0"`
	MaxIdleConns    int           `koanf:"max_idle_conns"     validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
	LogQueries      bool          `koanf:"log_queries"`
	AutoMigrate     bool          `koanf:"auto_migrate"`
}

// AuthConfig contains the admin API key settings.
type AuthConfig struct {
	AdminAPIKey string `koanf:"admin_api_key" validate:"required"`
	Header      string `koanf:"header"        validate:"required"`

	// SecretKey keys the HMAC used to compare API keys in constant time.
	// A random key is generated at startup when it is empty.
	SecretKey string `koanf:"secret_key"`
}

// RateLimitConfig configures per-client request limiting.
type RateLimitConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Default         string        `koanf:"default"          validate:"required_if=Enabled true,omitempty,rate"`
	Read            string        `koanf:"read"             validate:"omitempty,rate"`
	Strategy        string        `koanf:"strategy"         validate:"required,oneof=fixed_window token_bucket"`
	CleanupInterval time.Duration `koanf:"cleanup_interval" validate:"min=0"`
}

// APIConfig contains listing defaults and API metadata.
type APIConfig struct {
	DefaultLimit     int           `koanf:"default_limit"     validate:"required,min=1,ltefield=MaxLimit"`
	MaxLimit         int           `koanf:"max_limit"         validate:"required,min=1"`
	DocumentationURL string        `koanf:"documentation_url" validate:"omitempty,url"`
	RequestTimeout   time.Duration `koanf:"request_timeout"   validate:"required,min=100ms"`
}

// CORSConfig configures cross-origin access to /api routes.
type CORSConfig struct {
	AllowedOrigins []string      `koanf:"allowed_origins"`
	MaxAge         time.Duration `koanf:"max_age" validate:"min=0"`
}

// SeedConfig names quote sources imported by serve on startup.
type SeedConfig struct {
	Path string `koanf:"path"`
	URL  string `koanf:"url" validate:"omitempty,url"`
}

// ClientConfig contains outbound HTTP client settings, used for remote seeds.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig contains retry settings for HTTP clients.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig contains circuit breaker settings for HTTP clients.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

// TransportConfig contains HTTP transport pool settings.
type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"          validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"       validate:"required,min=1s"`
}

// defaults returns the default configuration values.
func defaults() map[string]any {
	return map[string]any{
		"app.name":        "motivation-api",
		"app.version":     "dev",
		"app.environment": "local",

		"server.port":             DefaultServerPort,
		"server.host":             "0.0.0.0",
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "10s",
		"server.max_request_size": DefaultMaxRequestSize,
		"server.trusted_proxies":  []string{},

		"log.level":            "info",
		"log.format":           "json",
		"log.file.enabled":     false,
		"log.file.path":        "./logs/motivation-api.log",
		"log.file.max_size":    DefaultLogFileMaxSizeMB,
		"log.file.max_backups": DefaultLogFileMaxBackups,
		"log.file.max_age":     DefaultLogFileMaxAgeDays,
		"log.file.compress":    true,

		"telemetry.enabled":       false,
		"telemetry.endpoint":      "",
		"telemetry.service_name":  "motivation-api",
		"telemetry.sampling_rate": 1.0,

		"database.url":                DefaultDatabaseURL,
		"database.max_open_conns":     10,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "30m",
		"database.conn_max_idle_time": "5m",
		"database.log_queries":        false,
		"database.auto_migrate":       true,

		"auth.header": DefaultAPIKeyHeader,

		"rate_limit.enabled":          true,
		"rate_limit.default":          DefaultRateLimit,
		"rate_limit.read":             DefaultReadRateLimit,
		"rate_limit.strategy":         "fixed_window",
		"rate_limit.cleanup_interval": "1m",

		"api.default_limit":     DefaultPageLimit,
		"api.max_limit":         DefaultMaxPageLimit,
		"api.documentation_url": "https://github.com/wabo-kabrel/daily-motivational-quotes-api",
		"api.request_timeout":   "15s",

		"cors.allowed_origins": []string{"*"},
		"cors.max_age":         "12h",

		"client.timeout":                           "30s",
		"client.retry.max_attempts":                DefaultClientRetryMaxAttempts,
		"client.retry.initial_interval":            "100ms",
		"client.retry.max_interval":                "5s",
		"client.retry.multiplier":                  DefaultClientRetryMultiplier,
		"client.retry.jitter_factor":               DefaultClientRetryJitterFactor,
		"client.circuit_breaker.max_failures":      DefaultClientCircuitMaxFailures,
		"client.circuit_breaker.timeout":           "30s",
		"client.circuit_breaker.half_open_limit":   DefaultClientCircuitHalfOpenLimit,
		"client.transport.max_idle_conns":          DefaultTransportMaxIdleConns,
		"client.transport.max_idle_conns_per_host": DefaultTransportMaxIdleConnsPerHost,
		"client.transport.idle_conn_timeout":       "90s",
	}
}

// legacyEnv maps the unprefixed variable names the service has always
// honored onto config keys.
var legacyEnv = map[string]string{
	"DATABASE_URL":  "database.url",
	"SECRET_KEY":    "auth.secret_key",
	"ADMIN_API_KEY": "auth.admin_api_key",
	"RATE_LIMIT":    "rate_limit.default",
	"PORT":          "server.port",
}

// listKeys are split on commas when they come from the environment.
var listKeys = map[string]bool{
	"server.trusted_proxies": true,
	"cors.allowed_origins":   true,
}

// Load loads configuration with the following precedence (highest to lowest):
//  1. APP_-prefixed environment variables
//  2. Legacy environment variables (DATABASE_URL, ADMIN_API_KEY, ...)
//  3. Profile config file (configs/{profile}.yaml)
//  4. Base config file (configs/base.yaml)
//  5. Default values
func Load(profile string) (*Config, error) {
	return LoadFrom("configs", profile)
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir, profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadFileIfExists(k, dir+"/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadFileIfExists(k, fmt.Sprintf("%s/%s.yaml", dir, profile)); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	err := k.Load(env.ProviderWithValue("", ".", func(key, value string) (string, any) {
		path, ok := legacyEnv[key]
		if !ok {
			return "", nil
		}

		return path, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading legacy env vars: %w", err)
	}

	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		path := EnvKeyToPath(key)
		if listKeys[path] {
			return path, splitList(value)
		}

		return path, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// EnvKeyToPath converts APP_RATE_LIMIT__DEFAULT into rate_limit.default.
func EnvKeyToPath(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, envLevelSeparator, ".")
}

// Profile picks the config profile: the explicit flag value, then
// APP_ENVIRONMENT, then "local".
func Profile(flag string) string {
	if flag != "" {
		return flag
	}

	if p := os.Getenv(EnvPrefix + "ENVIRONMENT"); p != "" {
		return p
	}

	return "local"
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}

	return out
}

// loadFileIfExists loads a YAML config file if it exists.
// Returns nil if the file doesn't exist, error only for parse/read failures.
func loadFileIfExists(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
