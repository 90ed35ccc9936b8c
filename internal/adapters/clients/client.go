package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/middleware"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

const (
	instrumentationName = "github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/clients"

	// maxBodyBytes caps a decoded response body.
	maxBodyBytes = 10 << 20

	defaultTimeout = 30 * time.Second
)

// Config configures a Client.
type Config struct {
	// Name identifies the remote feed in logs, spans and metrics.
	Name string

	// Settings carries timeout, retry, breaker and transport tuning.
	Settings config.ClientConfig

	Logger *slog.Logger
}

// Client fetches JSON documents with retry, a circuit breaker, tracing and
// request ID propagation.
type Client struct {
	http    *http.Client
	name    string
	retry   config.RetryConfig
	breaker *Breaker
	logger  *slog.Logger
	tracer  trace.Tracer

	duration metric.Float64Histogram
	requests metric.Int64Counter

	// wait sleeps between attempts; replaced in tests.
	wait func(ctx context.Context, d time.Duration) error
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Name == "" {
		return nil, errors.New("client name is required")
	}

	settings := cfg.Settings
	if settings.Timeout <= 0 {
		settings.Timeout = defaultTimeout
	}

	settings.Retry.MaxAttempts = max(settings.Retry.MaxAttempts, 1)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "clients.Client"), slog.String("remote", cfg.Name))

	meter := otel.Meter(instrumentationName)

	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of outbound quote feed requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	requests, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Outbound quote feed requests by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	breaker := NewBreaker(settings.CircuitBreaker, OnTransition(func(from, to State) {
		logger.Warn("circuit breaker state changed",
			slog.String("from", from.String()),
			slog.String("to", to.String()),
		)
	}))

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        settings.Transport.MaxIdleConns,
		MaxIdleConnsPerHost: settings.Transport.MaxIdleConnsPerHost,
		IdleConnTimeout:     settings.Transport.IdleConnTimeout,
	}

	return &Client{
		http:     &http.Client{Timeout: settings.Timeout, Transport: transport},
		name:     cfg.Name,
		retry:    settings.Retry,
		breaker:  breaker,
		logger:   logger,
		tracer:   otel.Tracer(instrumentationName),
		duration: duration,
		requests: requests,
		wait:     sleep,
	}, nil
}

// CircuitState returns the breaker position.
func (c *Client) CircuitState() State {
	return c.breaker.State()
}

// GetJSON issues GET url and decodes a 2xx JSON body into out.
//
// Transport errors, 5xx and 429 answers are retried with exponential backoff.
// Any other non-2xx answer is returned at once as *StatusError.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	start := time.Now()
	logger := logging.FromContext(ctx).With(slog.String("remote", c.name), slog.String("url", url))

	if err := c.breaker.Acquire(); err != nil {
		c.record(ctx, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")

		return err
	}

	ctx, span := c.tracer.Start(ctx, "GET "+c.name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", http.MethodGet),
			attribute.String("http.url", url),
			attribute.String("peer.service", c.name),
		),
	)
	defer span.End()

	resp, err := c.attempt(ctx, url, logger)
	if err != nil {
		c.breaker.Done(isStatus(err))
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, statusOf(err), time.Since(start), "error")
		logger.Error("request failed", slog.Duration("duration", time.Since(start)), slog.Any("error", err))

		return err
	}
	defer func() { _ = resp.Body.Close() }()

	c.breaker.Done(true)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, resp.StatusCode, time.Since(start), "decode_error")

		return fmt.Errorf("decoding %s response: %w", c.name, err)
	}

	c.record(ctx, resp.StatusCode, time.Since(start), "ok")
	logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	return nil
}

// attempt runs the retry loop and returns a 2xx response with an open body.
func (c *Client) attempt(ctx context.Context, url string, logger *slog.Logger) (*http.Response, error) {
	var lastErr error

	for n := range c.retry.MaxAttempts {
		if n > 0 {
			backoff := c.backoff(n)
			logger.Debug("retrying request", slog.Int("attempt", n+1), slog.Duration("backoff", backoff))

			if err := c.wait(ctx, backoff); err != nil {
				return nil, err
			}
		}

		req, err := c.newRequest(ctx, url)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if !isRetryableError(err) {
				return nil, err
			}

			lastErr = err

			continue
		}

		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()

		statusErr := &StatusError{URL: url, StatusCode: resp.StatusCode}
		if !retryableStatus(resp.StatusCode) {
			return nil, statusErr
		}

		lastErr = statusErr
	}

	return nil, fmt.Errorf("%w: %w", ErrMaxRetriesExceeded, lastErr)
}

func (c *Client) newRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return req, nil
}

// backoff returns initial * multiplier^(n-1), capped at the max interval and
// spread by the jitter factor.
func (c *Client) backoff(n int) time.Duration {
	d := float64(c.retry.InitialInterval) * math.Pow(max(c.retry.Multiplier, 1), float64(n-1))
	if c.retry.MaxInterval > 0 {
		d = math.Min(d, float64(c.retry.MaxInterval))
	}

	if c.retry.JitterFactor > 0 {
		d += d * c.retry.JitterFactor * (rand.Float64()*2 - 1) //nolint:gosec // jitter only
	}

	return time.Duration(d)
}

func (c *Client) record(ctx context.Context, status int, d time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("peer.service", c.name),
		attribute.String("result", result),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	c.duration.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
	c.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// isStatus reports whether err is a definitive non-retryable answer, which
// proves the remote is up.
func isStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && !retryableStatus(se.StatusCode)
}

func statusOf(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}

	return 0
}

// isRetryableError reports whether a transport error is worth another try.
func isRetryableError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}
