package clients

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/middleware"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

type feed struct {
	Quotes []struct {
		Text   string `json:"text"`
		Author string `json:"author"`
	} `json:"quotes"`
}

func testSettings() config.ClientConfig {
	return config.ClientConfig{
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     100 * time.Millisecond,
			Multiplier:      2.0,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	}
}

func newTestClient(t *testing.T, settings config.ClientConfig) *Client {
	t.Helper()

	c, err := New(Config{Name: "test-feed", Settings: settings, Logger: logging.Discard()})
	require.NoError(t, err)

	c.wait = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	return c
}

func TestNew_RequiresName(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client name is required")
}

func TestClient_GetJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"quotes":[{"text":"Keep going.","author":"Anon"}]}`))
	}))
	defer server.Close()

	var got feed
	err := newTestClient(t, testSettings()).GetJSON(context.Background(), server.URL, &got)

	require.NoError(t, err)
	require.Len(t, got.Quotes, 1)
	assert.Equal(t, "Keep going.", got.Quotes[0].Text)
}

func TestClient_PropagatesRequestIDs(t *testing.T) {
	var requestID, correlationID string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get(middleware.HeaderRequestID)
		correlationID = r.Header.Get(middleware.HeaderCorrelationID)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	ctx := middleware.ContextWithRequestID(context.Background(), "req-1")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-1")

	var out map[string]any
	require.NoError(t, newTestClient(t, testSettings()).GetJSON(ctx, server.URL, &out))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "corr-1", correlationID)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		_, _ = w.Write([]byte(`{"quotes":[]}`))
	}))
	defer server.Close()

	var got feed
	require.NoError(t, newTestClient(t, testSettings()).GetJSON(context.Background(), server.URL, &got))
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
		wantMax   bool
	}{
		{"not found is final", http.StatusNotFound, 1, false},
		{"unauthorized is final", http.StatusUnauthorized, 1, false},
		{"too many requests is retried", http.StatusTooManyRequests, 3, true},
		{"server error is retried", http.StatusInternalServerError, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			var out feed
			err := newTestClient(t, testSettings()).GetJSON(context.Background(), server.URL, &out)

			require.Error(t, err)
			assert.Equal(t, tt.wantCalls, calls.Load())
			assert.Equal(t, tt.wantMax, errors.Is(err, ErrMaxRetriesExceeded))

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.status, se.StatusCode)
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	var out feed
	err := newTestClient(t, testSettings()).GetJSON(context.Background(), server.URL, &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding test-feed response")
}

func TestClient_CircuitOpensAndShortCircuits(t *testing.T) {
	var calls atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	settings := testSettings()
	settings.Retry.MaxAttempts = 1
	settings.CircuitBreaker.MaxFailures = 2

	client := newTestClient(t, settings)

	var out feed
	for range 2 {
		require.Error(t, client.GetJSON(context.Background(), server.URL, &out))
	}

	assert.Equal(t, StateOpen, client.CircuitState())

	err := client.GetJSON(context.Background(), server.URL, &out)
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), calls.Load(), "open circuit sends nothing")
}

func TestClient_ClientErrorKeepsCircuitClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	settings := testSettings()
	settings.CircuitBreaker.MaxFailures = 1

	client := newTestClient(t, settings)

	var out feed
	require.Error(t, client.GetJSON(context.Background(), server.URL, &out))
	assert.Equal(t, StateClosed, client.CircuitState())
}

func TestClient_ContextCancelledDuringBackoff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, testSettings())
	client.wait = sleep

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	settings := testSettings()
	settings.Retry.InitialInterval = time.Second
	client.retry = settings.Retry

	var out feed
	err := client.GetJSON(ctx, server.URL, &out)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_Backoff(t *testing.T) {
	client := newTestClient(t, testSettings())

	assert.Equal(t, 10*time.Millisecond, client.backoff(1))
	assert.Equal(t, 20*time.Millisecond, client.backoff(2))
	assert.Equal(t, 40*time.Millisecond, client.backoff(3))
	assert.Equal(t, 100*time.Millisecond, client.backoff(10), "capped at max interval")

	client.retry.JitterFactor = 0.25
	for range 50 {
		d := client.backoff(2)
		assert.GreaterOrEqual(t, d, 15*time.Millisecond)
		assert.LessOrEqual(t, d, 25*time.Millisecond)
	}
}

type testNetError struct{ timeout bool }

func (e testNetError) Error() string   { return "test net error" }
func (e testNetError) Timeout() bool   { return e.timeout }
func (e testNetError) Temporary() bool { return false }

func TestIsRetryableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"net timeout", testNetError{timeout: true}, true},
		{"net non-timeout", testNetError{timeout: false}, false},
		{"connection refused", &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED}, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableError(tt.err))
		})
	}
}
