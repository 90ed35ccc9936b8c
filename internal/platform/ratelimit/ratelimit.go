// Package ratelimit provides per-key request limiting.
//
// Two strategies are available: a fixed window counter and a token bucket
// built on golang.org/x/time/rate. Both are safe for concurrent use and evict
// idle keys in the background until Close is called.
package ratelimit

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Strategy names accepted by New.
const (
	StrategyFixedWindow = "fixed_window"
	StrategyTokenBucket = "token_bucket"
)

const defaultCleanupInterval = time.Minute

// ErrInvalidRate is returned for rate expressions ParseRate cannot read.
var ErrInvalidRate = errors.New("invalid rate expression")

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	// Allow records one request for key and reports whether it is allowed.
	Allow(key string) (bool, Info)

	// Close stops background goroutines.
	Close()
}

// Info describes the limiter state after a call to Allow.
type Info struct {
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter time.Duration // zero unless the request was denied
}

// Rate is Limit requests per Period.
type Rate struct {
	Limit  int
	Period time.Duration
}

// String formats the rate the way clients see it in error messages.
func (r Rate) String() string {
	for _, u := range units {
		if r.Period == u.d {
			return fmt.Sprintf("%d per 1 %s", r.Limit, u.name)
		}

		if r.Period%u.d == 0 && r.Period > u.d {
			return fmt.Sprintf("%d per %d %ss", r.Limit, r.Period/u.d, u.name)
		}
	}

	return fmt.Sprintf("%d per %s", r.Limit, r.Period)
}

var units = []struct {
	name string
	d    time.Duration
}{
	{"day", 24 * time.Hour},
	{"hour", time.Hour},
	{"minute", time.Minute},
	{"second", time.Second},
}

var ratePattern = regexp.MustCompile(`^(\d+)\s*(?:/|per)\s*(\d+)?\s*(second|minute|hour|day)s?$`)

// ParseRate reads expressions such as "60/minute", "10 per second" or
// "1000 per 2 hours".
func ParseRate(expr string) (Rate, error) {
	m := ratePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(expr)))
	if m == nil {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, expr)
	}

	limit, err := strconv.Atoi(m[1])
	if err != nil || limit <= 0 {
		return Rate{}, fmt.Errorf("%w: %q: limit must be positive", ErrInvalidRate, expr)
	}

	multiplier := 1
	if m[2] != "" {
		multiplier, err = strconv.Atoi(m[2])
		if err != nil || multiplier <= 0 {
			return Rate{}, fmt.Errorf("%w: %q: period must be positive", ErrInvalidRate, expr)
		}
	}

	var unit time.Duration

	for _, u := range units {
		if u.name == m[3] {
			unit = u.d
		}
	}

	return Rate{Limit: limit, Period: time.Duration(multiplier) * unit}, nil
}

// ParseRates reads one or more rates separated by ";" or ",".
func ParseRates(expr string) ([]Rate, error) {
	parts := strings.FieldsFunc(expr, func(r rune) bool { return r == ';' || r == ',' })
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidRate)
	}

	rates := make([]Rate, 0, len(parts))

	for _, p := range parts {
		r, err := ParseRate(p)
		if err != nil {
			return nil, err
		}

		rates = append(rates, r)
	}

	return rates, nil
}

// Option configures a limiter.
type Option func(*options)

type options struct {
	now             func() time.Time
	cleanupInterval time.Duration
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithCleanupInterval sets how often idle keys are evicted.
// A non-positive interval disables the background janitor.
func WithCleanupInterval(d time.Duration) Option {
	return func(o *options) { o.cleanupInterval = d }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, cleanupInterval: defaultCleanupInterval}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

// New builds a limiter for rate with the named strategy.
func New(strategy string, rate Rate, opts ...Option) (Limiter, error) {
	if rate.Limit <= 0 || rate.Period <= 0 {
		return nil, fmt.Errorf("%w: %d per %s", ErrInvalidRate, rate.Limit, rate.Period)
	}

	switch strategy {
	case "", StrategyFixedWindow:
		return NewFixedWindow(rate, opts...), nil
	case StrategyTokenBucket:
		return NewTokenBucket(rate, opts...), nil
	default:
		return nil, fmt.Errorf("unknown rate limit strategy %q", strategy)
	}
}

// NewFromExpr parses expr with ParseRates and combines one limiter per rate.
func NewFromExpr(strategy, expr string, opts ...Option) (Limiter, error) {
	rates, err := ParseRates(expr)
	if err != nil {
		return nil, err
	}

	limiters := make([]Limiter, 0, len(rates))

	for _, r := range rates {
		l, err := New(strategy, r, opts...)
		if err != nil {
			Multi(limiters...).Close()
			return nil, err
		}

		limiters = append(limiters, l)
	}

	if len(limiters) == 1 {
		return limiters[0], nil
	}

	return Multi(limiters...), nil
}

// janitor runs sweep every interval until stop is closed.
func janitor(interval time.Duration, stop <-chan struct{}, sweep func()) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}
