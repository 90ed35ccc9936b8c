package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func TestParseRate(t *testing.T) {
	tests := []struct {
		expr    string
		want    Rate
		wantErr bool
	}{
		{expr: "60/minute", want: Rate{Limit: 60, Period: time.Minute}},
		{expr: "10/second", want: Rate{Limit: 10, Period: time.Second}},
		{expr: "60 per minute", want: Rate{Limit: 60, Period: time.Minute}},
		{expr: " 100 Per Hour ", want: Rate{Limit: 100, Period: time.Hour}},
		{expr: "1000 per 2 hours", want: Rate{Limit: 1000, Period: 2 * time.Hour}},
		{expr: "5/day", want: Rate{Limit: 5, Period: 24 * time.Hour}},
		{expr: "5 per 30 seconds", want: Rate{Limit: 5, Period: 30 * time.Second}},
		{expr: "", wantErr: true},
		{expr: "sixty/minute", wantErr: true},
		{expr: "0/minute", wantErr: true},
		{expr: "10/fortnight", wantErr: true},
		{expr: "10 per 0 minutes", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := ParseRate(tt.expr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRate)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRates(t *testing.T) {
	rates, err := ParseRates("60/minute; 1000 per day")
	require.NoError(t, err)
	assert.Equal(t, []Rate{
		{Limit: 60, Period: time.Minute},
		{Limit: 1000, Period: 24 * time.Hour},
	}, rates)

	_, err = ParseRates(" ; ")
	require.Error(t, err)

	_, err = ParseRates("60/minute,bogus")
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestRate_String(t *testing.T) {
	assert.Equal(t, "60 per 1 minute", Rate{Limit: 60, Period: time.Minute}.String())
	assert.Equal(t, "10 per 1 second", Rate{Limit: 10, Period: time.Second}.String())
	assert.Equal(t, "1000 per 2 hours", Rate{Limit: 1000, Period: 2 * time.Hour}.String())
	assert.Equal(t, "3 per 1.5s", Rate{Limit: 3, Period: 1500 * time.Millisecond}.String())
}

func TestNew(t *testing.T) {
	r := Rate{Limit: 1, Period: time.Second}

	l, err := New("", r, WithCleanupInterval(0))
	require.NoError(t, err)
	assert.IsType(t, &FixedWindow{}, l)
	l.Close()

	l, err = New(StrategyTokenBucket, r, WithCleanupInterval(0))
	require.NoError(t, err)
	assert.IsType(t, &TokenBucket{}, l)
	l.Close()

	_, err = New("leaky_bucket", r)
	require.Error(t, err)

	_, err = New(StrategyFixedWindow, Rate{})
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestFixedWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(Rate{Limit: 3, Period: time.Minute}, WithClock(clock.Now), WithCleanupInterval(0))
	t.Cleanup(l.Close)

	for i := range 3 {
		ok, info := l.Allow("1.2.3.4")
		require.True(t, ok, "request %d", i+1)
		assert.Equal(t, 3, info.Limit)
		assert.Equal(t, 2-i, info.Remaining)
		assert.Zero(t, info.RetryAfter)
	}

	clock.Advance(20 * time.Second)

	ok, info := l.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 40*time.Second, info.RetryAfter)

	ok, _ = l.Allow("5.6.7.8")
	assert.True(t, ok, "other keys have their own window")

	clock.Advance(40 * time.Second)

	ok, info = l.Allow("1.2.3.4")
	assert.True(t, ok, "window resets after the period")
	assert.Equal(t, 2, info.Remaining)
	assert.Equal(t, clock.Now().Add(time.Minute), info.ResetAt)
}

func TestFixedWindow_Sweep(t *testing.T) {
	clock := newFakeClock()
	l := NewFixedWindow(Rate{Limit: 1, Period: time.Second}, WithClock(clock.Now), WithCleanupInterval(0))
	t.Cleanup(l.Close)

	l.Allow("a")
	l.Allow("b")
	require.Equal(t, 2, l.Len())

	clock.Advance(time.Second)
	l.sweep()

	assert.Equal(t, 0, l.Len())
}

func TestFixedWindow_Concurrent(t *testing.T) {
	l := NewFixedWindow(Rate{Limit: 50, Period: time.Hour}, WithCleanupInterval(0))
	t.Cleanup(l.Close)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)

	for range 200 {
		wg.Go(func() {
			if ok, _ := l.Allow("k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		})
	}

	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestTokenBucket(t *testing.T) {
	clock := newFakeClock()
	l := NewTokenBucket(Rate{Limit: 2, Period: time.Second}, WithClock(clock.Now), WithCleanupInterval(0))
	t.Cleanup(l.Close)

	ok, info := l.Allow("k")
	require.True(t, ok)
	assert.Equal(t, 1, info.Remaining)

	ok, info = l.Allow("k")
	require.True(t, ok)
	assert.Equal(t, 0, info.Remaining)

	ok, info = l.Allow("k")
	assert.False(t, ok)
	assert.Equal(t, 500*time.Millisecond, info.RetryAfter)
	assert.Equal(t, clock.Now().Add(time.Second), info.ResetAt)

	clock.Advance(500 * time.Millisecond)

	ok, _ = l.Allow("k")
	assert.True(t, ok, "one token refilled")

	ok, _ = l.Allow("k")
	assert.False(t, ok)
}

func TestTokenBucket_Sweep(t *testing.T) {
	clock := newFakeClock()
	l := NewTokenBucket(Rate{Limit: 1, Period: time.Minute}, WithClock(clock.Now), WithCleanupInterval(0))
	t.Cleanup(l.Close)

	l.Allow("a")
	clock.Advance(30 * time.Second)
	l.Allow("b")

	clock.Advance(30 * time.Second)
	l.sweep()

	assert.Equal(t, 1, l.Len())
}

func TestMulti(t *testing.T) {
	clock := newFakeClock()
	opts := []Option{WithClock(clock.Now), WithCleanupInterval(0)}

	perSecond := NewFixedWindow(Rate{Limit: 2, Period: time.Second}, opts...)
	perMinute := NewFixedWindow(Rate{Limit: 4, Period: time.Minute}, opts...)
	l := Multi(perMinute, perSecond)
	t.Cleanup(l.Close)

	ok, info := l.Allow("k")
	require.True(t, ok)
	assert.Equal(t, 1, info.Remaining, "reports the tightest limit")
	assert.Equal(t, 2, info.Limit)

	l.Allow("k")

	ok, info = l.Allow("k")
	assert.False(t, ok)
	assert.Equal(t, 2, info.Limit)

	clock.Advance(time.Second)

	ok, _ = l.Allow("k")
	require.True(t, ok)

	ok, info = l.Allow("k")
	assert.False(t, ok, "minute budget exhausted")
	assert.Equal(t, 4, info.Limit)
	assert.Equal(t, 59*time.Second, info.RetryAfter)
}

func TestNewFromExpr(t *testing.T) {
	l, err := NewFromExpr(StrategyFixedWindow, "10/second", WithCleanupInterval(0))
	require.NoError(t, err)
	assert.IsType(t, &FixedWindow{}, l)
	l.Close()

	l, err = NewFromExpr(StrategyFixedWindow, "10/second;100/minute", WithCleanupInterval(0))
	require.NoError(t, err)
	assert.IsType(t, multi{}, l)
	l.Close()

	_, err = NewFromExpr("nope", "10/second")
	require.Error(t, err)
}

func TestClose_IsIdempotent(t *testing.T) {
	l := NewTokenBucket(Rate{Limit: 1, Period: time.Second}, WithCleanupInterval(time.Millisecond))

	assert.NotPanics(t, func() {
		l.Close()
		l.Close()
	})
}
