package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// TokenBucket gives every key a bucket of Rate.Limit tokens refilled evenly
// over Rate.Period.
type TokenBucket struct {
	rate     Rate
	interval time.Duration
	now      func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket

	stop      chan struct{}
	closeOnce sync.Once
}

var _ Limiter = (*TokenBucket)(nil)

// NewTokenBucket creates a token bucket limiter.
func NewTokenBucket(r Rate, opts ...Option) *TokenBucket {
	o := buildOptions(opts)

	l := &TokenBucket{
		rate:     r,
		interval: r.Period / time.Duration(r.Limit),
		now:      o.now,
		buckets:  make(map[string]*bucket),
		stop:     make(chan struct{}),
	}

	janitor(o.cleanupInterval, l.stop, l.sweep)

	return l
}

// Allow implements Limiter.
func (l *TokenBucket) Allow(key string) (bool, Info) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.interval), l.rate.Limit)}
		l.buckets[key] = b
	}

	b.lastSeen = now

	res := b.limiter.ReserveN(now, 1)
	if delay := res.DelayFrom(now); delay > 0 {
		res.CancelAt(now)

		return false, l.info(b, now, delay)
	}

	return true, l.info(b, now, 0)
}

func (l *TokenBucket) info(b *bucket, now time.Time, retryAfter time.Duration) Info {
	tokens := b.limiter.TokensAt(now)

	remaining := max(int(math.Floor(tokens)), 0)
	missing := float64(l.rate.Limit) - tokens

	return Info{
		Limit:      l.rate.Limit,
		Remaining:  remaining,
		ResetAt:    now.Add(time.Duration(missing * float64(l.interval))),
		RetryAfter: retryAfter,
	}
}

// Len reports how many keys are tracked.
func (l *TokenBucket) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.buckets)
}

// Close implements Limiter.
func (l *TokenBucket) Close() {
	l.closeOnce.Do(func() { close(l.stop) })
}

// sweep drops buckets that have been idle long enough to be full again.
func (l *TokenBucket) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.rate.Period {
			delete(l.buckets, key)
		}
	}
}
