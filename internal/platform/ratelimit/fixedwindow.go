package ratelimit

import (
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// FixedWindow counts requests per key in windows of Rate.Period that start
// at the first request for the key.
type FixedWindow struct {
	rate Rate
	now  func() time.Time

	mu      sync.Mutex
	windows map[string]*window

	stop      chan struct{}
	closeOnce sync.Once
}

var _ Limiter = (*FixedWindow)(nil)

// NewFixedWindow creates a fixed window limiter.
func NewFixedWindow(rate Rate, opts ...Option) *FixedWindow {
	o := buildOptions(opts)

	l := &FixedWindow{
		rate:    rate,
		now:     o.now,
		windows: make(map[string]*window),
		stop:    make(chan struct{}),
	}

	janitor(o.cleanupInterval, l.stop, l.sweep)

	return l
}

// Allow implements Limiter.
func (l *FixedWindow) Allow(key string) (bool, Info) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || !now.Before(w.start.Add(l.rate.Period)) {
		w = &window{start: now}
		l.windows[key] = w
	}

	resetAt := w.start.Add(l.rate.Period)
	info := Info{Limit: l.rate.Limit, ResetAt: resetAt}

	if w.count >= l.rate.Limit {
		info.RetryAfter = resetAt.Sub(now)
		return false, info
	}

	w.count++
	info.Remaining = l.rate.Limit - w.count

	return true, info
}

// Len reports how many keys are tracked.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.windows)
}

// Close implements Limiter.
func (l *FixedWindow) Close() {
	l.closeOnce.Do(func() { close(l.stop) })
}

func (l *FixedWindow) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, w := range l.windows {
		if !now.Before(w.start.Add(l.rate.Period)) {
			delete(l.windows, key)
		}
	}
}
