package clients

import (
	"sync"
	"time"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/config"
)

// State is the position of a Breaker.
type State int

const (
	// StateClosed lets every call through and counts consecutive failures.
	StateClosed State = iota

	// StateOpen rejects calls until the cooldown has passed.
	StateOpen

	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// BreakerOption customizes a Breaker.
type BreakerOption func(*Breaker)

// WithBreakerClock replaces time.Now, for tests.
func WithBreakerClock(now func() time.Time) BreakerOption {
	return func(b *Breaker) { b.now = now }
}

// OnTransition registers fn to run after every state change.
// fn runs outside the breaker lock on the goroutine that caused the change.
func OnTransition(fn func(from, to State)) BreakerOption {
	return func(b *Breaker) { b.notify = fn }
}

// Breaker guards a remote endpoint.
//
//   - Closed → Open after MaxFailures consecutive failures.
//   - Open → HalfOpen once Timeout has passed since it opened.
//   - HalfOpen → Closed after HalfOpenLimit successful probes.
//   - HalfOpen → Open on any failed probe.
type Breaker struct {
	mu        sync.Mutex
	state     State
	failures  int
	successes int
	inFlight  int
	openedAt  time.Time

	maxFailures int
	cooldown    time.Duration
	probeLimit  int

	now    func() time.Time
	notify func(from, to State)
}

// NewBreaker builds a closed breaker from the client circuit settings.
// Zero settings fall back to one failure, a one second cooldown and one probe.
func NewBreaker(cfg config.CircuitBreakerConfig, opts ...BreakerOption) *Breaker {
	b := &Breaker{
		maxFailures: max(cfg.MaxFailures, 1),
		cooldown:    cfg.Timeout,
		probeLimit:  max(cfg.HalfOpenLimit, 1),
		now:         time.Now,
	}
	if b.cooldown <= 0 {
		b.cooldown = time.Second
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Acquire reserves a call slot. It returns ErrCircuitOpen when the call
// must not be attempted. Every successful Acquire must be paired with Done.
func (b *Breaker) Acquire() error {
	b.mu.Lock()
	from, to, changed := b.state, b.state, false

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			b.mu.Unlock()
			return ErrCircuitOpen
		}

		to, changed = b.moveTo(StateHalfOpen), true
		b.inFlight = 1
	case StateHalfOpen:
		if b.inFlight >= b.probeLimit {
			b.mu.Unlock()
			return ErrCircuitOpen
		}

		b.inFlight++
	}

	b.mu.Unlock()
	b.fire(from, to, changed)

	return nil
}

// Done reports the outcome of a call admitted by Acquire.
func (b *Breaker) Done(success bool) {
	b.mu.Lock()
	from, to, changed := b.state, b.state, false

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			break
		}

		b.failures++
		if b.failures >= b.maxFailures {
			to, changed = b.moveTo(StateOpen), true
		}
	case StateHalfOpen:
		b.inFlight = max(b.inFlight-1, 0)
		if !success {
			to, changed = b.moveTo(StateOpen), true
			break
		}

		b.successes++
		if b.successes >= b.probeLimit {
			to, changed = b.moveTo(StateClosed), true
		}
	}

	b.mu.Unlock()
	b.fire(from, to, changed)
}

// State returns the current position.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// moveTo must be called with mu held.
func (b *Breaker) moveTo(s State) State {
	b.state = s
	b.failures = 0
	b.successes = 0

	if s == StateOpen {
		b.openedAt = b.now()
		b.inFlight = 0
	}

	return s
}

func (b *Breaker) fire(from, to State, changed bool) {
	if changed && from != to && b.notify != nil {
		b.notify(from, to)
	}
}
