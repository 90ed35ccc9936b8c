package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ErrDuplicateChecker rejects a second checker under a name already taken.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// HealthChecker probes one dependency of the service, such as the quote
// database. Check returns nil when the dependency can serve traffic and must
// give up when ctx ends.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// HealthRegistry collects the checkers behind the readiness probe.
type HealthRegistry interface {
	Register(checker HealthChecker) error
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is "healthy" or "unhealthy".
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the readiness report. Status is unhealthy as soon as one
// entry in Checks is.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// CheckResult is the outcome of one probe. Message holds the probe error.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry runs every checker in parallel on each CheckAll.
// A positive CheckTimeout bounds each probe separately, so one hung
// dependency cannot hold up the report past that.
type DefaultHealthRegistry struct {
	CheckTimeout time.Duration

	mu       sync.RWMutex
	checkers []HealthChecker
}

func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{}
}

// Register adds checker. Names must be unique.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll probes every registered dependency and returns once all probes
// have finished or given up.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	r.mu.RUnlock()

	// Each goroutine owns one slot, so no lock is needed while probing.
	outcomes := make([]*CheckResult, len(checkers))

	var g errgroup.Group
	for i, checker := range checkers {
		g.Go(func() error {
			outcomes[i] = r.probe(ctx, checker)
			return nil
		})
	}
	_ = g.Wait()

	report := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now().UTC(),
	}

	for i, checker := range checkers {
		report.Checks[checker.Name()] = outcomes[i]
		if outcomes[i].Status == HealthStatusUnhealthy {
			report.Status = HealthStatusUnhealthy
		}
	}

	return report
}

func (r *DefaultHealthRegistry) probe(ctx context.Context, checker HealthChecker) *CheckResult {
	if r.CheckTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CheckTimeout)
		defer cancel()
	}

	start := time.Now()
	err := checker.Check(ctx)
	out := &CheckResult{Status: HealthStatusHealthy, Duration: time.Since(start)}

	if err != nil {
		out.Status = HealthStatusUnhealthy
		out.Message = err.Error()
	}

	return out
}
