package bunstore

import (
	"context"
	"fmt"
)

// HealthChecker reports whether the database answers pings.
type HealthChecker struct {
	store *Store
}

// NewHealthChecker creates a readiness check for the store's connection.
func NewHealthChecker(store *Store) *HealthChecker {
	return &HealthChecker{store: store}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string {
	return "database"
}

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	if err := h.store.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	return nil
}
