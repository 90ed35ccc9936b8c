// Package ports defines interfaces for external dependencies.
// The application layer depends on these contracts, and adapters implement them.
//
// Port conventions:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never driver or ORM types
//   - Errors are domain errors (NotFoundError, StoreError, ...)
package ports

import (
	"context"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
)

// QuoteStore persists quotes. Every write is a single atomic transaction.
//
// Implementations return *domain.NotFoundError for unknown ids and
// *domain.StoreError for any persistence fault.
type QuoteStore interface {
	// Create stores a validated draft and returns it with its new id.
	Create(ctx context.Context, draft domain.QuoteDraft) (*domain.Quote, error)

	// Get returns the quote with the given id.
	Get(ctx context.Context, id int64) (*domain.Quote, error)

	// List returns up to limit quotes ordered by ascending id, skipping offset.
	List(ctx context.Context, offset, limit int) ([]domain.Quote, error)

	// Count returns the number of stored quotes.
	Count(ctx context.Context) (int, error)

	// Update applies patch to the quote with the given id.
	Update(ctx context.Context, id int64, patch domain.QuotePatch) (*domain.Quote, error)

	// Delete removes the quote with the given id.
	Delete(ctx context.Context, id int64) error

	// Exists reports whether a quote with exactly this text and author is stored.
	Exists(ctx context.Context, text, author string) (bool, error)
}

// QuoteSource yields quotes to import, such as a seed file or a remote feed.
type QuoteSource interface {
	// Name identifies the source in logs.
	Name() string

	// Fetch returns every draft the source holds. Drafts are not validated.
	Fetch(ctx context.Context) ([]domain.QuoteDraft, error)
}
