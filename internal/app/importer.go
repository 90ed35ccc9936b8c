package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/ports"
)

// ImportResult summarizes one run of SeedImporter.Import.
type ImportResult struct {
	Source   string
	Imported int
	Skipped  int
}

// SeedImporter loads quotes from a ports.QuoteSource into the store.
// Drafts that are invalid or already stored are skipped, so repeated
// imports of the same source add nothing.
type SeedImporter struct {
	store  ports.QuoteStore
	logger *slog.Logger
}

// NewSeedImporter creates an importer writing to store.
func NewSeedImporter(store ports.QuoteStore, logger *slog.Logger) *SeedImporter {
	if logger == nil {
		logger = slog.Default()
	}

	return &SeedImporter{store: store, logger: logger}
}

// Import fetches every draft from source and stores the new ones.
// It stops at the first store failure; quotes created before it stay stored.
func (i *SeedImporter) Import(ctx context.Context, source ports.QuoteSource) (ImportResult, error) {
	result := ImportResult{Source: source.Name()}
	logger := i.logger.With(slog.String("source", result.Source))

	drafts, err := source.Fetch(ctx)
	if err != nil {
		return result, fmt.Errorf("fetching seed quotes from %s: %w", result.Source, err)
	}

	for n, draft := range drafts {
		if err := draft.Validate(); err != nil {
			logger.WarnContext(ctx, "skipping invalid seed quote",
				slog.Int("position", n),
				slog.Any("error", err),
			)
			result.Skipped++

			continue
		}

		draft = draft.Normalize()

		exists, err := i.store.Exists(ctx, draft.Text, draft.Author)
		if err != nil {
			return result, err
		}

		if exists {
			logger.DebugContext(ctx, "seed quote already stored", slog.Int("position", n))
			result.Skipped++

			continue
		}

		if _, err := i.store.Create(ctx, draft); err != nil {
			return result, err
		}

		result.Imported++
	}

	logger.InfoContext(ctx, "seed import finished",
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped),
	)

	return result, nil
}
