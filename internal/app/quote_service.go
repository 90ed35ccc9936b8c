// Package app contains application services that orchestrate use cases.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/ports"
)

// DefaultMaxLimit caps the page size when QuoteServiceConfig.MaxLimit is unset.
const DefaultMaxLimit = 100

const instrumentationName = "github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"

// Served kinds recorded on the quotes.served counter.
const (
	KindRandom = "random"
	KindQOTD   = "qotd"
	KindList   = "list"
)

// QuotePage is one slice of the quote collection in ascending id order.
type QuotePage struct {
	Quotes []domain.Quote
	Total  int
	Limit  int
	Offset int
}

// QuoteService orchestrates quote use cases on top of a ports.QuoteStore.
type QuoteService struct {
	store    ports.QuoteStore
	logger   *slog.Logger
	now      func() time.Time
	intn     func(n int) int
	maxLimit int
	served   metric.Int64Counter
}

// QuoteServiceConfig contains the dependencies of the quote service.
type QuoteServiceConfig struct {
	Store  ports.QuoteStore
	Logger *slog.Logger

	// Now is the clock used for the quote of the day. Defaults to time.Now.
	Now func() time.Time

	// Rand returns a value in [0, n). Defaults to math/rand/v2 IntN.
	Rand func(n int) int

	MaxLimit int
}

// NewQuoteService creates a new quote service. It panics without a store.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Store == nil {
		panic("app: QuoteServiceConfig.Store is required")
	}

	svc := &QuoteService{
		store:    cfg.Store,
		logger:   cfg.Logger,
		now:      cfg.Now,
		intn:     cfg.Rand,
		maxLimit: cfg.MaxLimit,
	}

	if svc.logger == nil {
		svc.logger = slog.Default()
	}

	if svc.now == nil {
		svc.now = time.Now
	}

	if svc.intn == nil {
		svc.intn = rand.IntN
	}

	if svc.maxLimit <= 0 {
		svc.maxLimit = DefaultMaxLimit
	}

	counter, err := otel.Meter(instrumentationName).Int64Counter("quotes.served",
		metric.WithDescription("Quotes returned to clients"),
		metric.WithUnit("{quote}"),
	)
	if err != nil {
		svc.logger.Warn("quotes.served counter unavailable", slog.Any("error", err))
	}

	svc.served = counter

	return svc
}

// MaxLimit returns the largest page size List accepts.
func (s *QuoteService) MaxLimit() int {
	return s.maxLimit
}

// Random returns a uniformly random quote.
func (s *QuoteService) Random(ctx context.Context) (*domain.Quote, error) {
	q, err := s.pick(ctx, func(count int) (int, error) {
		return domain.RandomIndexWith(s.intn, count)
	})
	if err != nil {
		return nil, err
	}

	s.record(ctx, KindRandom, 1)

	return q, nil
}

// QuoteOfTheDay returns the quote selected for the current UTC date.
func (s *QuoteService) QuoteOfTheDay(ctx context.Context) (*domain.Quote, error) {
	today := s.now()

	q, err := s.pick(ctx, func(count int) (int, error) {
		return domain.QuoteOfTheDayIndex(today, count)
	})
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "selected quote of the day",
		slog.String("date", today.UTC().Format(domain.DateLayout)),
		slog.Int64("quote_id", q.ID),
	)
	s.record(ctx, KindQOTD, 1)

	return q, nil
}

// pick counts the collection, lets choose turn the count into an offset and
// loads the quote at that offset.
func (s *QuoteService) pick(ctx context.Context, choose func(count int) (int, error)) (*domain.Quote, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		return nil, err
	}

	idx, err := choose(count)
	if err != nil {
		return nil, err
	}

	quotes, err := s.store.List(ctx, idx, 1)
	if err != nil {
		return nil, err
	}

	// The collection shrank between Count and List.
	if len(quotes) == 0 {
		return nil, &domain.EmptyCollectionError{}
	}

	return &quotes[0], nil
}

// List returns a page of quotes and the size of the whole collection.
func (s *QuoteService) List(ctx context.Context, limit, offset int) (*QuotePage, error) {
	if limit < 1 || limit > s.maxLimit {
		return nil, domain.NewValidationErrorWithValue("limit",
			fmt.Sprintf("must be between 1 and %d", s.maxLimit), limit)
	}

	if offset < 0 {
		return nil, domain.NewValidationErrorWithValue("offset", "must be zero or greater", offset)
	}

	total, quotes, err := Parallel2(ctx,
		s.store.Count,
		func(ctx context.Context) ([]domain.Quote, error) {
			return s.store.List(ctx, offset, limit)
		},
	)
	if err != nil {
		return nil, err
	}

	if quotes == nil {
		quotes = []domain.Quote{}
	}

	s.record(ctx, KindList, int64(len(quotes)))

	return &QuotePage{Quotes: quotes, Total: total, Limit: limit, Offset: offset}, nil
}

// Get returns a single quote by id.
func (s *QuoteService) Get(ctx context.Context, id int64) (*domain.Quote, error) {
	return s.store.Get(ctx, id)
}

// Create validates the draft and stores it.
func (s *QuoteService) Create(ctx context.Context, draft domain.QuoteDraft) (*domain.Quote, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	q, err := s.store.Create(ctx, draft.Normalize())
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create quote", slog.Any("error", err))
		return nil, err
	}

	s.logger.InfoContext(ctx, "quote created",
		slog.Int64("quote_id", q.ID),
		slog.String("author", q.Author),
	)

	return q, nil
}

// Update validates the patch and applies it to the stored quote.
func (s *QuoteService) Update(ctx context.Context, id int64, patch domain.QuotePatch) (*domain.Quote, error) {
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	q, err := s.store.Update(ctx, id, patch.Normalize())
	if err != nil {
		if !domain.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "failed to update quote",
				slog.Int64("quote_id", id),
				slog.Any("error", err),
			)
		}

		return nil, err
	}

	s.logger.InfoContext(ctx, "quote updated", slog.Int64("quote_id", q.ID))

	return q, nil
}

// Delete removes a quote.
func (s *QuoteService) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if !domain.IsNotFound(err) {
			s.logger.ErrorContext(ctx, "failed to delete quote",
				slog.Int64("quote_id", id),
				slog.Any("error", err),
			)
		}

		return err
	}

	s.logger.InfoContext(ctx, "quote deleted", slog.Int64("quote_id", id))

	return nil
}

func (s *QuoteService) record(ctx context.Context, kind string, n int64) {
	if s.served == nil || n == 0 {
		return
	}

	s.served.Add(ctx, n, metric.WithAttributes(attribute.String("kind", kind)))
}
