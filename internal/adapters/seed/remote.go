package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/clients"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
)

// JSONGetter fetches and decodes a JSON document. *clients.Client
// satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, out any) error
}

// RemoteSource pulls quotes from a JSON endpoint. The body may be a bare
// list or a {"quotes": [...]} object.
type RemoteSource struct {
	url    string
	client JSONGetter
}

// NewRemoteSource returns a source for url fetched through client.
func NewRemoteSource(url string, client JSONGetter) *RemoteSource {
	return &RemoteSource{url: url, client: client}
}

// Name returns the URL.
func (s *RemoteSource) Name() string {
	return s.url
}

// Fetch downloads the feed. Transport failures surface as
// domain.UnavailableError.
func (s *RemoteSource) Fetch(ctx context.Context) ([]domain.QuoteDraft, error) {
	var raw json.RawMessage
	if err := s.client.GetJSON(ctx, s.url, &raw); err != nil {
		return nil, translate(s.url, err)
	}

	drafts, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing quote feed %s: %w", s.url, err)
	}

	return drafts, nil
}

func translate(url string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(url, "circuit open")
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(url, "retries exhausted")
	}

	var se *clients.StatusError
	if errors.As(err, &se) {
		return domain.NewUnavailableError(url, fmt.Sprintf("status %d", se.StatusCode))
	}

	return domain.NewUnavailableError(url, err.Error())
}
