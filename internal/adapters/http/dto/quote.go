package dto

import "github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"

// QuoteResponse is the wire form of a quote.
type QuoteResponse struct {
	ID     int64  `json:"id"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

// FromQuote converts a domain quote.
func FromQuote(q *domain.Quote) QuoteResponse {
	return QuoteResponse{ID: q.ID, Text: q.Text, Author: q.Author}
}

// QuoteListResponse is one page of quotes.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// NewQuoteList converts a page. Quotes is never null.
func NewQuoteList(quotes []domain.Quote, total, limit, offset int) QuoteListResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		out = append(out, FromQuote(&quotes[i]))
	}

	return QuoteListResponse{Quotes: out, Total: total, Limit: limit, Offset: offset}
}

// DeleteResponse acknowledges a deletion.
type DeleteResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// ListQuery holds the raw paging parameters. Nil means absent.
type ListQuery struct {
	Limit  *int `form:"limit"`
	Offset *int `form:"offset"`
}

// Resolve applies defaults for absent parameters.
func (q ListQuery) Resolve(defaultLimit int) (limit, offset int) {
	limit, offset = defaultLimit, 0
	if q.Limit != nil {
		limit = *q.Limit
	}

	if q.Offset != nil {
		offset = *q.Offset
	}

	return limit, offset
}

// CreateQuoteRequest is the POST body.
type CreateQuoteRequest struct {
	Text   string `json:"text"   validate:"required,notblank"`
	Author string `json:"author" validate:"required,notblank"`
}

// Draft converts the request for the service layer.
func (r CreateQuoteRequest) Draft() domain.QuoteDraft {
	return domain.QuoteDraft{Text: r.Text, Author: r.Author}
}

// UpdateQuoteRequest is the PUT body. Absent fields are left unchanged.
type UpdateQuoteRequest struct {
	Text   *string `json:"text"   validate:"omitempty,notblank"`
	Author *string `json:"author" validate:"omitempty,notblank"`
}

// Patch converts the request for the service layer.
func (r UpdateQuoteRequest) Patch() domain.QuotePatch {
	return domain.QuotePatch{Text: r.Text, Author: r.Author}
}

// IndexResponse is the root documentation payload.
type IndexResponse struct {
	Message       string            `json:"message"`
	Endpoints     map[string]string `json:"endpoints"`
	Documentation string            `json:"documentation,omitempty"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}
