package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/adapters/http/dto"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/app"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/mocks"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

var sampleQuotes = []domain.Quote{
	{ID: 1, Text: "Keep going.", Author: "Anon"},
	{ID: 2, Text: "Start where you are.", Author: "Arthur Ashe"},
	{ID: 3, Text: "Well done is better than well said.", Author: "Benjamin Franklin"},
}

// setupQuoteRouter wires a QuoteHandler over a mocked store.
func setupQuoteRouter(t *testing.T, setupMock func(*mocks.MockQuoteStore)) *gin.Engine {
	t.Helper()

	store := mocks.NewMockQuoteStore(t)
	if setupMock != nil {
		setupMock(store)
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Store:    store,
		Logger:   logging.Discard(),
		Now:      func() time.Time { return time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) },
		Rand:     func(int) int { return 1 },
		MaxLimit: 100,
	})

	handler := NewQuoteHandler(service, 10)

	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterReadRoutes(api)
	handler.RegisterAdminRoutes(api)

	return router
}

func serve(router *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, dto.Envelope) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env dto.Envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)

	return w, env
}

// dataAs re-decodes env.Data into T.
func dataAs[T any](t *testing.T, env dto.Envelope) T {
	t.Helper()

	raw, err := json.Marshal(env.Data)
	require.NoError(t, err)

	var out T
	require.NoError(t, json.Unmarshal(raw, &out))

	return out
}

func messageOf(env dto.Envelope) string {
	if env.Message == nil {
		return ""
	}

	return *env.Message
}

func TestNewQuoteHandler_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, NewQuoteHandler(nil, 0).defaultLimit)
	assert.Equal(t, 25, NewQuoteHandler(nil, 25).defaultLimit)
}

func TestQuoteHandler_Random(t *testing.T) {
	tests := []struct {
		name       string
		setupMock  func(*mocks.MockQuoteStore)
		wantStatus int
		wantID     int64
		wantMsg    string
	}{
		{
			name: "returns the quote at the drawn offset",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Count(mock.Anything).Return(3, nil)
				m.EXPECT().List(mock.Anything, 1, 1).Return(sampleQuotes[1:2], nil)
			},
			wantStatus: http.StatusOK,
			wantID:     2,
		},
		{
			name: "empty collection",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Count(mock.Anything).Return(0, nil)
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "No quotes found",
		},
		{
			name: "store failure is hidden",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Count(mock.Anything).
					Return(0, domain.NewStoreError("count", errors.New("disk I/O error")))
			},
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, tt.setupMock)

			w, env := serve(router, http.MethodGet, "/api/v1/quote", "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotContains(t, w.Body.String(), "disk I/O")

			if tt.wantMsg != "" {
				assert.False(t, env.Success)
				assert.Nil(t, env.Data)
				assert.Equal(t, tt.wantMsg, messageOf(env))

				return
			}

			assert.True(t, env.Success)
			assert.Equal(t, tt.wantID, dataAs[dto.QuoteResponse](t, env).ID)
		})
	}
}

func TestQuoteHandler_QuoteOfTheDay(t *testing.T) {
	want, err := domain.QuoteOfTheDayIndex(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 3)
	require.NoError(t, err)

	router := setupQuoteRouter(t, func(m *mocks.MockQuoteStore) {
		m.EXPECT().Count(mock.Anything).Return(3, nil).Times(2)
		m.EXPECT().List(mock.Anything, want, 1).Return(sampleQuotes[want:want+1], nil).Times(2)
	})

	_, first := serve(router, http.MethodGet, "/api/v1/qotd", "")
	_, second := serve(router, http.MethodGet, "/api/v1/qotd", "")

	assert.True(t, first.Success)
	assert.Equal(t, dataAs[dto.QuoteResponse](t, first), dataAs[dto.QuoteResponse](t, second))
	assert.Equal(t, sampleQuotes[want].ID, dataAs[dto.QuoteResponse](t, first).ID)
}

func TestQuoteHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		setupMock  func(*mocks.MockQuoteStore)
		wantStatus int
		wantMsg    string
		wantList   *dto.QuoteListResponse
	}{
		{
			name:  "defaults",
			query: "",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Count(mock.Anything).Return(3, nil)
				m.EXPECT().List(mock.Anything, 0, 10).Return(sampleQuotes, nil)
			},
			wantStatus: http.StatusOK,
			wantList: &dto.QuoteListResponse{
				Quotes: []dto.QuoteResponse{
					{ID: 1, Text: "Keep going.", Author: "Anon"},
					{ID: 2, Text: "Start where you are.", Author: "Arthur Ashe"},
					{ID: 3, Text: "Well done is better than well said.", Author: "Benjamin Franklin"},
				},
				Total: 3, Limit: 10, Offset: 0,
			},
		},
		{
			name:  "offset past the end",
			query: "?limit=5&offset=50",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Count(mock.Anything).Return(3, nil)
				m.EXPECT().List(mock.Anything, 50, 5).Return(nil, nil)
			},
			wantStatus: http.StatusOK,
			wantList:   &dto.QuoteListResponse{Quotes: []dto.QuoteResponse{}, Total: 3, Limit: 5, Offset: 50},
		},
		{
			name:       "non-integer limit",
			query:      "?limit=ten",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "limit and offset must be integers",
		},
		{
			name:       "zero limit",
			query:      "?limit=0",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "limit must be between 1 and 100",
		},
		{
			name:       "limit above maximum",
			query:      "?limit=101",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "limit must be between 1 and 100",
		},
		{
			name:       "negative offset",
			query:      "?offset=-1",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "offset must be zero or greater",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, tt.setupMock)

			w, env := serve(router, http.MethodGet, "/api/v1/quotes"+tt.query, "")

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantMsg != "" {
				assert.False(t, env.Success)
				assert.Equal(t, tt.wantMsg, messageOf(env))
				assert.Equal(t, dto.ErrorCodeValidation, env.Error.Code)

				return
			}

			assert.Equal(t, *tt.wantList, dataAs[dto.QuoteListResponse](t, env))
		})
	}
}

func TestQuoteHandler_Get(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setupMock  func(*mocks.MockQuoteStore)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "found",
			path: "/api/v1/quotes/2",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Get(mock.Anything, int64(2)).Return(&sampleQuotes[1], nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown id",
			path: "/api/v1/quotes/99",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Get(mock.Anything, int64(99)).Return(nil, domain.NewNotFoundError("quote", "99"))
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Quote not found",
		},
		{
			name:       "non-numeric id",
			path:       "/api/v1/quotes/abc",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "id must be a positive integer",
		},
		{
			name:       "zero id",
			path:       "/api/v1/quotes/0",
			wantStatus: http.StatusBadRequest,
			wantMsg:    "id must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, tt.setupMock)

			w, env := serve(router, http.MethodGet, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(env))
		})
	}
}

func TestQuoteHandler_Create(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		setupMock   func(*mocks.MockQuoteStore)
		wantStatus  int
		wantMsg     string
		wantDetails []string
	}{
		{
			name: "created with trimmed fields",
			body: `{"text":"  Dream big. ","author":" Anon "}`,
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Create(mock.Anything, domain.QuoteDraft{Text: "Dream big.", Author: "Anon"}).
					Return(&domain.Quote{ID: 4, Text: "Dream big.", Author: "Anon"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:        "missing author",
			body:        `{"text":"Dream big."}`,
			wantStatus:  http.StatusBadRequest,
			wantMsg:     "text and author are required",
			wantDetails: []string{"author"},
		},
		{
			name:        "blank text",
			body:        `{"text":"  ","author":"Anon"}`,
			wantStatus:  http.StatusBadRequest,
			wantMsg:     "text and author are required",
			wantDetails: []string{"text"},
		},
		{
			name:       "malformed JSON",
			body:       `{"text":`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "text and author are required",
		},
		{
			name: "author too long",
			body: `{"text":"Dream big.","author":"` + strings.Repeat("a", domain.MaxAuthorLength+1) + `"}`,
			wantStatus:  http.StatusBadRequest,
			wantMsg:     "author must be at most 255 characters",
			wantDetails: []string{"author"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, tt.setupMock)

			w, env := serve(router, http.MethodPost, "/api/v1/quotes", tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, messageOf(env))
				for _, field := range tt.wantDetails {
					assert.Contains(t, env.Error.Details, field)
				}

				return
			}

			assert.Equal(t, dto.QuoteResponse{ID: 4, Text: "Dream big.", Author: "Anon"},
				dataAs[dto.QuoteResponse](t, env))
		})
	}
}

func TestQuoteHandler_Update(t *testing.T) {
	updated := &domain.Quote{ID: 1, Text: "Keep going.", Author: "Someone"}

	tests := []struct {
		name       string
		path       string
		body       string
		setupMock  func(*mocks.MockQuoteStore)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "author only",
			path: "/api/v1/quotes/1",
			body: `{"author":"Someone"}`,
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Update(mock.Anything, int64(1), mock.MatchedBy(func(p domain.QuotePatch) bool {
					return p.Text == nil && p.Author != nil && *p.Author == "Someone"
				})).Return(updated, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown id",
			path: "/api/v1/quotes/42",
			body: `{"text":"New."}`,
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Update(mock.Anything, int64(42), mock.Anything).
					Return(nil, domain.NewNotFoundError("quote", "42"))
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Quote not found",
		},
		{
			name:       "empty patch",
			path:       "/api/v1/quotes/1",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "at least one of text or author is required",
		},
		{
			name:       "blank text",
			path:       "/api/v1/quotes/1",
			body:       `{"text":" "}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "text and author must not be blank",
		},
		{
			name:       "malformed JSON",
			path:       "/api/v1/quotes/1",
			body:       `[1,2]`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "request body must be a JSON object",
		},
		{
			name:       "bad id",
			path:       "/api/v1/quotes/x",
			body:       `{"text":"New."}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "id must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, tt.setupMock)

			w, env := serve(router, http.MethodPut, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantMsg, messageOf(env))

			if tt.wantMsg == "" {
				assert.Equal(t, "Someone", dataAs[dto.QuoteResponse](t, env).Author)
			}
		})
	}
}

func TestQuoteHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		setupMock  func(*mocks.MockQuoteStore)
		wantStatus int
		wantMsg    string
	}{
		{
			name: "deleted",
			path: "/api/v1/quotes/3",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Delete(mock.Anything, int64(3)).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "unknown id",
			path: "/api/v1/quotes/77",
			setupMock: func(m *mocks.MockQuoteStore) {
				m.EXPECT().Delete(mock.Anything, int64(77)).Return(domain.NewNotFoundError("quote", "77"))
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "Quote not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQuoteRouter(t, tt.setupMock)

			w, env := serve(router, http.MethodDelete, tt.path, "")

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, messageOf(env))
				return
			}

			assert.Equal(t, dto.DeleteResponse{ID: 3, Message: "Quote deleted"}, dataAs[dto.DeleteResponse](t, env))
		})
	}
}
