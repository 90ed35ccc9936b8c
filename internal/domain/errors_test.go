package domain

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrUnauthorized,
		ErrForbidden,
		ErrRateLimited,
		ErrStore,
		ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name        string
		entity      string
		id          string
		expectedMsg string
	}{
		{
			name:        "with entity and ID",
			entity:      "quote",
			id:          "42",
			expectedMsg: "quote with id 42 not found",
		},
		{
			name:        "with entity only",
			entity:      "quote",
			expectedMsg: "quote not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError(tt.entity, tt.id)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.entity, notFound.Entity)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestEmptyCollectionError(t *testing.T) {
	err := error(&EmptyCollectionError{})

	assert.Equal(t, "no quotes found", err.Error())
	assert.True(t, IsNotFound(err))
	assert.False(t, IsStore(err))
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		expectedMsg string
		field       string
		value       any
	}{
		{
			name:        "with field",
			err:         NewValidationError("text", "must not be empty"),
			expectedMsg: "validation failed for text: must not be empty",
			field:       "text",
		},
		{
			name:        "without field",
			err:         NewValidationError("", "nothing to update"),
			expectedMsg: "validation failed: nothing to update",
		},
		{
			name:        "with value",
			err:         NewValidationErrorWithValue("author", "too long", 300),
			expectedMsg: "validation failed for author: too long",
			field:       "author",
			value:       300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedMsg, tt.err.Error())
			require.ErrorIs(t, tt.err, ErrValidation)

			var validationErr *ValidationError
			require.ErrorAs(t, tt.err, &validationErr)
			assert.Equal(t, tt.field, validationErr.Field)
			assert.Equal(t, tt.value, validationErr.Value)
		})
	}
}

func TestUnauthorizedError(t *testing.T) {
	assert.Equal(t, "unauthorized", NewUnauthorizedError("").Error())
	assert.Equal(t, "unauthorized: missing api key", NewUnauthorizedError("missing api key").Error())
	assert.ErrorIs(t, NewUnauthorizedError("x"), ErrUnauthorized)
}

func TestForbiddenError(t *testing.T) {
	err := NewForbiddenError("create quote", "invalid api key")

	assert.Equal(t, `operation "create quote" forbidden: invalid api key`, err.Error())
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, `operation "delete" forbidden`, NewForbiddenError("delete", "").Error())
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("60 per 1 minute", 12*time.Second)

	assert.Equal(t, "rate limit exceeded: 60 per 1 minute", err.Error())
	require.ErrorIs(t, err, ErrRateLimited)

	var rlErr *RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, 12*time.Second, rlErr.RetryAfter)
}

func TestStoreError(t *testing.T) {
	cause := sql.ErrConnDone
	err := NewStoreError("list", cause)

	assert.Equal(t, "store list: "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, ErrStore)
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsNotFound(err))

	bare := NewStoreError("count", nil)
	assert.Equal(t, "store count failed", bare.Error())
	assert.True(t, IsStore(bare))
}

func TestUnavailableError(t *testing.T) {
	err := NewUnavailableError("seed-source", "circuit open")

	assert.Equal(t, `service "seed-source" unavailable: circuit open`, err.Error())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"not found", NewNotFoundError("quote", "1"), IsNotFound, true},
		{"empty collection is not found", &EmptyCollectionError{}, IsNotFound, true},
		{"validation", NewValidationError("f", "m"), IsValidation, true},
		{"unauthorized", NewUnauthorizedError(""), IsUnauthorized, true},
		{"forbidden", NewForbiddenError("op", ""), IsForbidden, true},
		{"rate limited", NewRateLimitError("", time.Second), IsRateLimited, true},
		{"store", NewStoreError("get", nil), IsStore, true},
		{"unavailable", NewUnavailableError("svc", ""), IsUnavailable, true},
		{"nil is nothing", nil, IsNotFound, false},
		{"validation is not forbidden", NewValidationError("f", "m"), IsForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	base := NewNotFoundError("quote", "7")
	wrapped := fmt.Errorf("service layer: %w", fmt.Errorf("store layer: %w", base))

	assert.True(t, IsNotFound(wrapped))

	var notFound *NotFoundError
	require.ErrorAs(t, wrapped, &notFound)
	assert.Equal(t, "7", notFound.ID)
}
