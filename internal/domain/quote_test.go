package domain

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestQuoteDraft_Validate(t *testing.T) {
	tests := []struct {
		name      string
		draft     QuoteDraft
		wantField string
	}{
		{name: "valid", draft: QuoteDraft{Text: "Keep going.", Author: "Anon"}},
		{name: "author at limit", draft: QuoteDraft{Text: "t", Author: strings.Repeat("é", MaxAuthorLength)}},
		{name: "empty text", draft: QuoteDraft{Text: "", Author: "Anon"}, wantField: "text"},
		{name: "whitespace text", draft: QuoteDraft{Text: "  \t", Author: "Anon"}, wantField: "text"},
		{name: "empty author", draft: QuoteDraft{Text: "t", Author: " "}, wantField: "author"},
		{name: "author too long", draft: QuoteDraft{Text: "t", Author: strings.Repeat("a", MaxAuthorLength+1)}, wantField: "author"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate()
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestQuoteDraft_Normalize(t *testing.T) {
	got := QuoteDraft{Text: "  Stay hungry. ", Author: "\tSteve Jobs\n"}.Normalize()

	assert.Equal(t, QuoteDraft{Text: "Stay hungry.", Author: "Steve Jobs"}, got)
}

func TestQuotePatch_Validate(t *testing.T) {
	tests := []struct {
		name    string
		patch   QuotePatch
		wantErr bool
	}{
		{name: "empty patch", patch: QuotePatch{}, wantErr: true},
		{name: "text only", patch: QuotePatch{Text: ptr("new text")}},
		{name: "author only", patch: QuotePatch{Author: ptr("New Author")}},
		{name: "both", patch: QuotePatch{Text: ptr("a"), Author: ptr("b")}},
		{name: "blank text", patch: QuotePatch{Text: ptr("   ")}, wantErr: true},
		{name: "long author", patch: QuotePatch{Author: ptr(strings.Repeat("x", 256))}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr {
				assert.True(t, IsValidation(err))
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestQuotePatch_Apply(t *testing.T) {
	original := Quote{ID: 3, Text: "old", Author: "Someone"}

	got := QuotePatch{Text: ptr(" new ")}.Apply(original)

	assert.Equal(t, Quote{ID: 3, Text: "new", Author: "Someone"}, got)
	assert.Equal(t, "old", original.Text)
}

// TestQuoteOfTheDayIndex_KnownValues pins indexes computed independently as
// int(sha256(date).hexdigest(), 16) % count, which depends on the whole
// digest and not just its leading bytes.
func TestQuoteOfTheDayIndex_KnownValues(t *testing.T) {
	tests := []struct {
		date  string
		count int
		want  int
	}{
		{"2024-03-09", 3, 2},
		{"2024-03-09", 7, 1},
		{"2024-03-09", 17, 16},
		{"2024-03-09", 1000, 302},
		{"2026-10-19", 3, 1},
		{"2026-10-19", 7, 4},
		{"2026-10-19", 17, 6},
		{"2026-10-19", 1000, 785},
		{"2000-01-01", 3, 2},
		{"2000-01-01", 7, 3},
		{"2000-01-01", 17, 14},
		{"2000-01-01", 1000, 564},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s mod %d", tt.date, tt.count), func(t *testing.T) {
			day, err := time.Parse(time.DateOnly, tt.date)
			require.NoError(t, err)

			got, err := QuoteOfTheDayIndex(day.Add(15*time.Hour), tt.count)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuoteOfTheDayIndex(t *testing.T) {
	day := time.Date(2024, time.March, 9, 0, 0, 1, 0, time.UTC)

	t.Run("stable within a day", func(t *testing.T) {
		first, err := QuoteOfTheDayIndex(day, 17)
		require.NoError(t, err)

		later, err := QuoteOfTheDayIndex(day.Add(23*time.Hour), 17)
		require.NoError(t, err)

		assert.Equal(t, first, later)
	})

	t.Run("uses the UTC date", func(t *testing.T) {
		// 2024-03-09 01:00 in UTC+5 is still 2024-03-08 in UTC.
		east := time.FixedZone("UTC+5", 5*60*60)
		local := time.Date(2024, time.March, 9, 1, 0, 0, 0, east)
		prevDay := time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC)

		a, err := QuoteOfTheDayIndex(local, 1000)
		require.NoError(t, err)
		b, err := QuoteOfTheDayIndex(prevDay, 1000)
		require.NoError(t, err)

		assert.Equal(t, b, a)
	})

	t.Run("within range", func(t *testing.T) {
		for count := 1; count <= 50; count++ {
			idx, err := QuoteOfTheDayIndex(day, count)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, idx, 0)
			assert.Less(t, idx, count)
		}
	})

	t.Run("single quote always index zero", func(t *testing.T) {
		idx, err := QuoteOfTheDayIndex(day, 1)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
	})

	t.Run("empty collection", func(t *testing.T) {
		_, err := QuoteOfTheDayIndex(day, 0)

		var empty *EmptyCollectionError
		assert.ErrorAs(t, err, &empty)
	})
}

func TestRandomIndex(t *testing.T) {
	for range 100 {
		idx, err := RandomIndex(5)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, idx, 0)
		assert.Less(t, idx, 5)
	}

	_, err := RandomIndex(0)
	assert.True(t, IsNotFound(err))
}

func TestRandomIndexWith(t *testing.T) {
	idx, err := RandomIndexWith(func(n int) int { return n - 1 }, 8)

	require.NoError(t, err)
	assert.Equal(t, 7, idx)
}
