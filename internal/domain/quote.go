package domain

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxAuthorLength is the longest author name a quote may carry, in characters.
const MaxAuthorLength = 255

// Quote is a stored motivational quote.
// ID is assigned by the store and never changes or gets reused.
type Quote struct {
	ID     int64
	Text   string
	Author string
}

// QuoteDraft is the input for creating a quote.
type QuoteDraft struct {
	Text   string
	Author string
}

// Normalize returns a copy with surrounding whitespace trimmed.
func (d QuoteDraft) Normalize() QuoteDraft {
	return QuoteDraft{
		Text:   strings.TrimSpace(d.Text),
		Author: strings.TrimSpace(d.Author),
	}
}

// Validate checks the draft after normalization.
func (d QuoteDraft) Validate() error {
	n := d.Normalize()
	if err := validateText(n.Text); err != nil {
		return err
	}

	return validateAuthor(n.Author)
}

// QuotePatch is a partial update. Nil fields are left unchanged.
type QuotePatch struct {
	Text   *string
	Author *string
}

// Normalize returns a copy with surrounding whitespace trimmed from set fields.
func (p QuotePatch) Normalize() QuotePatch {
	var out QuotePatch
	if p.Text != nil {
		t := strings.TrimSpace(*p.Text)
		out.Text = &t
	}

	if p.Author != nil {
		a := strings.TrimSpace(*p.Author)
		out.Author = &a
	}

	return out
}

// IsEmpty reports whether the patch changes nothing.
func (p QuotePatch) IsEmpty() bool {
	return p.Text == nil && p.Author == nil
}

// Validate checks every set field against the quote rules.
func (p QuotePatch) Validate() error {
	if p.IsEmpty() {
		return NewValidationError("", "at least one of text or author is required")
	}

	n := p.Normalize()
	if n.Text != nil {
		if err := validateText(*n.Text); err != nil {
			return err
		}
	}

	if n.Author != nil {
		if err := validateAuthor(*n.Author); err != nil {
			return err
		}
	}

	return nil
}

// Apply returns q with the patch's fields replaced. ID is never touched.
func (p QuotePatch) Apply(q Quote) Quote {
	n := p.Normalize()
	if n.Text != nil {
		q.Text = *n.Text
	}

	if n.Author != nil {
		q.Author = *n.Author
	}

	return q
}

func validateText(text string) error {
	if text == "" {
		return NewValidationError("text", "must not be empty")
	}

	return nil
}

func validateAuthor(author string) error {
	if author == "" {
		return NewValidationError("author", "must not be empty")
	}

	if utf8.RuneCountInString(author) > MaxAuthorLength {
		return NewValidationErrorWithValue("author",
			"must be at most "+strconv.Itoa(MaxAuthorLength)+" characters",
			utf8.RuneCountInString(author))
	}

	return nil
}
