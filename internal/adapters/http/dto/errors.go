package dto

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/domain"
	"github.com/wabo-kabrel/daily-motivational-quotes-api/internal/platform/logging"
)

// Messages for the quote resource.
const (
	MessageQuoteNotFound = "Quote not found"
	MessageNoQuotes      = "No quotes found"
	MessageUnavailable   = "Service unavailable"
)

// MapDomainError maps an error to a status code and failure envelope.
// Anything unrecognized becomes a 500 with a generic message.
func MapDomainError(err error) (int, *Envelope) {
	if err == nil {
		return http.StatusOK, nil
	}

	var (
		validationErr *domain.ValidationError
		emptyErr      *domain.EmptyCollectionError
	)

	switch {
	case errors.As(err, &validationErr):
		var details map[string]string
		if validationErr.Field != "" {
			details = map[string]string{validationErr.Field: validationErr.Message}
		}

		return http.StatusBadRequest, NewFailure(ErrorCodeValidation, validationText(validationErr), details)

	case errors.As(err, &emptyErr):
		return http.StatusNotFound, NewFailure(ErrorCodeNotFound, MessageNoQuotes, nil)

	case domain.IsNotFound(err):
		return http.StatusNotFound, NewFailure(ErrorCodeNotFound, MessageQuoteNotFound, nil)

	case domain.IsUnauthorized(err):
		return http.StatusUnauthorized, NewFailure(ErrorCodeUnauthorized, MessageUnauthorized, nil)

	case domain.IsForbidden(err):
		return http.StatusForbidden, NewFailure(ErrorCodeForbidden, MessageForbidden, nil)

	case domain.IsRateLimited(err):
		return http.StatusTooManyRequests, NewFailure(ErrorCodeRateLimited, MessageRateLimited, nil)

	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewFailure(ErrorCodeUnavailable, MessageUnavailable, nil)

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, NewFailure(ErrorCodeTimeout, MessageTimeout, nil)

	default:
		return http.StatusInternalServerError, NewFailure(ErrorCodeInternal, MessageInternal, nil)
	}
}

// HandleError writes the envelope for err. Server faults are logged with
// their cause; clients only ever see the generic message.
func HandleError(c *gin.Context, err error) {
	status, env := mapAndLog(c, err)
	Write(c, status, env)
}

// AbortError is HandleError for middleware: it also stops the chain.
func AbortError(c *gin.Context, err error) {
	status, env := mapAndLog(c, err)
	Abort(c, status, env)
}

func mapAndLog(c *gin.Context, err error) (int, *Envelope) {
	status, env := MapDomainError(err)

	if status >= http.StatusInternalServerError {
		attrs := []any{
			slog.Any("error", err),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
		}

		var storeErr *domain.StoreError
		if errors.As(err, &storeErr) {
			attrs = append(attrs, slog.String("op", storeErr.Op))
		}

		logging.FromContext(c.Request.Context()).Error("request failed", attrs...)
	}

	return status, env
}

func validationText(e *domain.ValidationError) string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + " " + e.Message
}
