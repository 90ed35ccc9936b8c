// Package clients provides the outbound HTTP client used to pull quotes
// from remote feeds.
package clients

import (
	"errors"
	"fmt"
	"net/http"
)

// Infrastructure failures. Callers translate them into domain errors.
var (
	// ErrCircuitOpen means the breaker rejected the call without trying it.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last failure after every attempt failed.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// StatusError is a non-2xx answer that was not worth retrying.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// retryableStatus reports whether a response code is a transient failure.
func retryableStatus(code int) bool {
	return code >= http.StatusInternalServerError || code == http.StatusTooManyRequests
}
