// Package domain contains the quote entity, its selection rules, and the
// error taxonomy shared by every layer.
//
// Errors here describe what went wrong with a quote operation, never how to
// report it. The HTTP layer maps them to status codes and envelopes; each
// typed error unwraps to one sentinel so callers can test with errors.Is.
package domain

import (
	"errors"
	"fmt"
	"time"
)

// Sentinels. Match with errors.Is or the Is helpers below.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	ErrStore        = errors.New("store failure")
	ErrUnavailable  = errors.New("unavailable")
)

// NotFoundError names the entity and id that could not be found, such as
// quote 42.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}

	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NewNotFoundError reports a missing entity. id may be empty.
func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// EmptyCollectionError is returned when a random or daily pick runs over
// zero stored quotes. It unwraps to ErrNotFound.
type EmptyCollectionError struct{}

func (*EmptyCollectionError) Error() string { return "no quotes found" }

func (*EmptyCollectionError) Unwrap() error { return ErrNotFound }

// ValidationError rejects client input. Field is the JSON or query name
// and Value, when set, is what the client sent.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation failed: " + e.Message
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError rejects field with message.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue is NewValidationError that also keeps the
// offending value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// UnauthorizedError means no admin key was presented.
type UnauthorizedError struct {
	Reason string
}

func (e *UnauthorizedError) Error() string {
	if e.Reason == "" {
		return "unauthorized"
	}

	return "unauthorized: " + e.Reason
}

func (e *UnauthorizedError) Unwrap() error { return ErrUnauthorized }

// NewUnauthorizedError reports missing credentials.
func NewUnauthorizedError(reason string) error {
	return &UnauthorizedError{Reason: reason}
}

// ForbiddenError means an admin key was presented for Operation but did
// not match.
type ForbiddenError struct {
	Operation string
	Reason    string
}

func (e *ForbiddenError) Error() string {
	msg := fmt.Sprintf("operation %q forbidden", e.Operation)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// NewForbiddenError reports rejected credentials for operation.
func NewForbiddenError(operation, reason string) error {
	return &ForbiddenError{Operation: operation, Reason: reason}
}

// RateLimitError means a client used up its allowance. Limit is the rate
// that was hit, such as "60 per 1 minute", and RetryAfter is the wait until
// the window resets.
type RateLimitError struct {
	Limit      string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.Limit == "" {
		return "rate limit exceeded"
	}

	return "rate limit exceeded: " + e.Limit
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }

// NewRateLimitError reports an exhausted allowance.
func NewRateLimitError(limit string, retryAfter time.Duration) error {
	return &RateLimitError{Limit: limit, RetryAfter: retryAfter}
}

// StoreError wraps a database failure during Op (create, list, ...).
// Err carries driver detail for logs and must never reach a client.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Err == nil {
		return "store " + e.Op + " failed"
	}

	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

// Unwrap yields ErrStore and, when present, the driver error.
func (e *StoreError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStore}
	}

	return []error{ErrStore, e.Err}
}

// NewStoreError wraps err as a failure of store operation op.
func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// UnavailableError means a dependency such as the database or a remote
// quote feed could not be reached.
type UnavailableError struct {
	Service string
	Reason  string
}

func (e *UnavailableError) Error() string {
	msg := fmt.Sprintf("service %q unavailable", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	return msg
}

func (e *UnavailableError) Unwrap() error { return ErrUnavailable }

// NewUnavailableError reports an unreachable dependency.
func NewUnavailableError(service, reason string) error {
	return &UnavailableError{Service: service, Reason: reason}
}

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }
func IsRateLimited(err error) bool  { return errors.Is(err, ErrRateLimited) }
func IsStore(err error) bool        { return errors.Is(err, ErrStore) }
func IsUnavailable(err error) bool  { return errors.Is(err, ErrUnavailable) }
