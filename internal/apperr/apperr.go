// Package apperr defines the error taxonomy shared by every layer of the
// service. Adapters and use cases return *Error; the HTTP transport is the
// only place that converts a Kind into a status code.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind enumerates the recognized error categories.
type Kind string

const (
	KindValidation      Kind = "VALIDATION"
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindRateLimited     Kind = "RATE_LIMITED"
	KindUpstreamInvalid Kind = "UPSTREAM_INVALID"
	KindUpstreamTimeout Kind = "UPSTREAM_TIMEOUT"
	KindInternal        Kind = "INTERNAL"
)

// Error is the canonical application error. It carries a human-readable
// message plus structured details for the `details` field in the API
// response envelope.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds an *Error with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap builds an *Error that preserves err for %w-style inspection.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, cause: err}
}

// WithDetails attaches structured detail fields and returns the receiver for
// chaining at the call site.
func (e *Error) WithDetails(details map[string]any) *Error {
	e.Details = details
	return e
}

// ToHTTPStatus maps a Kind to its HTTP status code.
func (e *Error) ToHTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindRateLimited:
		return http.StatusTooManyRequests
	case KindUpstreamInvalid:
		return http.StatusUnprocessableEntity
	case KindUpstreamTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// As extracts an *Error from err, returning ok=false if err is not (or does
// not wrap) one — callers fall back to KindInternal in that case.
func As(err error) (*Error, bool) {
	for err != nil {
		if ae, ok := err.(*Error); ok {
			return ae, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
