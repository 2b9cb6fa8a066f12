// Package errors defines the domain error type shared by the services and
// mapped to HTTP statuses by the handlers.
package errors

import stderrors "errors"

// Kind classifies a DomainError for transport mapping.
type Kind string

const (
	KindInvalidInput    Kind = "invalid_input"
	KindNotFound        Kind = "not_found"
	KindInvalidState    Kind = "invalid_state_transition"
	KindPaymentFailed   Kind = "payment_failed"
	KindConflict        Kind = "conflict"
	KindUnauthenticated Kind = "unauthenticated"
	KindForbidden       Kind = "forbidden"
)

type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// New returns a DomainError; declare them as package-level sentinels.
func New(kind Kind, code, message string) *DomainError {
	return &DomainError{Kind: kind, Code: code, Message: message}
}

// KindOf returns the kind of the first DomainError in err's chain, or "".
func KindOf(err error) Kind {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// CodeOf returns the code of the first DomainError in err's chain, or "".
func CodeOf(err error) string {
	var de *DomainError
	if stderrors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Generic errors for callers without a more specific sentinel.
var (
	ErrInvalidInput = New(KindInvalidInput, "INVALID_INPUT", "invalid input")
	ErrNotFound     = New(KindNotFound, "NOT_FOUND", "not found")
	ErrUnauthorized = New(KindUnauthenticated, "UNAUTHORIZED", "unauthorized")
	ErrForbidden    = New(KindForbidden, "FORBIDDEN", "forbidden")
)
