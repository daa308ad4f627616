// Package apperrors defines the error kinds shared by every layer of the API.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError. Transport maps each kind to one HTTP status.
type Kind string

const (
	KindUnauthenticated Kind = "UNAUTHENTICATED"
	KindForbidden       Kind = "FORBIDDEN"
	KindNotFound        Kind = "NOT_FOUND"
	KindConflict        Kind = "CONFLICT"
	KindInvalidState    Kind = "INVALID_STATE"
	KindValidation      Kind = "VALIDATION"
	KindInternal        Kind = "INTERNAL"
)

// AppError carries a kind, a client-safe message and an optional cause.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

func newErr(k Kind, msg string) *AppError { return &AppError{Kind: k, Message: msg} }

func NewUnauthenticated(msg string) *AppError { return newErr(KindUnauthenticated, msg) }
func NewForbidden(msg string) *AppError       { return newErr(KindForbidden, msg) }
func NewNotFound(msg string) *AppError        { return newErr(KindNotFound, msg) }
func NewConflict(msg string) *AppError        { return newErr(KindConflict, msg) }
func NewInvalidState(msg string) *AppError    { return newErr(KindInvalidState, msg) }
func NewValidation(msg string) *AppError      { return newErr(KindValidation, msg) }

// NewInternal wraps an unexpected failure. The cause is logged, never sent to clients.
func NewInternal(msg string, err error) *AppError {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf reports the kind of err; errors outside the taxonomy are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return KindInternal
}

// Is reports whether err carries kind k.
func Is(err error, k Kind) bool { return err != nil && KindOf(err) == k }
