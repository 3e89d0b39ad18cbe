// Package apperr holds the domain errors shared by services and translated
// to HTTP responses by the handlers.
package apperr

import (
	"errors"
	"fmt"

	"homeserve/database/repository"
)

var (
	// ErrNotFound is the repository sentinel so lookups can be wrapped and
	// still match.
	ErrNotFound     = repository.ErrNotFound
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("invalid credentials")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Validation(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a write rejected by existing state: a taken email,
// an overlapping booking or an illegal status change.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func Conflict(code, format string, args ...any) error {
	return &ConflictError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// OTPRequiredError indicates that the account must confirm a code that was
// just sent to Email.
type OTPRequiredError struct {
	Email   string
	Purpose string
}

func (e *OTPRequiredError) Error() string {
	return fmt.Sprintf("otp verification required; code sent to %s", e.Email)
}
