// Package apperrors holds the error taxonomy shared by the API server and the Go client.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Error kinds. Every error surfaced by the service maps onto one of these.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrNetwork      = errors.New("network error")
)

// Refinements of the kinds above.
var (
	ErrEmailInUse         = fmt.Errorf("%w: email already in use", ErrConflict)
	ErrStaleVersion       = fmt.Errorf("%w: reservation was modified by someone else", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrInvalidTransition  = fmt.Errorf("%w: invalid status transition", ErrValidation)
)

// Wire codes carried in the JSON envelope.
const (
	CodeValidation         = "validation"
	CodeNotFound           = "not_found"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeConflict           = "conflict"
	CodeEmailInUse         = "email_in_use"
	CodeStaleVersion       = "stale_version"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidTransition  = "invalid_transition"
	CodeInternal           = "internal"
)

// ValidationError carries per-field messages keyed by the JSON field name.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Code returns the wire code for err.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	case errors.Is(err, ErrEmailInUse):
		return CodeEmailInUse
	case errors.Is(err, ErrStaleVersion):
		return CodeStaleVersion
	case errors.Is(err, ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}

// HTTPStatus returns the response status for err.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FromResponse rebuilds a taxonomy error from a response status, wire code and message.
// fields is only used for validation failures.
func FromResponse(status int, code, message string, fields map[string]string) error {
	var kind error
	switch code {
	case CodeInvalidTransition:
		kind = ErrInvalidTransition
	case CodeValidation:
		if len(fields) > 0 {
			return &ValidationError{Fields: fields}
		}
		kind = ErrValidation
	case CodeNotFound:
		kind = ErrNotFound
	case CodeInvalidCredentials:
		kind = ErrInvalidCredentials
	case CodeUnauthorized:
		kind = ErrUnauthorized
	case CodeForbidden:
		kind = ErrForbidden
	case CodeEmailInUse:
		kind = ErrEmailInUse
	case CodeStaleVersion:
		kind = ErrStaleVersion
	case CodeConflict:
		kind = ErrConflict
	default:
		switch status {
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			kind = ErrValidation
		case http.StatusNotFound:
			kind = ErrNotFound
		case http.StatusUnauthorized:
			kind = ErrUnauthorized
		case http.StatusForbidden:
			kind = ErrForbidden
		case http.StatusConflict:
			kind = ErrConflict
		default:
			return fmt.Errorf("unexpected response %d: %s", status, message)
		}
	}
	if message == "" || message == kind.Error() {
		return kind
	}
	return fmt.Errorf("%w (%s)", kind, message)
}
