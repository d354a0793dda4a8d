// Package errors provides the structured error taxonomy of the dashboard,
// with HTTP status mapping for the local API surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an error for response formatting and metrics.
type ErrorType string

const (
	// TypeValidation indicates invalid input, detected before any network call.
	TypeValidation ErrorType = "validation"
	// TypeAuthorization indicates a role or session precondition failed client-side.
	TypeAuthorization ErrorType = "authorization"
	// TypeConflict indicates a stale state precondition (e.g. deciding an
	// already-decided request).
	TypeConflict ErrorType = "conflict"
	// TypeNetwork indicates the backend produced no response at all.
	TypeNetwork ErrorType = "network"
	// TypeBackend indicates the backend rejected the request with a non-2xx status.
	TypeBackend ErrorType = "backend"
	// TypeInternal indicates an unexpected client-side failure.
	TypeInternal ErrorType = "internal"
)

// Error is a structured error with type, message and optional context.
type Error struct {
	Type    ErrorType
	Message string
	// Status is the backend's HTTP status, set only for TypeBackend.
	Status  int
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error to a status code on the local API surface.
// Backend errors pass their original status through verbatim.
func (e *Error) HTTPStatus() int {
	switch e.Type {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeAuthorization:
		return http.StatusUnauthorized
	case TypeConflict:
		return http.StatusConflict
	case TypeNetwork:
		return http.StatusBadGateway
	case TypeBackend:
		if e.Status != 0 {
			return e.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ValidationError creates a validation error (no network call was made).
func ValidationError(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// AuthorizationError creates an authorization error (role or session
// precondition failed client-side, no network call was made).
func AuthorizationError(message string) *Error {
	return &Error{Type: TypeAuthorization, Message: message}
}

// ConflictError creates a conflict error (state precondition stale).
func ConflictError(message string) *Error {
	return &Error{Type: TypeConflict, Message: message}
}

// NetworkError creates a network error (transport failure, no response).
func NetworkError(message string, cause error) *Error {
	return &Error{Type: TypeNetwork, Message: message, Cause: cause}
}

// BackendError creates an error from a non-2xx backend response. detail is
// the backend's "detail" field when present, surfaced to the user verbatim.
func BackendError(status int, detail string) *Error {
	return &Error{Type: TypeBackend, Message: detail, Status: status}
}

// InternalError creates an unexpected client-side error.
func InternalError(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}

// WithField adds a context field to the error (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// ErrorResponse is the JSON structure the local API sends to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

// ToResponse converts the error to its JSON representation.
func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Context: e.Context}
}

// AsStructuredError converts any error into a structured *Error. Errors that
// already carry a type pass through unchanged; everything else becomes an
// internal error.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}
	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}
	return InternalError("internal error", err)
}

// IsType reports whether err is a structured error of the given type.
func IsType(err error, t ErrorType) bool {
	var structured *Error
	return errors.As(err, &structured) && structured.Type == t
}
