package errors

import "errors"

// This package defines a centralized set of sentinel errors for the console.
// Services and the backend client return wrapped sentinels; the API layer uses
// `errors.Is()` to map them to HTTP responses and the CLI to exit messages.

var (
	// ErrNotFound signifies that a requested resource could not be located,
	// either locally (no open view for a bot) or on the backend (HTTP 404).
	ErrNotFound = errors.New("resource not found")

	// ErrValidation signifies that input data failed validation.
	// This is typically mapped to a 400 Bad Request HTTP status.
	ErrValidation = errors.New("validation failed")

	// ErrConflict signifies that the operation conflicts with current state.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission signifies that the backend refused the action (HTTP 403).
	ErrPermission = errors.New("permission denied")

	// ErrUnauthorized signifies a missing or rejected bearer token (HTTP 401).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable signifies that the backend could not be reached or
	// answered with an unexpected status.
	ErrUnavailable = errors.New("backend unavailable")

	// ErrInternal signifies an unexpected error inside the console.
	ErrInternal = errors.New("internal server error")
)
