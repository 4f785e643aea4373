package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown document kind or template.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrConflict indicates an item with the same name already exists.
	ErrConflict = errors.New("conflict")

	// ErrTooLarge indicates content exceeded a configured size bound.
	ErrTooLarge = errors.New("content too large")

	// Authentication Errors.

	// ErrAuthRequired indicates no access token was supplied by the host.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the access token is past its expiry.
	// Renewal is the host's job; the server only reports it.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthInvalid indicates Graph rejected the access token.
	ErrAuthInvalid = errors.New("authentication invalid")

	// Graph Errors.

	// ErrRateLimited indicates Graph throttled the request.
	ErrRateLimited = errors.New("rate limited")
)
