package errors

import "errors"

// Common application errors for type-safe error handling.
// These errors can be checked using errors.Is() instead of string comparison.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotConfigured      = errors.New("photo storage is not configured")
	ErrStorageUnavailable = errors.New("photo storage unavailable")
)
