package errors

import "errors"

var (
	ErrNotFound = errors.New("slot not found")

	ErrInvalidID = errors.New("invalid slot ID format")

	// ErrLockContended means another operation currently holds the advisory
	// lock for the slot. It is recoverable: the caller may retry after a
	// backoff, it must never block waiting.
	ErrLockContended = errors.New("slot lock held by another operation")
)
