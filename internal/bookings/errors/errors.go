package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrAlreadyCancelled guards entry immutability: a cancelled entry is
	// never written again.
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
)
