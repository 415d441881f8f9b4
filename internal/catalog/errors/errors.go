package errors

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")

	ErrTimeWindowNotFound = errors.New("time window not found")

	ErrInvalidID = errors.New("invalid catalog ID format")
)
