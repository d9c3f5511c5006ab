package errors

import "errors"

var (
	ErrNotFound = errors.New("work schedule not found")

	ErrInvalidID = errors.New("invalid staff ID format")
)
