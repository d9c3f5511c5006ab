package errors

import "errors"

var (
	ErrNotFound = errors.New("account not found")

	ErrInvalidID = errors.New("invalid account ID format")

	ErrEmailTaken = errors.New("email address already registered")
)
