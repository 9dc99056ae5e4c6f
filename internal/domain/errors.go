package domain

import "errors"

// Sentinel errors shared by every operation. The HTTP boundary maps them to
// result messages; anything else is reported as an internal error.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrMissingFields = errors.New("missing required fields")

	ErrEmailTaken = errors.New("email already in use")
)
