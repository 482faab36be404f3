package apperr

import "errors"

var (
	// ErrNotFound is the sentinel for unknown ids.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is the sentinel for missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is the sentinel for ownership or role violations.
	ErrForbidden = errors.New("forbidden")
	// ErrValidation is the sentinel for malformed or missing input.
	ErrValidation = errors.New("validation failed")
)

func IsNotFound(err error) bool     { return errors.Is(err, ErrNotFound) }
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }
func IsForbidden(err error) bool    { return errors.Is(err, ErrForbidden) }
func IsValidation(err error) bool   { return errors.Is(err, ErrValidation) }
