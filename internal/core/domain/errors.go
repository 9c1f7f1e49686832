package domain

import (
	"errors"
	"strings"
)

var (
	ErrNotFound            = errors.New("not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrUnauthenticated     = errors.New("login required")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateSlug       = errors.New("slug already in use")
	ErrSelfDeleteForbidden = errors.New("cannot delete or deactivate the account in use")
	ErrCollisionExhausted  = errors.New("too many filename collisions")
	ErrValidation          = errors.New("validation failed")
)

// ValidationError lists every problem found in a submission. It matches
// ErrValidation under errors.Is.
type ValidationError struct {
	Problems []string
}

// NewValidationError returns nil when no problems are given.
func NewValidationError(problems ...string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
