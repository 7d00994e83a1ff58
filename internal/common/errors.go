// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Domain errors.
	ErrDuplicateBudget  = errors.New("a budget already exists for this period and category")
	ErrReservedCategory = errors.New("the default category cannot be deleted")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError represents a user-input rejection that should be shown to
// the user rather than treated as a crash.
type ValidationError struct {
	Err         error
	UserMessage string
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new user-facing validation error.
func NewValidationError(userMessage string, err error) error {
	return &ValidationError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
