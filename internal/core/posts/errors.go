package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post is not found by id
	ErrNotFound = errors.New("post not found")

	// ErrRateLimited is returned when the author exceeded the posting rate
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrAuthorNotFound is returned when a stored post references an author
	// the identity provider cannot resolve (or one without a username).
	// This is a referential-integrity fault, not a client error.
	ErrAuthorNotFound = errors.New("author for posts not found")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsNotFound checks if error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRateLimited checks if error is a rate limit denial
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsAuthorNotFound checks if error is an unresolvable-author fault
func IsAuthorNotFound(err error) bool {
	return errors.Is(err, ErrAuthorNotFound)
}
