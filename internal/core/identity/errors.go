package identity

import (
	"errors"
	"fmt"
)

// ErrUserNotFound is returned when a username lookup matches no account
var ErrUserNotFound = errors.New("user not found")

// ErrLookupFailed is returned when the provider call fails for reasons
// other than a missing user (network failure, 5xx, malformed response)
type ErrLookupFailed struct {
	Query  string
	Reason string
}

func (e *ErrLookupFailed) Error() string {
	return fmt.Sprintf("identity lookup failed for %s: %s", e.Query, e.Reason)
}

// IsLookupFailed checks if err is a provider lookup failure
func IsLookupFailed(err error) bool {
	var lookupErr *ErrLookupFailed
	return errors.As(err, &lookupErr)
}
