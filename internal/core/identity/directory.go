package identity

import "context"

// MaxBatchSize is the largest user id batch a single lookup may carry.
// Matches the provider's documented page limit.
const MaxBatchSize = 100

// Directory provides read-only lookups against the external identity
// provider. Implementations must be safe for concurrent use.
type Directory interface {
	// GetUsersByIDs resolves a batch of user ids to profiles in a single
	// remote call. Unknown ids are simply absent from the result; the
	// caller decides whether that is an error.
	GetUsersByIDs(ctx context.Context, ids []string, limit int) ([]Profile, error)

	// GetUserByUsername resolves a username to a profile.
	// Returns ErrUserNotFound if no account matches.
	GetUserByUsername(ctx context.Context, username string) (*Profile, error)
}
