package ratelimit

import (
	"context"
	"time"
)

// Result describes the outcome of a limiter check
type Result struct {
	// Allowed is true if the operation may proceed
	Allowed bool
	// Remaining is how many operations are left in the current window
	Remaining int
	// Reset is when the oldest counted operation falls out of the window
	Reset time.Time
}

// Limiter enforces a sliding-window rate limit per subject key.
// The window counts operations in the trailing interval ending at "now",
// not in fixed-aligned buckets. Implementations must be safe for
// concurrent use; the shared implementation keeps its counters in Redis so
// the limit holds across server instances.
type Limiter interface {
	// Allow checks the key against the limit and, if allowed, consumes
	// one operation. Denied calls consume nothing.
	Allow(ctx context.Context, key string) (Result, error)
}
