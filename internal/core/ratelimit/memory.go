package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter is an in-process sliding-window limiter.
// Suitable for development and tests; production deployments should use
// RedisLimiter so the window holds across instances.
type MemoryLimiter struct {
	events map[string][]time.Time
	limit  int
	window time.Duration
	mu     sync.Mutex

	// now is swappable for tests
	now func() time.Time
}

// NewMemoryLimiter creates an in-memory limiter allowing `limit` operations
// per `window` for each subject key.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}

	go l.cleanup()

	return l
}

// Allow checks and consumes one operation for key
func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	// Drop events that slid out of the window
	kept := l.events[key][:0]
	for _, ts := range l.events[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.limit {
		l.events[key] = kept
		return Result{
			Allowed:   false,
			Remaining: 0,
			Reset:     kept[0].Add(l.window),
		}, nil
	}

	kept = append(kept, now)
	l.events[key] = kept

	return Result{
		Allowed:   true,
		Remaining: l.limit - len(kept),
		Reset:     kept[0].Add(l.window),
	}, nil
}

// cleanup drops idle keys periodically so the map doesn't grow unbounded
func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		cutoff := l.now().Add(-l.window)
		for key, events := range l.events {
			if len(events) == 0 || !events[len(events)-1].After(cutoff) {
				delete(l.events, key)
			}
		}
		l.mu.Unlock()
	}
}
