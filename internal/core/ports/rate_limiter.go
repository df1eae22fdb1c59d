package ports

import (
	"context"
	"time"
)

// RateLimitResult reports the outcome of a window check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RateLimiter is a keyed sliding-window attempt counter, injected as a
// dependency so the backing store (Redis in production) can be swapped.
// Counters for distinct keys are independent; implementations must be safe
// for concurrent use.
type RateLimiter interface {
	// Allow checks the window for key and records the attempt only when it
	// is admitted; denied attempts never extend an existing lockout.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error)
	// Check inspects the window without recording an attempt. Used for
	// policies where only failures count (login throttling).
	Check(ctx context.Context, key string, limit int, window time.Duration) (*RateLimitResult, error)
	// Record adds an attempt for key without checking the limit.
	Record(ctx context.Context, key string, window time.Duration) error
}
