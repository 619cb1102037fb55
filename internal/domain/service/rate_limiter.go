package service

import (
	"context"
	"time"
)

// RateLimiter defines the gate consulted by every sensitive endpoint before any
// real work happens. Counting is an approximate fixed window shared across
// instances; bursts at window boundaries are an accepted tradeoff for O(1)
// bookkeeping.
type RateLimiter interface {
	// Allow reports whether the client may proceed on the route within the
	// window. An error means the gate itself is unreachable; the caller decides
	// fail-open versus fail-closed.
	Allow(ctx context.Context, routeKey, clientKey string, limit int, window time.Duration) (bool, error)
}
