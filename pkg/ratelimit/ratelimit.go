// Package ratelimit implements fixed-window request counting per client key.
//
// Each key owns its own window: the window opens on the first hit after the
// previous one lapsed and lasts exactly Window. Denied hits still count.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single hit.
type Decision struct {
	Allowed   bool
	Limit     int
	Count     int
	Remaining int
	ResetAt   time.Time
}

// Limiter counts one hit for key and reports whether it is within quota.
type Limiter interface {
	Hit(ctx context.Context, key string) (Decision, error)
	Limit() int
	Window() time.Duration
}

// Clock returns the current time. Swapped in tests.
type Clock func() time.Time

func newDecision(count, limit int, resetAt time.Time) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Count:     count,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
