// Package ratelimit guards login attempts with a per-origin sliding window
// and throttles general API traffic per client.
package ratelimit

import (
	"context"
	"time"
)

// Limiter decides whether one more attempt under key is allowed.
// Allow records the attempt when it is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Clock is injected so tests can move time.
type Clock func() time.Time

// Policy is the window shape shared by every implementation.
type Policy struct {
	Max    int
	Window time.Duration
}

func (p Policy) withDefaults() Policy {
	if p.Max <= 0 {
		p.Max = 5
	}
	if p.Window <= 0 {
		p.Window = 15 * time.Minute
	}
	return p
}
