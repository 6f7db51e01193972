package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxTrackedOrigins bounds memory under a spray of distinct origins.
const maxTrackedOrigins = 10000

// MemoryLimiter is a sliding-window log kept in process memory.
// Safe for concurrent use.
type MemoryLimiter struct {
	policy Policy
	now    Clock

	mu   sync.Mutex
	logs *expirable.LRU[string, []time.Time]
}

func NewMemoryLimiter(p Policy, now Clock) *MemoryLimiter {
	p = p.withDefaults()
	if now == nil {
		now = time.Now
	}
	return &MemoryLimiter{
		policy: p,
		now:    now,
		logs:   expirable.NewLRU[string, []time.Time](maxTrackedOrigins, nil, p.Window),
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()
	cutoff := now.Add(-l.policy.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	prev, _ := l.logs.Get(key)
	kept := make([]time.Time, 0, len(prev)+1)
	for _, ts := range prev {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.policy.Max {
		l.logs.Add(key, kept)
		return false, nil
	}
	l.logs.Add(key, append(kept, now))
	return true, nil
}
