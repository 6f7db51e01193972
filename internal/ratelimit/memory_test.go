package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestMemoryLimiter_SixthAttemptRejectedUntilWindowElapses(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	l := NewMemoryLimiter(Policy{Max: 5, Window: 15 * time.Minute}, clk.Now)

	for i := 0; i < 5; i++ {
		ok, err := l.Allow(ctx, "10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v %v", i+1, ok, err)
		}
		clk.Advance(time.Second)
	}

	ok, _ := l.Allow(ctx, "10.0.0.1")
	if ok {
		t.Fatalf("6th attempt should be rejected")
	}

	// other origins are unaffected
	if ok, _ := l.Allow(ctx, "10.0.0.2"); !ok {
		t.Fatalf("separate origin should be allowed")
	}

	clk.Advance(15 * time.Minute)
	if ok, _ := l.Allow(ctx, "10.0.0.1"); !ok {
		t.Fatalf("attempt after window should be allowed")
	}
}

func TestMemoryLimiter_WindowSlides(t *testing.T) {
	ctx := context.Background()
	clk := &fakeClock{t: time.Unix(1700000000, 0)}
	l := NewMemoryLimiter(Policy{Max: 2, Window: time.Minute}, clk.Now)

	l.Allow(ctx, "k")
	clk.Advance(40 * time.Second)
	l.Allow(ctx, "k")
	clk.Advance(10 * time.Second)
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatalf("expected rejection inside window")
	}
	// first attempt ages out; second still counts
	clk.Advance(11 * time.Second)
	if ok, _ := l.Allow(ctx, "k"); !ok {
		t.Fatalf("expected allowance once oldest attempt aged out")
	}
	if ok, _ := l.Allow(ctx, "k"); ok {
		t.Fatalf("expected rejection with two attempts in window")
	}
}

func TestMemoryLimiter_ConcurrentAllowNeverExceedsMax(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Policy{Max: 5, Window: time.Hour}, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow(ctx, "k"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 5 {
		t.Fatalf("expected exactly 5 allowed, got %d", allowed)
	}
}
