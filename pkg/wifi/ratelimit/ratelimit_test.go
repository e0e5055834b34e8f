package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitSpacesCallsPerHost(t *testing.T) {
	rl := New(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx, "192.168.0.1"); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("3 calls took %v, want at least 100ms", elapsed)
	}

	// Another host is not delayed by the first one
	start = time.Now()
	if err := rl.Wait(ctx, "192.168.0.2"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed > 40*time.Millisecond {
		t.Errorf("first call to another host took %v", elapsed)
	}
}

func TestWaitDisabled(t *testing.T) {
	var nilLimiter *RateLimiter
	if err := nilLimiter.Wait(context.Background(), "x"); err != nil {
		t.Errorf("nil limiter: %v", err)
	}
	if nilLimiter.MinInterval() != 0 {
		t.Errorf("nil limiter interval = %v", nilLimiter.MinInterval())
	}

	rl := New(0)
	start := time.Now()
	for i := 0; i < 10; i++ {
		_ = rl.Wait(context.Background(), "x")
	}
	if elapsed := time.Since(start); elapsed > 20*time.Millisecond {
		t.Errorf("disabled limiter took %v", elapsed)
	}
}

func TestWaitContextDone(t *testing.T) {
	rl := New(time.Second)
	if err := rl.Wait(context.Background(), "x"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := rl.Wait(ctx, "x")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Wait() = %v, want deadline exceeded", err)
	}
}
