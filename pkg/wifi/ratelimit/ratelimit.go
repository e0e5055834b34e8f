package ratelimit

import (
	"context"
	"sync"
	"time"
)

// RateLimiter spaces requests to a given device host by at least a minimum
// interval. Embedded web servers tend to drop connections when hammered by a
// polling client.
type RateLimiter struct {
	minInterval time.Duration
	hosts       sync.Map // map[string]*hostLimiter
}

type hostLimiter struct {
	mu       sync.Mutex
	lastCall time.Time
}

// New returns a limiter with the given minimum interval.
// An interval <= 0 disables limiting.
func New(interval time.Duration) *RateLimiter {
	return &RateLimiter{minInterval: interval}
}

// Wait blocks until a request to host may start. The interval is measured
// between request starts. Returns immediately if limiting is disabled, and
// ctx.Err() if ctx is done first.
func (rl *RateLimiter) Wait(ctx context.Context, host string) error {
	if rl == nil || rl.minInterval <= 0 {
		return nil
	}

	hl := rl.hostLimiter(host)

	hl.mu.Lock()
	defer hl.mu.Unlock()

	elapsed := time.Since(hl.lastCall)
	if elapsed < rl.minInterval {
		timer := time.NewTimer(rl.minInterval - elapsed)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	// Update before releasing the mutex so that queued callers measure from this start
	hl.lastCall = time.Now()

	return nil
}

func (rl *RateLimiter) hostLimiter(host string) *hostLimiter {
	if hl, ok := rl.hosts.Load(host); ok {
		return hl.(*hostLimiter)
	}
	actual, _ := rl.hosts.LoadOrStore(host, &hostLimiter{})
	return actual.(*hostLimiter)
}

// MinInterval returns the configured minimum interval between requests
func (rl *RateLimiter) MinInterval() time.Duration {
	if rl == nil {
		return 0
	}
	return rl.minInterval
}
