package guard

import (
	"sync"
	"time"
)

// DefaultCleanupInterval is how often the background sweep deletes expired
// rate-limit entries.
const DefaultCleanupInterval = 60 * time.Second

type rateEntry struct {
	count         int
	windowResetAt time.Time
}

// RateLimiter is a fixed-window per-key request counter. Check-and-increment
// is atomic under the mutex so concurrent requests from one client cannot
// undercount.
type RateLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*rateEntry
	now     func() time.Time // swappable for tests
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:     max,
		window:  window,
		entries: make(map[string]*rateEntry),
		now:     time.Now,
	}
}

// Check records one request for key and reports whether it is allowed.
func (rl *RateLimiter) Check(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	e, ok := rl.entries[key]
	if !ok || now.After(e.windowResetAt) {
		rl.entries[key] = &rateEntry{count: 1, windowResetAt: now.Add(rl.window)}
		return true
	}
	if e.count >= rl.max {
		return false
	}
	e.count++
	return true
}

// Remaining returns how many requests key has left in the current window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok || rl.now().After(e.windowResetAt) {
		return rl.max
	}
	if left := rl.max - e.count; left > 0 {
		return left
	}
	return 0
}

// ResetIn returns how long until key's window resets.
func (rl *RateLimiter) ResetIn(key string) time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok {
		return 0
	}
	d := e.windowResetAt.Sub(rl.now())
	if d < 0 {
		return 0
	}
	return d
}

// Cleanup deletes all entries whose window has elapsed.
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, e := range rl.entries {
		if now.After(e.windowResetAt) {
			delete(rl.entries, key)
		}
	}
}

// StartSweeper runs Cleanup on every tick until stop is closed.
func (rl *RateLimiter) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.Cleanup()
			case <-stop:
				return
			}
		}
	}()
}
