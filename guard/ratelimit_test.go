package guard

import (
	"sync"
	"testing"
	"time"
)

func TestRateLimiterFixedWindow(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(3, time.Minute)
	rl.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if !rl.Check("1.2.3.4") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}
	if rl.Check("1.2.3.4") {
		t.Error("4th request allowed, want denied")
	}
	if got := rl.Remaining("1.2.3.4"); got != 0 {
		t.Errorf("Remaining = %d, want 0", got)
	}

	// a different client has its own window
	if !rl.Check("5.6.7.8") {
		t.Error("fresh client denied")
	}

	// window elapses, counter resets
	clock = clock.Add(61 * time.Second)
	if !rl.Check("1.2.3.4") {
		t.Error("request after window reset denied")
	}
	if got := rl.Remaining("1.2.3.4"); got != 2 {
		t.Errorf("Remaining after reset = %d, want 2", got)
	}
}

func TestRateLimiterResetIn(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return clock }

	if got := rl.ResetIn("9.9.9.9"); got != 0 {
		t.Errorf("ResetIn for unknown key = %v, want 0", got)
	}
	rl.Check("9.9.9.9")
	clock = clock.Add(20 * time.Second)
	if got := rl.ResetIn("9.9.9.9"); got != 40*time.Second {
		t.Errorf("ResetIn = %v, want 40s", got)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(5, time.Minute)
	rl.now = func() time.Time { return clock }

	rl.Check("a")
	rl.Check("b")
	clock = clock.Add(2 * time.Minute)
	rl.Check("c")
	rl.Cleanup()

	if len(rl.entries) != 1 {
		t.Errorf("entries after cleanup = %d, want 1", len(rl.entries))
	}
	if _, ok := rl.entries["c"]; !ok {
		t.Error("live entry swept")
	}
}

func TestRateLimiterConcurrentNoUndercount(t *testing.T) {
	rl := NewRateLimiter(50, time.Minute)

	var wg sync.WaitGroup
	allowed := make(chan bool, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- rl.Check("same-client")
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	if count != 50 {
		t.Errorf("allowed %d requests, want exactly 50", count)
	}
}
