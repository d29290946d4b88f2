package exam

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestTimerRemaining(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(start)
	tc := NewTimerController(start.Add(15*time.Minute), clock.Now, nil, nil)

	if got := tc.Remaining(); got != 15*time.Minute {
		t.Fatalf("Remaining = %v, want 15m", got)
	}
	clock.Advance(10 * time.Minute)
	if got := tc.Remaining(); got != 5*time.Minute {
		t.Fatalf("Remaining = %v, want 5m", got)
	}
	clock.Advance(20 * time.Minute)
	if got := tc.Remaining(); got != 0 {
		t.Fatalf("Remaining past deadline = %v, want 0", got)
	}
}

func TestTimerWarningWindow(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(start)
	warnings := 0
	tc := NewTimerController(start.Add(15*time.Minute), clock.Now, func() { warnings++ }, nil)

	tc.Tick()
	if tc.Warning() || warnings != 0 {
		t.Fatalf("warned with %v remaining", tc.Remaining())
	}

	clock.Advance(10 * time.Minute) // exactly 5m left
	tc.Tick()
	if !tc.Warning() {
		t.Fatal("Warning() false at the threshold")
	}
	if warnings != 1 {
		t.Fatalf("warning fired %d times, want 1", warnings)
	}

	// More ticks inside the window must not repeat the callback.
	clock.Advance(time.Minute)
	tc.Tick()
	tc.Tick()
	if warnings != 1 {
		t.Fatalf("warning fired %d times after extra ticks, want 1", warnings)
	}
}

func TestTimerExpiresAtMostOnce(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(start)
	expiries := 0
	tc := NewTimerController(start.Add(time.Minute), clock.Now, nil, func() { expiries++ })

	clock.Advance(2 * time.Minute)
	for i := 0; i < 10; i++ {
		tc.Tick()
	}
	if expiries != 1 {
		t.Fatalf("expiry fired %d times over repeated zero ticks, want 1", expiries)
	}
}

func TestTimerStopIdempotent(t *testing.T) {
	start := time.Now()
	tc := NewTimerController(start.Add(time.Hour), nil, nil, nil)
	tc.Start()
	tc.Stop()
	tc.Stop() // second call must not panic on a closed channel
}

func TestTimerNoExpiryBeforeDeadline(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := newFakeClock(start)
	expiries := 0
	tc := NewTimerController(start.Add(10*time.Minute), clock.Now, nil, func() { expiries++ })

	for i := 0; i < 9; i++ {
		clock.Advance(time.Minute)
		tc.Tick()
	}
	if expiries != 0 {
		t.Fatalf("expired with %v remaining", tc.Remaining())
	}
	clock.Advance(time.Minute)
	tc.Tick()
	if expiries != 1 {
		t.Fatalf("expiry fired %d times at the deadline, want 1", expiries)
	}
}
