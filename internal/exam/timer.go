package exam

import (
	"sync"
	"time"
)

// WarningThreshold is the remaining time at or below which a session is in
// its warning window.
const WarningThreshold = 5 * time.Minute

// TimerController drives the countdown for a single in-progress session.
// Remaining time is always recomputed from the wall-clock deadline, never
// from tick counts, so a suspended process cannot stretch the limit. It is
// constructed per session and must be stopped on any exit transition.
type TimerController struct {
	deadline  time.Time
	clock     func() time.Time
	interval  time.Duration
	onWarning func()
	onExpire  func()

	mu      sync.Mutex
	stop    chan struct{}
	stopped bool
	warned  bool
	expired bool
}

// NewTimerController builds a controller ticking once per second against the
// given deadline. Either callback may be nil.
func NewTimerController(deadline time.Time, clock func() time.Time, onWarning, onExpire func()) *TimerController {
	if clock == nil {
		clock = time.Now
	}
	return &TimerController{
		deadline:  deadline,
		clock:     clock,
		interval:  time.Second,
		onWarning: onWarning,
		onExpire:  onExpire,
		stop:      make(chan struct{}),
	}
}

// Remaining is the time left, clamped to zero.
func (t *TimerController) Remaining() time.Duration {
	rem := t.deadline.Sub(t.clock())
	if rem < 0 {
		return 0
	}
	return rem
}

// Warning reports whether the session is inside the warning window. Derived
// from the clock on every call, not stored.
func (t *TimerController) Warning() bool {
	return t.Remaining() <= WarningThreshold
}

// Tick evaluates the countdown once: fires the warning callback on entering
// the warning window and the expiry callback when time runs out. The expiry
// callback fires at most once no matter how many ticks cross zero.
func (t *TimerController) Tick() {
	rem := t.Remaining()

	var warn, expire func()
	t.mu.Lock()
	if rem <= WarningThreshold && !t.warned {
		t.warned = true
		warn = t.onWarning
	}
	if rem == 0 && !t.expired {
		t.expired = true
		expire = t.onExpire
	}
	t.mu.Unlock()

	if warn != nil {
		warn()
	}
	if expire != nil {
		expire()
	}
}

// Start runs the tick loop in its own goroutine until expiry or Stop.
func (t *TimerController) Start() {
	go func() {
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case <-ticker.C:
				t.Tick()
				t.mu.Lock()
				done := t.expired
				t.mu.Unlock()
				if done {
					return
				}
			}
		}
	}()
}

// Stop halts the tick loop. Idempotent; safe to call from the expiry path.
func (t *TimerController) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.stopped {
		t.stopped = true
		close(t.stop)
	}
}
