// Package resttimer runs the between-sets rest countdown of a live workout
// session. One timer instance serves one session; arming while running
// restarts the countdown.
package resttimer

import (
	"math"
	"sync"
	"time"
)

// State of the countdown.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
)

// DefaultRestSeconds is used when a routine entry carries no rest override.
const DefaultRestSeconds = 60

// tickInterval is deliberately shorter than a second so the displayed
// remaining value never visibly skips.
const tickInterval = 250 * time.Millisecond

// RestSeconds resolves an optional per-request override against the
// configured fallback rest length.
func RestSeconds(override *int, fallback int) int {
	if override != nil && *override > 0 {
		return *override
	}
	if fallback > 0 {
		return fallback
	}
	return DefaultRestSeconds
}

// Timer is a restartable countdown. Remaining is derived from a wall-clock
// deadline rather than decremented per tick, so a delayed or coalesced tick
// never makes the countdown drift.
type Timer struct {
	mu    sync.Mutex
	state State
	endAt time.Time

	ticker *time.Ticker
	done   chan struct{}

	// now is replaceable in tests.
	now func() time.Time

	// OnExpire, if set, fires once when the countdown reaches zero on its
	// own. Skip and Stop do not fire it.
	OnExpire func()
}

// New returns an idle timer.
func New() *Timer {
	return &Timer{
		state: StateIdle,
		now:   time.Now,
	}
}

// Arm starts (or restarts) the countdown for restSeconds.
func (t *Timer) Arm(restSeconds int) {
	if restSeconds <= 0 {
		restSeconds = DefaultRestSeconds
	}

	t.mu.Lock()
	t.stopLocked()
	t.state = StateRunning
	t.endAt = t.now().Add(time.Duration(restSeconds) * time.Second)
	t.ticker = time.NewTicker(tickInterval)
	t.done = make(chan struct{})
	t.mu.Unlock()

	go t.run(t.ticker.C, t.done)
}

func (t *Timer) run(ticks <-chan time.Time, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticks:
			if t.tick() {
				return
			}
		}
	}
}

// tick checks the deadline once and reports whether the countdown ended.
func (t *Timer) tick() bool {
	t.mu.Lock()
	if t.state != StateRunning {
		t.mu.Unlock()
		return true
	}
	if t.now().Before(t.endAt) {
		t.mu.Unlock()
		return false
	}
	t.stopLocked()
	t.state = StateIdle
	onExpire := t.OnExpire
	t.mu.Unlock()

	if onExpire != nil {
		onExpire()
	}
	return true
}

// Remaining is the whole seconds left, rounded up so a freshly armed
// 60-second timer reads 60, not 59. Zero when idle.
func (t *Timer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateRunning {
		return 0
	}
	left := t.endAt.Sub(t.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Seconds()))
}

// State reports the current countdown state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Skip ends the countdown early without firing OnExpire.
func (t *Timer) Skip() {
	t.Stop()
}

// Stop returns the timer to idle.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	t.state = StateIdle
}

// stopLocked releases the ticker goroutine; callers hold t.mu.
func (t *Timer) stopLocked() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	if t.done != nil {
		close(t.done)
		t.done = nil
	}
}
