package resttimer

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock lets tests move the timer's wall clock by hand.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestTimer() (*Timer, *fakeClock) {
	clock := newFakeClock()
	t := New()
	t.now = clock.Now
	return t, clock
}

func TestRestSeconds(t *testing.T) {
	assert.Equal(t, DefaultRestSeconds, RestSeconds(nil, 0))
	assert.Equal(t, 45, RestSeconds(nil, 45))

	zero, negative, override := 0, -5, 90
	assert.Equal(t, 45, RestSeconds(&zero, 45))
	assert.Equal(t, DefaultRestSeconds, RestSeconds(&negative, 0))
	assert.Equal(t, 90, RestSeconds(&override, 45))
}

func TestTimer_ArmAndCountDown(t *testing.T) {
	timer, clock := newTestTimer()
	defer timer.Stop()

	timer.Arm(60)
	assert.Equal(t, StateRunning, timer.State())
	// A freshly armed timer reads the full length.
	assert.Equal(t, 60, timer.Remaining())

	clock.Advance(30 * time.Second)
	assert.Equal(t, 30, timer.Remaining())

	// Partial seconds round up so the display never shows 0 early.
	clock.Advance(29500 * time.Millisecond)
	assert.Equal(t, 1, timer.Remaining())

	clock.Advance(time.Second)
	assert.Equal(t, 0, timer.Remaining())
}

func TestTimer_TickExpiresToIdle(t *testing.T) {
	timer, clock := newTestTimer()
	defer timer.Stop()

	expired := make(chan struct{}, 1)
	timer.OnExpire = func() { expired <- struct{}{} }

	timer.Arm(60)
	clock.Advance(60 * time.Second)

	assert.True(t, timer.tick())
	assert.Equal(t, StateIdle, timer.State())
	assert.Equal(t, 0, timer.Remaining())

	select {
	case <-expired:
	default:
		t.Fatal("OnExpire did not fire")
	}
}

func TestTimer_TickKeepsRunningBeforeDeadline(t *testing.T) {
	timer, clock := newTestTimer()
	defer timer.Stop()

	timer.Arm(60)
	clock.Advance(10 * time.Second)

	assert.False(t, timer.tick())
	assert.Equal(t, StateRunning, timer.State())
}

func TestTimer_SkipGoesIdleWithoutExpiring(t *testing.T) {
	timer, _ := newTestTimer()

	fired := false
	timer.OnExpire = func() { fired = true }

	timer.Arm(60)
	timer.Skip()

	assert.Equal(t, StateIdle, timer.State())
	assert.Equal(t, 0, timer.Remaining())
	assert.False(t, fired)
}

func TestTimer_RearmRestartsCountdown(t *testing.T) {
	timer, clock := newTestTimer()
	defer timer.Stop()

	timer.Arm(60)
	clock.Advance(50 * time.Second)
	require.Equal(t, 10, timer.Remaining())

	timer.Arm(90)
	assert.Equal(t, 90, timer.Remaining())
}

func TestTimer_ArmNonPositiveUsesDefault(t *testing.T) {
	timer, _ := newTestTimer()
	defer timer.Stop()

	timer.Arm(0)
	assert.Equal(t, DefaultRestSeconds, timer.Remaining())
}

func TestManager_OneTimerPerKey(t *testing.T) {
	m := NewManager()

	a := m.For("user-a")
	b := m.For("user-b")
	assert.NotSame(t, a, b)
	assert.Same(t, a, m.For("user-a"))
}
