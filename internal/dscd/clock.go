package dscd

import "time"

// Clock supplies the current time in nanoseconds. The scheduler never
// reads the wall clock directly — the clock source is an external
// collaborator — so tests can substitute a ManualClock and drive
// devaluation/rate-estimation deterministically.
type Clock interface {
	NowNanos() uint64
}

// systemClock is the default Clock, backed by a monotonic reading. It
// anchors to its own construction time so the nanosecond values stay
// well clear of uint64 wraparound for any realistic process lifetime.
type systemClock struct {
	start time.Time
}

// NewSystemClock returns a Clock backed by the monotonic system clock.
func NewSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) NowNanos() uint64 {
	return uint64(time.Since(c.start).Nanoseconds())
}

// ManualClock is a Clock a test can advance explicitly. Zero value
// starts at t=0; devaluation state begins at 0 until first use.
type ManualClock struct {
	now uint64
}

// NowNanos implements Clock.
func (m *ManualClock) NowNanos() uint64 {
	return m.now
}

// Set pins the clock to an absolute nanosecond value.
func (m *ManualClock) Set(now uint64) {
	m.now = now
}

// Advance moves the clock forward by delta nanoseconds and returns the
// new value.
func (m *ManualClock) Advance(delta uint64) uint64 {
	m.now += delta
	return m.now
}
