package framework

import (
	"sync"
	"time"
)

// Clock provides the monotonic time used by controllers to measure
// elapsed durations. Components never read the wall clock directly.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now, which carries Go's monotonic reading.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock only moved by Advance, used in tests and
// simulations.
type ManualClock struct {
	now  time.Time
	lock sync.Mutex
}

// NewManualClock creates a ManualClock starting at an arbitrary instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(1700000000, 0)}
}

// Now implements Clock.
func (c *ManualClock) Now() time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.now
}

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

// ClockOrSystem returns c, or SystemClock when c is nil.
func ClockOrSystem(c Clock) Clock {
	if c == nil {
		return SystemClock{}
	}
	return c
}
