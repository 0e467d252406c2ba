package testutil

import (
	"sync"
	"time"
)

// FixedClock is a deterministic clock for tests.
//
// The first call to Now returns the start time; each later call advances by
// the configured step. Two simulator runs with identically configured
// clocks produce byte-identical timestamps.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu    sync.Mutex
	start time.Time
	step  time.Duration
	calls int
}

// NewFixedClock creates a clock starting at start and advancing by step per call.
// A zero step returns start forever.
func NewFixedClock(start time.Time, step time.Duration) *FixedClock {
	return &FixedClock{start: start.UTC(), step: step}
}

// Now returns start + calls*step and increments the call count.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.start.Add(time.Duration(c.calls) * c.step)
	c.calls++
	return t
}

// Calls returns how many times Now has been called.
func (c *FixedClock) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// Reset rewinds the clock so the next Now returns start again.
func (c *FixedClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
}
