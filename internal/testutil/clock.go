package testutil

import (
	"sync"
	"time"
)

// Clock is a resettable logical clock for report sequencing in tests.
//
// The first call to Next returns 1. Thread-safety: All methods are safe for
// concurrent use via internal mutex.
type Clock struct {
	mu  sync.Mutex
	seq int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next increments and returns the next sequence number.
func (c *Clock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset rewinds the clock so the next call to Next returns 1 again.
func (c *Clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}

// Epoch is the wall time used by FixedNow when none is given.
var Epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// FixedNow returns a time source that always reports t, or Epoch if t is zero.
func FixedNow(t time.Time) func() time.Time {
	if t.IsZero() {
		t = Epoch
	}
	return func() time.Time { return t }
}
