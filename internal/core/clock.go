package core

import "time"

// Clock yields a monotonic timestamp in milliseconds.
// The simulation never reads wall time itself; hosts pass NowMillis() into it.
type Clock interface {
	NowMillis() int64
}

// MonotonicClock measures milliseconds elapsed since it was created.
type MonotonicClock struct {
	start time.Time
}

// NewMonotonicClock creates a clock starting at zero.
func NewMonotonicClock() *MonotonicClock {
	return &MonotonicClock{start: time.Now()}
}

// NowMillis returns milliseconds since the clock was created.
func (c *MonotonicClock) NowMillis() int64 {
	return time.Since(c.start).Milliseconds()
}

// ManualClock is a Clock advanced explicitly. Used for simulated time in tests
// and replays.
type ManualClock struct {
	now int64
}

// NewManualClock creates a manual clock at the given timestamp.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// NowMillis returns the current simulated timestamp.
func (c *ManualClock) NowMillis() int64 {
	return c.now
}

// Advance moves the clock forward by ms milliseconds and returns the new time.
func (c *ManualClock) Advance(ms int64) int64 {
	c.now += ms
	return c.now
}

// Set jumps the clock to an absolute timestamp.
func (c *ManualClock) Set(ms int64) {
	c.now = ms
}
