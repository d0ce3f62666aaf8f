package engine

import (
	"sync/atomic"
	"time"
)

// Clock is a monotonic logical clock for ordering pending queue records.
//
// Every enqueue is stamped with a strictly increasing seq. Replay uses the
// seq to detect supersession: a record is only dropped from the live queue
// if its seq still matches the snapshot taken when replay started, so a
// mutation racing an in-flight replay cannot lose its newer state.
//
// Thread-safety: safe for concurrent use (atomic operations).
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}

// TimeSource supplies wall-clock timestamps for createdAt/updatedAt.
// Implemented by SystemTime (production) and testutil.FixedTime (tests).
type TimeSource interface {
	Now() time.Time
}

// SystemTime reads the system clock, truncated to UTC seconds so that
// timestamps survive a JSON round trip through the snapshot store intact.
type SystemTime struct{}

// Now implements TimeSource.
func (SystemTime) Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
