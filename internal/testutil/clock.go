// Package testutil provides deterministic test doubles shared across
// packages.
package testutil

import (
	"sync"
	"time"
)

// FixedTime is a deterministic engine.TimeSource for tests.
//
// Each call to Now returns the current instant and advances it by Step, so
// consecutive mutations get distinct, predictable timestamps.
//
// Thread-safety: all methods are safe for concurrent use via internal
// mutex.
type FixedTime struct {
	mu   sync.Mutex
	now  time.Time
	Step time.Duration
}

// NewFixedTime creates a clock starting at the given instant, advancing one
// second per Now call.
func NewFixedTime(start time.Time) *FixedTime {
	return &FixedTime{now: start, Step: time.Second}
}

// Now returns the current instant and advances the clock by Step.
func (f *FixedTime) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.now
	f.now = f.now.Add(f.Step)
	return t
}

// Peek returns the instant the next Now call will produce, without
// advancing.
func (f *FixedTime) Peek() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set moves the clock to a specific instant.
func (f *FixedTime) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t
}
