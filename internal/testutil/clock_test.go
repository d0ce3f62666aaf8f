package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedTime_Advances(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := NewFixedTime(start)

	assert.Equal(t, start, clock.Now())
	assert.Equal(t, start.Add(time.Second), clock.Now())
	assert.Equal(t, start.Add(2*time.Second), clock.Peek())
}

func TestFixedTime_CustomStep(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := NewFixedTime(start)
	clock.Step = time.Minute

	_ = clock.Now()
	assert.Equal(t, start.Add(time.Minute), clock.Now())
}

func TestFixedTime_Set(t *testing.T) {
	clock := NewFixedTime(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	later := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	clock.Set(later)
	assert.Equal(t, later, clock.Now())
}
