package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLocalID(t *testing.T) {
	assert.True(t, IsLocalID("local-0198b2c3"))
	assert.False(t, IsLocalID("0198b2c3"))
	assert.False(t, IsLocalID(""))
	assert.False(t, IsLocalID("remote-local-x"))
}

func TestUUIDGenerator_LocalSpace(t *testing.T) {
	gen := UUIDGenerator{}

	a := gen.NewLocalID()
	b := gen.NewLocalID()

	assert.True(t, IsLocalID(a))
	assert.True(t, IsLocalID(b))
	assert.NotEqual(t, a, b, "ids must be unique")
}

func TestFixedIDGenerator_ReturnsInOrder(t *testing.T) {
	gen := NewFixedIDGenerator("one", "local-two")

	assert.Equal(t, "local-one", gen.NewLocalID())
	assert.Equal(t, "local-two", gen.NewLocalID())
}

func TestFixedIDGenerator_PanicsWhenExhausted(t *testing.T) {
	gen := NewFixedIDGenerator("only")
	_ = gen.NewLocalID()

	require.Panics(t, func() { gen.NewLocalID() })
}
