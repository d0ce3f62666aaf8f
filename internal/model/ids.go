package model

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// LocalIDPrefix tags identifiers generated on the device before the remote
// store has assigned one. The prefix is what distinguishes the two id
// spaces: anything else is assumed to be a remote-space id.
const LocalIDPrefix = "local-"

// IsLocalID reports whether id belongs to the local identifier space.
func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// IDGenerator produces local-space identifiers for newly added items.
// Implemented by UUIDGenerator (production) and FixedIDGenerator (tests).
type IDGenerator interface {
	NewLocalID() string
}

// UUIDGenerator generates time-sortable local ids from UUIDv7.
//
// UUIDv7 embeds a timestamp in the most significant bits, so local ids sort
// by creation time, which keeps replay order legible in logs.
//
// Thread-safety: stateless, safe for concurrent use.
type UUIDGenerator struct{}

// NewLocalID returns a fresh "local-" prefixed UUIDv7 string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDGenerator) NewLocalID() string {
	return LocalIDPrefix + uuid.Must(uuid.NewV7()).String()
}

// FixedIDGenerator returns predetermined local ids for deterministic tests.
//
// Panics when the supplied ids are exhausted. This is a fail-fast approach
// to catch test misconfiguration (test added more items than expected).
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator that returns ids in order.
// Ids that do not already carry the local prefix are prefixed on the way out.
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	return &FixedIDGenerator{ids: ids}
}

// NewLocalID returns the next predetermined id.
func (g *FixedIDGenerator) NewLocalID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedIDGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	if !IsLocalID(id) {
		id = LocalIDPrefix + id
	}
	return id
}
