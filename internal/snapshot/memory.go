package snapshot

import (
	"context"
	"sync"

	"github.com/rowanfield/cartsync/internal/model"
)

// Memory is an in-memory Store and QueueStore for tests and the scenario
// harness.
//
// Failure injection: LoadErr/SaveErr force the corresponding item
// operations to fail, QueueLoadErr/QueueSaveErr the queue ones. The engine
// must degrade gracefully in both cases.
type Memory struct {
	mu      sync.Mutex
	items   []model.Item
	pending []model.Item

	LoadErr      error
	SaveErr      error
	QueueLoadErr error
	QueueSaveErr error

	saveCount int
}

// NewMemory creates an empty in-memory snapshot store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return model.Clone(m.items), nil
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, items []model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCount++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.items = model.Clone(items)
	return nil
}

// LoadQueue implements QueueStore.
func (m *Memory) LoadQueue(ctx context.Context) ([]model.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueueLoadErr != nil {
		return nil, m.QueueLoadErr
	}
	return model.Clone(m.pending), nil
}

// SaveQueue implements QueueStore.
func (m *Memory) SaveQueue(ctx context.Context, items []model.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.QueueSaveErr != nil {
		return m.QueueSaveErr
	}
	m.pending = model.Clone(items)
	return nil
}

// Items returns the last saved collection.
func (m *Memory) Items() []model.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Clone(m.items)
}

// Pending returns the last saved queue.
func (m *Memory) Pending() []model.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Clone(m.pending)
}

// SaveCount returns how many times Save was called, including failed saves.
func (m *Memory) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveCount
}

// Seed replaces the stored collection directly.
func (m *Memory) Seed(items ...model.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = model.Clone(items)
}
