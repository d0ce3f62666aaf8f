package remote

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/rowanfield/cartsync/internal/model"
)

// Fake is an in-memory Store for tests and the scenario harness.
//
// Failure injection: set FailCreate/FailUpdate/FailDelete/FailList to force
// the corresponding operation to fail with the given error. Hooks are
// checked per call, so tests can script partial failures by swapping them
// between calls, or use FailFor to fail operations touching a single item.
//
// Thread-safety: all methods are safe for concurrent use.
type Fake struct {
	mu   sync.Mutex
	docs map[string]model.Item

	// AssignID overrides server id assignment. Nil means UUIDv4.
	AssignID func() string

	FailCreate error
	FailUpdate error
	FailDelete error
	FailList   error

	// FailFor fails Create for items whose name matches, and
	// Update/Delete for the matching id, with ErrUnavailable.
	FailFor map[string]bool

	createCalls []model.Item
	updateCalls []string
	deleteCalls []string
}

// NewFake creates an empty fake remote store.
func NewFake() *Fake {
	return &Fake{
		docs:    make(map[string]model.Item),
		FailFor: make(map[string]bool),
	}
}

// Create implements Store.
func (f *Fake) Create(ctx context.Context, item model.Item) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls = append(f.createCalls, item)
	if f.FailCreate != nil {
		return "", f.FailCreate
	}
	if f.FailFor[item.Name] {
		return "", ErrUnavailable
	}

	id := f.nextID()
	item.ID = id
	f.docs[id] = item
	return id, nil
}

// Update implements Store.
func (f *Fake) Update(ctx context.Context, id string, item model.Item) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.updateCalls = append(f.updateCalls, id)
	if f.FailUpdate != nil {
		return f.FailUpdate
	}
	if f.FailFor[id] {
		return ErrUnavailable
	}
	if _, ok := f.docs[id]; !ok {
		return ErrNotFound
	}

	item.ID = id
	f.docs[id] = item
	return nil
}

// Delete implements Store.
func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleteCalls = append(f.deleteCalls, id)
	if f.FailDelete != nil {
		return f.FailDelete
	}
	if f.FailFor[id] {
		return ErrUnavailable
	}
	if _, ok := f.docs[id]; !ok {
		return ErrNotFound
	}

	delete(f.docs, id)
	return nil
}

// ListAll implements Store. Items are returned sorted by id for
// deterministic test assertions.
func (f *Fake) ListAll(ctx context.Context) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.FailList != nil {
		return nil, f.FailList
	}

	items := make([]model.Item, 0, len(f.docs))
	for _, it := range f.docs {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Seed inserts documents directly, bypassing failure injection.
func (f *Fake) Seed(items ...model.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range items {
		f.docs[it.ID] = it
	}
}

// Get returns the stored document, if any.
func (f *Fake) Get(id string) (model.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.docs[id]
	return it, ok
}

// Len returns the number of stored documents.
func (f *Fake) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.docs)
}

// CreateCalls returns every Create attempt, including failed ones.
func (f *Fake) CreateCalls() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Item(nil), f.createCalls...)
}

// UpdateCalls returns the ids of every Update attempt.
func (f *Fake) UpdateCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.updateCalls...)
}

// DeleteCalls returns the ids of every Delete attempt.
func (f *Fake) DeleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleteCalls...)
}

func (f *Fake) nextID() string {
	if f.AssignID != nil {
		return f.AssignID()
	}
	return uuid.NewString()
}
