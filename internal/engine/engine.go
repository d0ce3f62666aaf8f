package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/rowanfield/cartsync/internal/model"
	"github.com/rowanfield/cartsync/internal/remote"
	"github.com/rowanfield/cartsync/internal/snapshot"
)

// Engine is the reconciliation engine: it owns the authoritative in-memory
// item collection and the pending mutation queue, and decides per mutation
// whether to push to the remote store or queue locally.
//
// Thread-safety model:
//   - Mutation methods (Add, Update, Toggle, Remove) and accessors are safe
//     from any goroutine; the synchronous phase runs under the engine mutex
//     and never performs network I/O.
//   - Run must be called from exactly one goroutine. All remote I/O and
//     replay happen there.
//   - SetOnline is the connectivity event sink; safe from any goroutine.
//
// The pending queue is shared between the mutation path and the replay
// path and is only ever touched under the engine mutex.
type Engine struct {
	mu      sync.Mutex
	items   []model.Item // insertion order; ids unique
	pending *pendingQueue
	online  bool

	snap       snapshot.Store
	queueStore snapshot.QueueStore // nil disables queue persistence
	remote     remote.Store

	clock *Clock
	now   TimeSource
	ids   model.IDGenerator
	tasks *taskQueue
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator overrides local id generation. Tests use
// model.NewFixedIDGenerator for deterministic ids.
func WithIDGenerator(gen model.IDGenerator) Option {
	return func(e *Engine) { e.ids = gen }
}

// WithTimeSource overrides the wall clock used for item timestamps.
func WithTimeSource(ts TimeSource) Option {
	return func(e *Engine) { e.now = ts }
}

// WithQueueStore enables durable persistence of the pending queue, so
// offline mutations survive process restarts.
func WithQueueStore(qs snapshot.QueueStore) Option {
	return func(e *Engine) { e.queueStore = qs }
}

// New creates an engine over the given local snapshot store and remote
// store adapter. The engine starts offline with an empty collection; call
// Load to read cached state, then SetOnline with the monitor's state.
func New(snap snapshot.Store, rem remote.Store, opts ...Option) *Engine {
	e := &Engine{
		pending: newPendingQueue(),
		snap:    snap,
		remote:  rem,
		clock:   NewClock(),
		now:     SystemTime{},
		ids:     model.UUIDGenerator{},
		tasks:   newTaskQueue(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load runs the startup protocol.
//
// The local snapshot is read first (a failed read means "no cached data").
// When online, the remote listing takes precedence unless it is empty: a
// legitimately empty remote must not erase local edits that have not been
// synced yet. A failed remote listing falls back to the local snapshot.
//
// The online argument is the connectivity monitor's state at startup. Load
// does not trigger replay; signal the state through SetOnline afterwards
// so the offline-to-online transition fires once the queue is in place.
func (e *Engine) Load(ctx context.Context, online bool) error {
	local, err := e.snap.Load(ctx)
	if err != nil {
		slog.Warn("local snapshot unreadable, starting empty", "error", err)
		local = nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.queueStore != nil {
		queued, err := e.queueStore.LoadQueue(ctx)
		if err != nil {
			slog.Warn("pending queue unreadable, starting empty", "error", err)
		}
		for _, it := range queued {
			e.pending.upsert(it, e.clock.Next())
		}
	}

	if !online {
		e.items = model.Clone(local)
		slog.Info("loaded from local snapshot (offline)", "items", len(e.items), "pending", e.pending.len())
		return nil
	}

	remoteItems, err := e.remote.ListAll(ctx)
	switch {
	case err != nil:
		slog.Warn("remote listing failed, using local snapshot", "error", err)
		e.items = model.Clone(local)
	case len(remoteItems) > 0:
		// Remote wins over a stale local cache on a clean load.
		e.items = model.Clone(remoteItems)
		e.persistLocked(ctx)
		slog.Info("loaded from remote store", "items", len(e.items))
	default:
		// Remote legitimately empty: keep local edits not yet synced.
		e.items = model.Clone(local)
		slog.Info("remote empty, keeping local snapshot", "items", len(e.items))
	}
	return nil
}

// Add creates an item with a local-space id and queues it for remote
// creation. The returned item carries the local id until the first
// successful sync remaps it.
func (e *Engine) Add(ctx context.Context, name string, quantity int, unitPrice float64) (model.Item, error) {
	now := e.now.Now()
	item := model.Item{
		ID:        e.ids.NewLocalID(),
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		CreatedAt: now,
		UpdatedAt: now,
	}
	item.Recompute()
	if err := item.Validate(); err != nil {
		return model.Item{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.items = append(e.items, item)
	e.persistLocked(ctx)

	// The remote document does not exist yet, so there is nothing to
	// attempt: the snapshot is queued for replay regardless of
	// connectivity.
	e.enqueuePendingLocked(ctx, item, e.clock.Next())

	slog.Debug("item added", "id", item.ID, "name", item.Name, "online", e.online)
	return item, nil
}

// Update replaces an item's name, quantity and unit price, recomputing the
// derived total.
func (e *Engine) Update(ctx context.Context, id, name string, quantity int, unitPrice float64) (model.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexLocked(id)
	if idx < 0 {
		return model.Item{}, ErrUnknownItem
	}

	updated := e.items[idx]
	updated.Name = name
	updated.Quantity = quantity
	updated.UnitPrice = unitPrice
	updated.UpdatedAt = e.now.Now()
	updated.Recompute()
	if err := updated.Validate(); err != nil {
		return model.Item{}, err
	}

	e.items[idx] = updated
	e.persistLocked(ctx)
	e.dispatchWriteLocked(ctx, updated)
	return updated, nil
}

// Toggle flips an item's completed flag.
func (e *Engine) Toggle(ctx context.Context, id string) (model.Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexLocked(id)
	if idx < 0 {
		return model.Item{}, ErrUnknownItem
	}

	updated := e.items[idx]
	updated.Completed = !updated.Completed
	updated.UpdatedAt = e.now.Now()

	e.items[idx] = updated
	e.persistLocked(ctx)
	e.dispatchWriteLocked(ctx, updated)
	return updated, nil
}

// Remove deletes an item from the collection and the local snapshot, and
// cancels any queued work for it: a remove after a queued add or update
// must not re-send work for an id the remote store may never have seen.
//
// The remote delete is attempted only for remote-space ids while online,
// and is fire-and-forget: a failed delete is logged, never queued.
func (e *Engine) Remove(ctx context.Context, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.indexLocked(id)
	if idx < 0 {
		return ErrUnknownItem
	}

	e.items = append(e.items[:idx], e.items[idx+1:]...)
	e.persistLocked(ctx)

	if e.pending.purge(id) {
		e.persistQueueLocked(ctx)
	}

	if e.online && !model.IsLocalID(id) {
		e.tasks.Enqueue(task{Kind: taskRemoteDelete, ID: id})
	}
	slog.Debug("item removed", "id", id)
	return nil
}

// SetOnline is the connectivity event sink. An offline-to-online
// transition with a non-empty pending queue triggers a replay pass on the
// task loop. Wire it to a connectivity.Monitor subscription, or call it
// directly from a driver.
func (e *Engine) SetOnline(online bool) {
	e.mu.Lock()
	wasOnline := e.online
	e.online = online
	queued := e.pending.len()
	e.mu.Unlock()

	if online == wasOnline {
		return
	}
	slog.Info("connectivity transition", "online", online, "pending", queued)
	if online && queued > 0 {
		e.tasks.Enqueue(task{Kind: taskReplay})
	}
}

// Online returns the engine's view of connectivity.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// Items returns a copy of the collection in insertion order.
func (e *Engine) Items() []model.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.Clone(e.items)
}

// Get returns the item with the given id, if present.
func (e *Engine) Get(id string) (model.Item, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if idx := e.indexLocked(id); idx >= 0 {
		return e.items[idx], true
	}
	return model.Item{}, false
}

// PendingCount returns the number of queued mutations. A non-zero count
// while online is the user-visible signal of persistent remote failures.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.len()
}

// PendingItems returns the queued snapshots in enqueue order.
func (e *Engine) PendingItems() []model.Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.items()
}

// PendingTotal returns the sum of totals across items not yet completed.
func (e *Engine) PendingTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.PendingTotal(e.items)
}

// Run starts the single-writer task loop: remote writes, deletes, and
// replay passes all execute here. Blocks until the context is cancelled or
// Stop is called.
//
// Must be called from exactly one goroutine.
func (e *Engine) Run(ctx context.Context) error {
	slog.Info("engine task loop starting")
	for {
		t, ok := e.tasks.TryDequeue()
		if ok {
			e.processTask(ctx, t)
			continue
		}

		select {
		case <-ctx.Done():
			slog.Info("engine task loop stopping: context cancelled")
			e.tasks.Close()
			return ctx.Err()
		case <-e.tasks.Wait():
			if e.tasks.Len() == 0 {
				slog.Info("engine task loop stopping: queue closed")
				return nil
			}
		}
	}
}

// Drain processes queued tasks until none remain, on the caller's
// goroutine. One-shot drivers (the CLI, tests) use Drain instead of Run.
// Do not mix with a concurrent Run.
func (e *Engine) Drain(ctx context.Context) {
	for {
		t, ok := e.tasks.TryDequeue()
		if !ok {
			return
		}
		e.processTask(ctx, t)
	}
}

// Stop closes the task queue, which makes Run return after the backlog is
// processed.
func (e *Engine) Stop() {
	e.tasks.Close()
}

// TaskBacklog returns the number of tasks awaiting the loop.
// Useful for monitoring and tests.
func (e *Engine) TaskBacklog() int {
	return e.tasks.Len()
}

// processTask executes one unit of remote work.
// Called only from the Run loop or Drain.
func (e *Engine) processTask(ctx context.Context, t task) {
	switch t.Kind {
	case taskRemoteUpdate:
		err := e.remote.Update(ctx, t.Item.ID, t.Item)
		if err == nil {
			// The remote now holds this snapshot; any record queued
			// before the dispatch is stale and must not replay over it.
			e.mu.Lock()
			if e.pending.removeOlder(t.Item.ID, t.Seq) {
				slog.Debug("stale queued snapshot superseded by direct write", "id", t.Item.ID)
				e.persistQueueLocked(ctx)
			}
			e.mu.Unlock()
			slog.Debug("remote update applied", "id", t.Item.ID)
			return
		}
		if !retryable(err) {
			slog.Warn("remote document missing on update, dropping", "id", t.Item.ID, "error", err)
			return
		}
		slog.Warn("remote update failed, queueing for replay", "id", t.Item.ID, "error", err)
		e.mu.Lock()
		e.enqueuePendingLocked(ctx, t.Item, t.Seq)
		e.mu.Unlock()

	case taskRemoteDelete:
		if err := e.remote.Delete(ctx, t.ID); err != nil {
			// Delete failures are not retried in this design.
			slog.Warn("remote delete failed, not retrying", "id", t.ID, "error", err)
		} else {
			slog.Debug("remote delete applied", "id", t.ID)
		}

	case taskReplay:
		e.replay(ctx)

	default:
		slog.Error("unknown task kind", "kind", int(t.Kind))
	}
}

// dispatchWriteLocked decides the remote path for an update or toggle:
// attempt the remote write only while online and only for remote-space
// ids (a local-space id has no remote document to update yet); everything
// else queues the snapshot for replay.
//
// The seq is taken here, in mutation order, so that both paths agree on
// which snapshot is newer: a direct write supersedes older queued
// records on success, and re-enqueues with its own seq on failure.
func (e *Engine) dispatchWriteLocked(ctx context.Context, item model.Item) {
	seq := e.clock.Next()
	if e.online && !model.IsLocalID(item.ID) {
		e.tasks.Enqueue(task{Kind: taskRemoteUpdate, Item: item, Seq: seq})
		return
	}
	e.enqueuePendingLocked(ctx, item, seq)
}

// enqueuePendingLocked records a post-mutation snapshot in the pending
// queue, superseding any earlier record for the same id, and persists the
// queue best-effort.
func (e *Engine) enqueuePendingLocked(ctx context.Context, item model.Item, seq int64) {
	e.pending.upsert(item, seq)
	e.persistQueueLocked(ctx)
}

// persistLocked writes the item collection to the local snapshot store.
// Persistence failures never fail the mutation: the in-memory collection
// stays authoritative for the running session.
func (e *Engine) persistLocked(ctx context.Context) {
	if err := e.snap.Save(ctx, e.items); err != nil {
		slog.Warn("local snapshot save failed", "items", len(e.items), "error", err)
	}
}

// persistQueueLocked writes the pending queue, best-effort like
// persistLocked.
func (e *Engine) persistQueueLocked(ctx context.Context) {
	if e.queueStore == nil {
		return
	}
	if err := e.queueStore.SaveQueue(ctx, e.pending.items()); err != nil {
		slog.Warn("pending queue save failed", "pending", e.pending.len(), "error", err)
	}
}

func (e *Engine) indexLocked(id string) int {
	for i := range e.items {
		if e.items[i].ID == id {
			return i
		}
	}
	return -1
}
