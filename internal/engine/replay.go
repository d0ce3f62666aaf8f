package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rowanfield/cartsync/internal/model"
	"github.com/rowanfield/cartsync/internal/remote"
)

// replay walks the pending queue, re-attempting remote operations.
//
// The pass iterates a snapshot of the queue taken at entry: records
// enqueued while the pass is running are picked up by the next transition,
// not this one. That bounds the iteration, and is safe because replay is
// idempotent per id - the latest snapshot for an id wins.
//
// Per record:
//   - local-space id: remote create with the payload (id stripped by the
//     adapter), then the atomic id remap across the collection, the local
//     snapshot, and any still-queued record for the same item.
//   - remote-space id: remote update with the payload.
//   - RemoteUnavailable keeps the record queued for the next transition;
//     NotFound is success-equivalent and drops it.
//
// Going offline mid-pass needs no cancellation primitive: the remaining
// remote calls fail with RemoteUnavailable and their records stay queued.
func (e *Engine) replay(ctx context.Context) {
	e.mu.Lock()
	recs := e.pending.snapshot()
	e.mu.Unlock()

	if len(recs) == 0 {
		return
	}
	slog.Info("replaying pending mutations", "pending", len(recs))

	var synced, failed int
	for _, rec := range recs {
		if ctx.Err() != nil {
			slog.Warn("replay interrupted", "synced", synced, "remaining", len(recs)-synced)
			return
		}
		if e.replayRecord(ctx, rec) {
			synced++
		} else {
			failed++
		}
	}
	slog.Info("replay pass finished", "synced", synced, "failed", failed)
}

// replayRecord re-attempts one queued mutation. Returns whether the record
// was settled (synced or dropped).
func (e *Engine) replayRecord(ctx context.Context, rec pendingRecord) bool {
	if model.IsLocalID(rec.Item.ID) {
		newID, err := e.remote.Create(ctx, rec.Item)
		if err != nil {
			slog.Warn("replay create failed, keeping queued", "id", rec.Item.ID, "error", err)
			return false
		}

		e.mu.Lock()
		// Drop the replayed record unless a newer snapshot superseded it
		// mid-flight; either way the local id is gone after the rename.
		e.pending.removeIf(rec.Item.ID, rec.Seq)
		e.renameLocked(ctx, rec.Item, newID)
		e.mu.Unlock()

		slog.Info("offline add synced", "localID", rec.Item.ID, "remoteID", newID)
		return true
	}

	err := e.remote.Update(ctx, rec.Item.ID, rec.Item)
	if err != nil && retryable(err) {
		slog.Warn("replay update failed, keeping queued", "id", rec.Item.ID, "error", err)
		return false
	}
	if errors.Is(err, remote.ErrNotFound) {
		slog.Warn("remote document missing on replay, dropping", "id", rec.Item.ID)
	}

	e.mu.Lock()
	if e.pending.removeIf(rec.Item.ID, rec.Seq) {
		e.persistQueueLocked(ctx)
	}
	e.mu.Unlock()
	return true
}

// renameLocked performs the id remap as a single operation on the engine's
// owned state: the in-memory collection, the local snapshot, and any
// still-queued records referencing the old id all move to the new id
// before the lock is released. Split across independent writes this would
// be a partial-rename bug waiting to happen.
func (e *Engine) renameLocked(ctx context.Context, item model.Item, newID string) {
	oldID := item.ID
	if idx := e.indexLocked(oldID); idx >= 0 {
		e.items[idx].ID = newID
	} else {
		// An offline-added record restored from the durable queue after a
		// remote-wins load: the item is no longer in this session's
		// collection, so reinstate it under its server id.
		item.ID = newID
		e.items = append(e.items, item)
	}
	e.pending.rename(oldID, newID)
	e.persistLocked(ctx)
	e.persistQueueLocked(ctx)
}
