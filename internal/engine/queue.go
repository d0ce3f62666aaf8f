package engine

import (
	"github.com/rowanfield/cartsync/internal/model"
)

// pendingRecord is one queued mutation: the full post-mutation item
// snapshot plus the logical seq stamped at enqueue time.
type pendingRecord struct {
	Item model.Item
	Seq  int64
}

// pendingQueue holds the snapshots awaiting remote application, in enqueue
// order, with at most one record per item id.
//
// Dedupe happens on enqueue: a later snapshot for an id already queued
// replaces the earlier record in place, keeping its queue position. The
// queue is not self-locking - every method must be called with the
// engine's mutex held.
type pendingQueue struct {
	records []pendingRecord
}

func newPendingQueue() *pendingQueue {
	return &pendingQueue{}
}

// upsert enqueues a snapshot, superseding any existing record for the same
// item id unless that record is newer. The stale case happens when a
// direct remote write fails after a later mutation already queued: the
// failure must not clobber the later snapshot.
func (q *pendingQueue) upsert(item model.Item, seq int64) {
	for i := range q.records {
		if q.records[i].Item.ID == item.ID {
			if seq < q.records[i].Seq {
				return
			}
			q.records[i] = pendingRecord{Item: item, Seq: seq}
			return
		}
	}
	q.records = append(q.records, pendingRecord{Item: item, Seq: seq})
}

// removeIf drops the record for id only if its seq still matches, i.e. it
// has not been superseded since the caller snapshotted the queue.
// Returns whether a record was removed.
func (q *pendingQueue) removeIf(id string, seq int64) bool {
	for i := range q.records {
		if q.records[i].Item.ID == id {
			if q.records[i].Seq != seq {
				return false
			}
			q.records = append(q.records[:i], q.records[i+1:]...)
			return true
		}
	}
	return false
}

// removeOlder drops the record for id if it was queued before seq.
// Used when a direct remote write succeeds: any snapshot queued earlier
// is stale and must not replay over the newer remote state.
func (q *pendingQueue) removeOlder(id string, seq int64) bool {
	for i := range q.records {
		if q.records[i].Item.ID == id {
			if q.records[i].Seq >= seq {
				return false
			}
			q.records = append(q.records[:i], q.records[i+1:]...)
			return true
		}
	}
	return false
}

// purge drops any record for id regardless of seq. Used by Remove: a
// remove after a queued add or update cancels the queued work outright.
func (q *pendingQueue) purge(id string) bool {
	for i := range q.records {
		if q.records[i].Item.ID == id {
			q.records = append(q.records[:i], q.records[i+1:]...)
			return true
		}
	}
	return false
}

// rename rewrites the item id on any record still referencing oldID.
// Part of the engine's atomic id remap after a successful remote create.
func (q *pendingQueue) rename(oldID, newID string) {
	for i := range q.records {
		if q.records[i].Item.ID == oldID {
			q.records[i].Item.ID = newID
		}
	}
}

// snapshot returns a copy of the queue for iteration outside the lock.
func (q *pendingQueue) snapshot() []pendingRecord {
	out := make([]pendingRecord, len(q.records))
	copy(out, q.records)
	return out
}

// items returns the queued snapshots in order, for persistence.
func (q *pendingQueue) items() []model.Item {
	out := make([]model.Item, len(q.records))
	for i, rec := range q.records {
		out[i] = rec.Item
	}
	return out
}

func (q *pendingQueue) len() int {
	return len(q.records)
}
