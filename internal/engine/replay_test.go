package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/cartsync/internal/model"
	"github.com/rowanfield/cartsync/internal/remote"
)

// The canonical offline-first flow: add while offline, reconnect, and the
// local item converges onto a server-assigned identity everywhere.
func TestReplay_OfflineAddThenOnline(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	item, err := e.Add(ctx, "Milk", 2, 3.50)
	require.NoError(t, err)
	require.Equal(t, "local-0001", item.ID)
	require.Equal(t, 1, e.PendingCount())

	e.SetOnline(true)
	e.Drain(ctx)

	// Queue settled, remote document created.
	assert.Zero(t, e.PendingCount())
	require.Equal(t, 1, e.rem.Len())
	doc, ok := e.rem.Get("srv-1")
	require.True(t, ok)
	assert.Equal(t, "Milk", doc.Name)
	assert.Equal(t, 7.0, doc.Total)

	// Identifier remapping: no local-space id survives anywhere.
	items := e.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "srv-1", items[0].ID)
	require.Len(t, e.snap.Items(), 1)
	assert.Equal(t, "srv-1", e.snap.Items()[0].ID)
	assert.Empty(t, e.snap.Pending())
}

func TestReplay_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, "Milk", 2, 3.50)
	require.NoError(t, err)

	e.SetOnline(true)
	e.Drain(ctx)
	require.Equal(t, 1, len(e.rem.CreateCalls()))

	// A connectivity flap must not re-send the already-synced record.
	e.SetOnline(false)
	e.SetOnline(true)
	e.Drain(ctx)

	assert.Equal(t, 1, len(e.rem.CreateCalls()), "no duplicate remote document")
	assert.Equal(t, 1, e.rem.Len())
	assert.Zero(t, e.PendingCount())
}

func TestReplay_PartialFailure(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Add(ctx, "Milk", 2, 3.50)
	require.NoError(t, err)
	_, err = e.Add(ctx, "Eggs", 1, 4.25)
	require.NoError(t, err)
	require.Equal(t, 2, e.PendingCount())

	e.rem.FailFor["Eggs"] = true
	e.SetOnline(true)
	e.Drain(ctx)

	// First settled, second still queued for the next transition.
	require.Equal(t, 1, e.PendingCount())
	assert.Equal(t, "Eggs", e.PendingItems()[0].Name)

	// In-memory state for both items is unchanged apart from the remap.
	items := e.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "srv-1", items[0].ID)
	assert.Equal(t, "Milk", items[0].Name)
	assert.True(t, items[1].Local(), "failed item keeps its local id")
	assert.Equal(t, "Eggs", items[1].Name)

	// Next transition settles the remainder.
	delete(e.rem.FailFor, "Eggs")
	e.SetOnline(false)
	e.SetOnline(true)
	e.Drain(ctx)

	assert.Zero(t, e.PendingCount())
	assert.Equal(t, 2, e.rem.Len())
}

func TestReplay_RemoveWhilePending(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	item, err := e.Add(ctx, "Milk", 2, 3.50)
	require.NoError(t, err)
	require.NoError(t, e.Remove(ctx, item.ID))
	require.Zero(t, e.PendingCount())

	e.SetOnline(true)
	e.Drain(ctx)

	assert.Empty(t, e.rem.CreateCalls(), "no remote create for a cancelled add")
	assert.Empty(t, e.rem.DeleteCalls(), "no remote delete for an id the server never saw")
	assert.Zero(t, e.rem.Len())
}

func TestReplay_QueuedUpdateReplaysAsUpdate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.rem.Seed(model.Item{ID: "srv-9", Name: "Milk", Quantity: 2, UnitPrice: 3.5, Total: 7})
	require.NoError(t, e.Load(ctx, true))

	// Offline edit of an already-synced item.
	_, err := e.Update(ctx, "srv-9", "Milk", 6, 3.5)
	require.NoError(t, err)
	require.Equal(t, 1, e.PendingCount())

	e.SetOnline(true)
	e.Drain(ctx)

	assert.Empty(t, e.rem.CreateCalls(), "remote-space ids replay as updates")
	assert.Equal(t, []string{"srv-9"}, e.rem.UpdateCalls())
	assert.Zero(t, e.PendingCount())

	doc, ok := e.rem.Get("srv-9")
	require.True(t, ok)
	assert.Equal(t, 21.0, doc.Total)
}

func TestReplay_DirectWriteSupersedesStaleQueuedSnapshot(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.rem.Seed(model.Item{ID: "srv-1", Name: "Milk", Quantity: 2, UnitPrice: 3.5, Total: 7})
	require.NoError(t, e.Load(ctx, true))
	e.SetOnline(true)

	// A transient failure queues the first edit.
	e.rem.FailUpdate = remote.ErrUnavailable
	_, err := e.Update(ctx, "srv-1", "Milk", 3, 3.5)
	require.NoError(t, err)
	e.Drain(ctx)
	require.Equal(t, 1, e.PendingCount())

	// The remote heals and a second edit writes through directly. The
	// stale queued snapshot now describes older state than the remote
	// holds and must leave the queue with it.
	e.rem.FailUpdate = nil
	_, err = e.Update(ctx, "srv-1", "Milk", 9, 3.5)
	require.NoError(t, err)
	e.Drain(ctx)
	assert.Zero(t, e.PendingCount(), "successful direct write supersedes the stale snapshot")

	// A connectivity flap must not revert the remote document.
	e.SetOnline(false)
	e.SetOnline(true)
	e.Drain(ctx)

	doc, ok := e.rem.Get("srv-1")
	require.True(t, ok)
	assert.Equal(t, 9, doc.Quantity, "replay must never roll the remote back to an older snapshot")
}

func TestReplay_FailedDirectWriteKeepsNewerQueuedSnapshot(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.rem.Seed(model.Item{ID: "srv-1", Name: "Milk", Quantity: 2, UnitPrice: 3.5, Total: 7})
	require.NoError(t, e.Load(ctx, true))
	e.SetOnline(true)

	// Dispatch a write, then queue a newer offline edit before the
	// dispatched write is processed and fails.
	e.rem.FailUpdate = remote.ErrUnavailable
	_, err := e.Update(ctx, "srv-1", "Milk", 3, 3.5)
	require.NoError(t, err)
	e.SetOnline(false)
	_, err = e.Update(ctx, "srv-1", "Milk", 5, 3.5)
	require.NoError(t, err)
	e.Drain(ctx)

	// The older failure must not clobber the newer queued snapshot.
	require.Equal(t, 1, e.PendingCount())
	assert.Equal(t, 5, e.PendingItems()[0].Quantity)
}

func TestReplay_QueuedUpdateForMissingDocumentIsDropped(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.snap.Seed(model.Item{ID: "srv-gone", Name: "Milk", Quantity: 1, UnitPrice: 1, Total: 1})
	require.NoError(t, e.Load(ctx, false))

	_, err := e.Update(ctx, "srv-gone", "Milk", 2, 1)
	require.NoError(t, err)
	require.Equal(t, 1, e.PendingCount())

	// The document never existed remotely: NotFound, success-equivalent.
	e.SetOnline(true)
	e.Drain(ctx)

	assert.Zero(t, e.PendingCount(), "NotFound records must not retry forever")
}

func TestReplay_CoalescedOfflineEdits_SingleCreate(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	item, err := e.Add(ctx, "Milk", 2, 3.50)
	require.NoError(t, err)
	_, err = e.Update(ctx, item.ID, "Oat Milk", 1, 4.00)
	require.NoError(t, err)
	_, err = e.Toggle(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, 1, e.PendingCount(), "overlapping offline edits fold to one record")

	e.SetOnline(true)
	e.Drain(ctx)

	require.Len(t, e.rem.CreateCalls(), 1, "desired end state syncs in one create")
	doc, ok := e.rem.Get("srv-1")
	require.True(t, ok)
	assert.Equal(t, "Oat Milk", doc.Name)
	assert.Equal(t, 4.0, doc.Total)
	assert.True(t, doc.Completed)
}
