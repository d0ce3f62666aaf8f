package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanfield/cartsync/internal/model"
)

func TestPendingQueue_UpsertDedupesByID(t *testing.T) {
	q := newPendingQueue()

	q.upsert(model.Item{ID: "a", Name: "Milk"}, 1)
	q.upsert(model.Item{ID: "b", Name: "Eggs"}, 2)
	q.upsert(model.Item{ID: "a", Name: "Oat Milk"}, 3)

	require.Equal(t, 2, q.len(), "later snapshot for the same id supersedes, never appends")

	items := q.items()
	assert.Equal(t, "a", items[0].ID, "superseded record keeps its queue position")
	assert.Equal(t, "Oat Milk", items[0].Name, "queue holds the latest snapshot")
	assert.Equal(t, "b", items[1].ID)
}

func TestPendingQueue_UpsertIgnoresStaleSeq(t *testing.T) {
	q := newPendingQueue()
	q.upsert(model.Item{ID: "a", Name: "Newer"}, 5)
	q.upsert(model.Item{ID: "a", Name: "Older"}, 2)

	require.Equal(t, 1, q.len())
	assert.Equal(t, "Newer", q.items()[0].Name, "a stale snapshot must not clobber a newer record")
}

func TestPendingQueue_RemoveOlder(t *testing.T) {
	q := newPendingQueue()
	q.upsert(model.Item{ID: "a", Name: "Milk"}, 3)

	assert.False(t, q.removeOlder("a", 3), "equal seq is not older")
	assert.False(t, q.removeOlder("missing", 9))
	require.Equal(t, 1, q.len())

	assert.True(t, q.removeOlder("a", 4))
	assert.Equal(t, 0, q.len())
}

func TestPendingQueue_RemoveIf(t *testing.T) {
	q := newPendingQueue()
	q.upsert(model.Item{ID: "a", Name: "Milk"}, 1)

	assert.False(t, q.removeIf("a", 99), "stale seq must not remove a superseding record")
	assert.Equal(t, 1, q.len())

	assert.True(t, q.removeIf("a", 1))
	assert.Equal(t, 0, q.len())

	assert.False(t, q.removeIf("missing", 1))
}

func TestPendingQueue_Purge(t *testing.T) {
	q := newPendingQueue()
	q.upsert(model.Item{ID: "a", Name: "Milk"}, 1)
	q.upsert(model.Item{ID: "b", Name: "Eggs"}, 2)

	assert.True(t, q.purge("a"))
	assert.False(t, q.purge("a"))
	require.Equal(t, 1, q.len())
	assert.Equal(t, "b", q.items()[0].ID)
}

func TestPendingQueue_Rename(t *testing.T) {
	q := newPendingQueue()
	q.upsert(model.Item{ID: "local-x", Name: "Milk"}, 1)
	q.upsert(model.Item{ID: "b", Name: "Eggs"}, 2)

	q.rename("local-x", "srv-1")

	items := q.items()
	assert.Equal(t, "srv-1", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestPendingQueue_SnapshotIsUnaliased(t *testing.T) {
	q := newPendingQueue()
	q.upsert(model.Item{ID: "a", Name: "Milk"}, 1)

	snap := q.snapshot()
	q.upsert(model.Item{ID: "a", Name: "Changed"}, 2)

	assert.Equal(t, "Milk", snap[0].Item.Name, "snapshot must not see later mutations")
}

func TestTaskQueue_FIFO(t *testing.T) {
	q := newTaskQueue()

	require.True(t, q.Enqueue(task{Kind: taskRemoteDelete, ID: "a"}))
	require.True(t, q.Enqueue(task{Kind: taskRemoteDelete, ID: "b"}))

	t1, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "a", t1.ID)

	t2, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, "b", t2.ID)

	_, ok = q.TryDequeue()
	assert.False(t, ok)
}

func TestTaskQueue_EnqueueAfterClose(t *testing.T) {
	q := newTaskQueue()
	q.Close()
	q.Close() // idempotent

	assert.False(t, q.Enqueue(task{Kind: taskReplay}))
	assert.Equal(t, 0, q.Len())
}

func TestTaskQueue_SignalCoalesces(t *testing.T) {
	q := newTaskQueue()

	q.Enqueue(task{Kind: taskReplay})
	q.Enqueue(task{Kind: taskReplay})
	q.Enqueue(task{Kind: taskReplay})

	// One buffered signal is enough: the loop drains via TryDequeue.
	<-q.Wait()
	assert.Equal(t, 3, q.Len())
}
