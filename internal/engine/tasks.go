package engine

import (
	"sync"

	"github.com/rowanfield/cartsync/internal/model"
)

// taskKind distinguishes the remote follow-up work dispatched by the
// mutation paths and the connectivity event sink.
type taskKind int

const (
	// taskRemoteUpdate pushes a post-mutation snapshot to the remote store.
	taskRemoteUpdate taskKind = iota + 1
	// taskRemoteDelete removes a remote document. Fire-and-forget: a failed
	// delete is logged, never queued.
	taskRemoteDelete
	// taskReplay walks the pending queue after an offline-to-online
	// transition.
	taskReplay
)

// task is one unit of work for the engine's single-writer loop.
type task struct {
	Kind taskKind
	Item model.Item // taskRemoteUpdate
	Seq  int64      // taskRemoteUpdate: logical clock at dispatch
	ID   string     // taskRemoteDelete
}

// taskQueue is a thread-safe FIFO queue feeding the engine's Run loop.
//
// Thread-safety is needed because mutation callers enqueue from their own
// goroutines while the Run loop dequeues. The queue is unbounded: the
// synchronous mutation phase must never block on a full buffer.
//
// A buffered signal channel enables context-aware waiting in the Run loop.
type taskQueue struct {
	mu     sync.Mutex
	tasks  []task
	closed bool
	signal chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{
		tasks:  make([]task, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds a task to the back of the queue.
// Returns false if the queue is closed.
func (q *taskQueue) Enqueue(t task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.tasks = append(q.tasks, t)

	// Non-blocking signal; the buffer of 1 coalesces multiple signals.
	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue attempts to dequeue without blocking.
func (q *taskQueue) TryDequeue() (task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.tasks) == 0 {
		return task{}, false
	}
	t := q.tasks[0]
	q.tasks[0] = task{} // release references for GC
	if len(q.tasks) == 1 {
		q.tasks = q.tasks[:0]
	} else {
		q.tasks = q.tasks[1:]
	}
	return t, true
}

// Wait returns a channel that signals when tasks may be available. The
// channel closes when the queue closes, waking all waiters.
func (q *taskQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *taskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Close signals that no more tasks will be enqueued.
func (q *taskQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
