// Package engine implements the offline-first reconciliation engine.
//
// The engine owns the authoritative in-memory item collection and a queue
// of pending mutations. Every mutation runs in two phases:
//
//   - Synchronous phase: validate, mutate the in-memory collection, write
//     the local snapshot. This phase never blocks on the network and never
//     fails the operation (snapshot failures are logged and swallowed).
//     The call returns when this phase completes.
//
//   - Remote phase: if the device is online and the item already exists
//     remotely, the corresponding remote operation is dispatched to a
//     single-writer task loop. A failed remote write lands the
//     post-mutation snapshot in the pending queue. Offline mutations, and
//     mutations to items the remote store has never seen, skip the attempt
//     and queue directly.
//
// The pending queue holds desired end state, not diffs: each record is the
// full post-mutation item snapshot, and a later snapshot for the same id
// replaces the earlier one on enqueue. Replay walks the queue on every
// offline-to-online transition, creating documents for local-space ids
// (remapping the id everywhere on success) and updating documents for
// remote-space ids. Records that still fail stay queued until the next
// transition; there is no timer-based retry.
package engine
