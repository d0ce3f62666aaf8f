// Package snapshot provides the local durable cache of the item collection.
//
// The contract is whole-collection: one JSON-serialized array read at
// startup and rewritten after every mutation. There are no partial updates.
// The same store also persists the engine's pending mutation queue so that
// offline edits survive process restarts.
//
// Failures degrade gracefully: a failed load means "no cached data", and
// the engine logs and swallows failed saves (the in-memory collection stays
// authoritative for the running session).
package snapshot
