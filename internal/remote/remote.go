// Package remote defines the boundary to the remote document store and its
// HTTP implementation.
//
// The adapter is deliberately thin: it performs exactly one attempt per
// call and never retries internally. Retry policy lives entirely in the
// reconciliation engine's pending queue.
package remote

import (
	"context"
	"errors"

	"github.com/rowanfield/cartsync/internal/model"
)

// ErrUnavailable indicates a network or service failure. Retryable: the
// engine queues the mutation and replays it on the next online transition.
var ErrUnavailable = errors.New("remote store unavailable")

// ErrNotFound indicates the target document does not exist on update or
// delete. Non-retryable: the engine treats it as success-equivalent.
var ErrNotFound = errors.New("remote document not found")

// Store is the remote document store boundary. Documents live in a single
// collection keyed by a server-assigned id; the payload is the item minus
// its id (the id is the document key).
//
// All operations take a context and may fail transiently with
// ErrUnavailable. None of them retry.
type Store interface {
	// Create stores a new document and returns the server-assigned id.
	// The item's ID field is ignored.
	Create(ctx context.Context, item model.Item) (string, error)

	// Update replaces the non-key fields of the document with the given id.
	Update(ctx context.Context, id string, item model.Item) error

	// Delete removes the document with the given id.
	Delete(ctx context.Context, id string) error

	// ListAll returns every document in the collection, ids populated.
	ListAll(ctx context.Context) ([]model.Item, error)
}
