package snapshot

import (
	"context"

	"github.com/rowanfield/cartsync/internal/model"
)

// Store is the local snapshot boundary: whole-collection read and write.
type Store interface {
	// Load returns the cached collection. A missing or unreadable cache
	// returns (nil, nil) or an error the caller treats as "no cached data".
	Load(ctx context.Context) ([]model.Item, error)

	// Save replaces the cached collection.
	Save(ctx context.Context, items []model.Item) error
}

// QueueStore persists the pending mutation queue: the post-mutation item
// snapshots awaiting remote application, in enqueue order.
type QueueStore interface {
	LoadQueue(ctx context.Context) ([]model.Item, error)
	SaveQueue(ctx context.Context, items []model.Item) error
}
