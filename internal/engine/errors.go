package engine

import (
	"errors"

	"github.com/rowanfield/cartsync/internal/model"
	"github.com/rowanfield/cartsync/internal/remote"
)

// ErrUnknownItem rejects a mutation targeting an id that is not in the
// in-memory collection. Reported synchronously, like validation failures.
var ErrUnknownItem = errors.New("unknown item id")

// IsRejected reports whether err is a synchronous-phase rejection: either
// a validation failure or an unknown item id. These are the only errors a
// mutation call can return; remote failures never reject the call and are
// observable only through the pending queue.
func IsRejected(err error) bool {
	return model.IsValidation(err) || errors.Is(err, ErrUnknownItem)
}

// retryable reports whether a remote failure should land the mutation in
// the pending queue. ErrNotFound is non-retryable: replaying a write
// against a document that does not exist can never succeed, so it is
// treated as success-equivalent and dropped.
func retryable(err error) bool {
	return !errors.Is(err, remote.ErrNotFound)
}
