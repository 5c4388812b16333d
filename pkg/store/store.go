// Package store persists encoded document records.
package store

import (
	"context"
	"errors"

	"github.com/ehollis/lingreader/pkg/document"
)

// ErrNotFound is returned when no record exists for an id, including when
// a stored record turned out to be unreadable.
var ErrNotFound = errors.New("store: document not found")

// Store is the asynchronous key-value document store.
type Store interface {
	Get(ctx context.Context, id string) ([]byte, error)
	Put(ctx context.Context, id string, record []byte) error
	Delete(ctx context.Context, id string) error
	ListMetadata(ctx context.Context) ([]document.Metadata, error)
}
