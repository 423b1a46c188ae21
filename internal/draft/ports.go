package draft

import (
	"context"

	"fattura/internal/core"
)

// Ports for snapshot storage adapters.
type (
	// Reader returns the last persisted snapshot. ok is false when no
	// snapshot exists; a malformed stored payload is also reported as
	// absent, never as an error to the editing path.
	Reader interface {
		Load(ctx context.Context) (d core.Draft, ok bool, err error)
	}

	// Writer persists the full draft under the store's fixed key,
	// overwriting any prior value.
	Writer interface {
		Save(ctx context.Context, d core.Draft) error
	}

	// Store combines both sides for adapters that offer them together.
	Store interface {
		Reader
		Writer
	}
)
