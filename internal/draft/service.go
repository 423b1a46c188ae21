package draft

import (
	"context"
	"log/slog"
	"sync/atomic"

	"fattura/internal/core"
)

// SnapshotPublisher notifies external consumers that a snapshot was
// written. Publishing is best-effort and never fails a save.
type SnapshotPublisher interface {
	PublishSnapshotSaved(ctx context.Context, key string, revision int64) error
}

// Service owns the editing path around the snapshot store: it restores the
// last snapshot on load and mirrors every mutation back to storage. No
// operation on it is fatal; storage trouble degrades to defaults (reads)
// or an in-memory-only draft (writes).
type Service struct {
	store     Store
	publisher SnapshotPublisher // nil when AMQP is not configured
	key       string

	// revision counts saves within this process; used for cache
	// invalidation and snapshot events.
	revision atomic.Int64
}

func NewService(store Store, publisher SnapshotPublisher, key string) *Service {
	return &Service{store: store, publisher: publisher, key: key}
}

// Current returns the draft to edit: the last persisted snapshot when one
// exists and parses, the documented defaults otherwise. It never fails.
func (s *Service) Current(ctx context.Context) core.Draft {
	d, ok, err := s.store.Load(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Draft load failed, using defaults", "error", err, "key", s.key)
		return core.NewDraft()
	}
	if !ok {
		slog.DebugContext(ctx, "No saved draft, using defaults", "key", s.key)
		return core.NewDraft()
	}
	return d
}

// Save persists the full draft, overwriting the previous snapshot. Write
// failures are logged and swallowed: the draft lives on in memory and the
// next mutation simply tries again. Returns the process-local revision.
func (s *Service) Save(ctx context.Context, d core.Draft) int64 {
	rev := s.revision.Add(1)
	if err := s.store.Save(ctx, d); err != nil {
		slog.ErrorContext(ctx, "Draft save failed, keeping in-memory state", "error", err, "key", s.key, "revision", rev)
		return rev
	}
	if s.publisher != nil {
		if err := s.publisher.PublishSnapshotSaved(ctx, s.key, rev); err != nil {
			slog.ErrorContext(ctx, "Snapshot event publish failed", "error", err, "key", s.key, "revision", rev)
		}
	}
	return rev
}

// Revision returns the current save counter.
func (s *Service) Revision() int64 {
	return s.revision.Load()
}
