package memory

import (
	"context"
	"fmt"
	"sync"

	"fattura/internal/core"
	"fattura/internal/draft"
)

// Store keeps snapshots in process memory, keyed like the SQLite adapter.
// It serializes through the same codec so round-trip behavior is identical;
// used by tests and the DATA_BACKEND=memory mode.
type Store struct {
	mu        sync.Mutex
	key       string
	snapshots map[string][]byte
}

func New(key string) *Store {
	return &Store{key: key, snapshots: make(map[string][]byte)}
}

// Load implements draft.Reader.
func (s *Store) Load(_ context.Context) (core.Draft, bool, error) {
	s.mu.Lock()
	payload, ok := s.snapshots[s.key]
	s.mu.Unlock()
	if !ok {
		return core.Draft{}, false, nil
	}
	d, err := draft.DecodeSnapshot(payload)
	if err != nil {
		// Treat a corrupt payload as no saved draft.
		return core.Draft{}, false, nil
	}
	return d, true, nil
}

// Save implements draft.Writer.
func (s *Store) Save(_ context.Context, d core.Draft) error {
	payload, err := draft.EncodeSnapshot(d)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.mu.Lock()
	s.snapshots[s.key] = payload
	s.mu.Unlock()
	return nil
}

// Corrupt overwrites the stored payload with garbage. Test hook.
func (s *Store) Corrupt() {
	s.mu.Lock()
	s.snapshots[s.key] = []byte("{not json")
	s.mu.Unlock()
}
