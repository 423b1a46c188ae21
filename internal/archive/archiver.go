package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fattura/internal/amqp"
)

// PayloadLoader fetches a raw snapshot payload by storage key. The SQLite
// repository satisfies it.
type PayloadLoader interface {
	LoadPayload(ctx context.Context, key string) (payload []byte, ok bool, err error)
}

// Archiver consumes snapshot-saved events and writes each snapshot to a
// timestamped JSON file, keeping a bounded history per key.
type Archiver struct {
	loader PayloadLoader
	dir    string
	keep   int
}

func NewArchiver(loader PayloadLoader, dir string, keep int) *Archiver {
	return &Archiver{loader: loader, dir: dir, keep: keep}
}

// HandleSnapshotSaved processes a single snapshot-saved message.
func (a *Archiver) HandleSnapshotSaved(ctx context.Context, msg *amqp.SnapshotSavedMessage) error {
	payload, ok, err := a.loader.LoadPayload(ctx, msg.Key)
	if err != nil {
		return fmt.Errorf("load payload for %q: %w", msg.Key, err)
	}
	if !ok {
		// The snapshot can be gone by the time we consume the event.
		slog.WarnContext(ctx, "Snapshot missing, skipping archive", "key", msg.Key, "revision", msg.Revision)
		return nil
	}

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}

	name := fmt.Sprintf("%s-%08d-%s.json", msg.Key, msg.Revision, msg.SavedAt.UTC().Format("20060102T150405"))
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return fmt.Errorf("write archive file: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot archived",
		"key", msg.Key,
		"revision", msg.Revision,
		"file", path,
		"bytes", len(payload))
	return nil
}

// Sweep enforces the retention limit, deleting the oldest archive files of
// each key beyond keep. Zero or negative keep disables the sweep.
func (a *Archiver) Sweep(ctx context.Context) error {
	if a.keep <= 0 {
		return nil
	}
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read archive directory: %w", err)
	}

	byKey := make(map[string][]string)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		// <key>-<revision>-<timestamp>.json
		parts := strings.Split(strings.TrimSuffix(e.Name(), ".json"), "-")
		if len(parts) < 3 {
			continue
		}
		key := strings.Join(parts[:len(parts)-2], "-")
		byKey[key] = append(byKey[key], e.Name())
	}

	removed := 0
	for key, names := range byKey {
		if len(names) <= a.keep {
			continue
		}
		// Names sort chronologically: zero-padded revision then timestamp.
		sort.Strings(names)
		for _, name := range names[:len(names)-a.keep] {
			if err := os.Remove(filepath.Join(a.dir, name)); err != nil {
				slog.WarnContext(ctx, "Failed to remove old archive", "error", err, "file", name)
				continue
			}
			removed++
		}
		slog.DebugContext(ctx, "Archive retention applied", "key", key, "kept", a.keep)
	}

	if removed > 0 {
		slog.InfoContext(ctx, "Archive sweep completed", "removed", removed, "keep", a.keep)
	}
	return nil
}

// RunSweeper applies retention on a fixed interval until ctx ends.
func (a *Archiver) RunSweeper(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := a.Sweep(ctx); err != nil {
				slog.ErrorContext(ctx, "Archive sweep failed", "error", err)
			}
		}
	}
}
