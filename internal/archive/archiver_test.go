package archive

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fattura/internal/amqp"
)

type fakeLoader struct {
	payload []byte
	ok      bool
	err     error
}

func (l *fakeLoader) LoadPayload(ctx context.Context, key string) ([]byte, bool, error) {
	return l.payload, l.ok, l.err
}

func msgAt(rev int64) *amqp.SnapshotSavedMessage {
	return &amqp.SnapshotSavedMessage{
		Key:      "invoice-draft",
		Revision: rev,
		SavedAt:  time.Date(2026, 8, 30, 12, 0, int(rev), 0, time.UTC),
	}
}

func TestHandleSnapshotSavedWritesFile(t *testing.T) {
	dir := t.TempDir()
	a := NewArchiver(&fakeLoader{payload: []byte(`{"schemaVersion":1}`), ok: true}, dir, 10)

	if err := a.HandleSnapshotSaved(context.Background(), msgAt(7)); err != nil {
		t.Fatalf("handle: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one archive file, got %d", len(entries))
	}
	name := entries[0].Name()
	if name != "invoice-draft-00000007-20260830T120007.json" {
		t.Fatalf("unexpected file name %q", name)
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != `{"schemaVersion":1}` {
		t.Fatalf("unexpected contents %q", data)
	}
}

func TestHandleSnapshotSavedMissingSnapshot(t *testing.T) {
	dir := t.TempDir()
	a := NewArchiver(&fakeLoader{ok: false}, dir, 10)
	if err := a.HandleSnapshotSaved(context.Background(), msgAt(1)); err != nil {
		t.Fatalf("a missing snapshot should be skipped, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Fatalf("expected no archive files")
	}
}

func TestHandleSnapshotSavedLoaderError(t *testing.T) {
	a := NewArchiver(&fakeLoader{err: errors.New("db locked")}, t.TempDir(), 10)
	if err := a.HandleSnapshotSaved(context.Background(), msgAt(1)); err == nil {
		t.Fatalf("expected the loader error to propagate")
	}
}

func TestSweepRetention(t *testing.T) {
	dir := t.TempDir()
	a := NewArchiver(&fakeLoader{payload: []byte("{}"), ok: true}, dir, 2)

	for rev := int64(1); rev <= 5; rev++ {
		if err := a.HandleSnapshotSaved(context.Background(), msgAt(rev)); err != nil {
			t.Fatalf("handle rev %d: %v", rev, err)
		}
	}
	if err := a.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 kept files, got %d", len(entries))
	}
	// The newest revisions survive.
	for _, e := range entries {
		name := e.Name()
		if name != "invoice-draft-00000004-20260830T120004.json" &&
			name != "invoice-draft-00000005-20260830T120005.json" {
			t.Fatalf("unexpected survivor %q", name)
		}
	}
}

func TestSweepDisabledAndMissingDir(t *testing.T) {
	a := NewArchiver(&fakeLoader{}, filepath.Join(t.TempDir(), "nope"), 0)
	if err := a.Sweep(context.Background()); err != nil {
		t.Fatalf("disabled sweep: %v", err)
	}
	a = NewArchiver(&fakeLoader{}, filepath.Join(t.TempDir(), "nope"), 3)
	if err := a.Sweep(context.Background()); err != nil {
		t.Fatalf("sweep of a missing directory: %v", err)
	}
}
