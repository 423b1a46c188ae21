package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"fattura/internal/core"
	"fattura/internal/draft"

	_ "modernc.org/sqlite"
)

// Repository persists draft snapshots in a local SQLite file: one row per
// storage key, overwritten on every save. This is the device-local
// equivalent of the browser profile storage the editor relies on.
type Repository struct {
	db  *sql.DB
	key string
}

func NewRepository(dbPath, key string) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db, key: key}, nil
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements draft.Reader. A missing row means no saved draft; a row
// whose payload no longer parses is logged and reported as absent too, so
// the editor falls back to defaults instead of erroring.
func (r *Repository) Load(ctx context.Context) (core.Draft, bool, error) {
	payload, ok, err := r.LoadPayload(ctx, r.key)
	if err != nil {
		return core.Draft{}, false, err
	}
	if !ok {
		return core.Draft{}, false, nil
	}
	d, err := draft.DecodeSnapshot(payload)
	if err != nil {
		slog.WarnContext(ctx, "Stored snapshot is malformed, treating as absent", "error", err, "key", r.key)
		return core.Draft{}, false, nil
	}
	return d, true, nil
}

// Save implements draft.Writer by upserting the single snapshot row.
func (r *Repository) Save(ctx context.Context, d core.Draft) error {
	payload, err := draft.EncodeSnapshot(d)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, schema_version)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			schema_version = excluded.schema_version,
			updated_at = CURRENT_TIMESTAMP`,
		r.key, string(payload), core.SchemaVersion)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	slog.DebugContext(ctx, "Snapshot saved", "key", r.key, "bytes", len(payload), "items", len(d.Items))
	return nil
}

// LoadPayload returns the raw stored payload for a key. The archiver uses
// it to export snapshots without re-encoding them.
func (r *Repository) LoadPayload(ctx context.Context, key string) ([]byte, bool, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select snapshot: %w", err)
	}
	return []byte(payload), true, nil
}
