// Package sqlite stores snapshots as rows in a SQLite database
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mcoot/demonkingdom/internal/dependencies/clock"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/storage"
)

const schema = `CREATE TABLE IF NOT EXISTS snapshots (
	kind     TEXT PRIMARY KEY,
	data     BLOB NOT NULL,
	saved_at INTEGER NOT NULL
)`

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db    *sql.DB
	clock clock.Clock
}

// Open opens (or creates) the database at path and ensures the schema exists.
// ":memory:" opens a private in-memory database.
func Open(path string, clk clock.Clock) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		dsn = filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one connection keeps ":memory:" databases shared and writes serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshots table: %w", err)
	}
	return &Storage{db: db, clock: clk}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ReadSnapshot(ctx context.Context, kind storage.SnapshotKind) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE kind = ?`, string(kind)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("read snapshot %s: %w", kind, err)
	}
	return data, nil
}

// WriteSnapshots upserts every snapshot in a single transaction
func (s *Storage) WriteSnapshots(ctx context.Context, snapshots map[storage.SnapshotKind][]byte) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	savedAt := s.clock.Now().UTC().UnixMilli()
	for kind, data := range snapshots {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO snapshots (kind, data, saved_at) VALUES (?, ?, ?)
			 ON CONFLICT(kind) DO UPDATE SET data = excluded.data, saved_at = excluded.saved_at`,
			string(kind), data, savedAt,
		)
		if err != nil {
			return fmt.Errorf("write snapshot %s: %w", kind, err)
		}
	}
	return tx.Commit()
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
