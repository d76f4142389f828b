package storage

import (
	"context"
)

// SnapshotKind names one of the two independent full-state snapshots
type SnapshotKind string

const (
	SnapshotPlayers         SnapshotKind = "players"
	SnapshotRegisteredUsers SnapshotKind = "registered_users"
)

// Storage defines the interface for durable snapshot persistence.
// Snapshots are opaque encoded documents overwritten wholesale on every save.
type Storage interface {
	// ReadSnapshot returns model.ErrSnapshotNotFound if the kind was never written
	ReadSnapshot(ctx context.Context, kind SnapshotKind) ([]byte, error)

	// WriteSnapshots replaces every given snapshot; implementations write each
	// document atomically so a crash never leaves a truncated snapshot behind
	WriteSnapshots(ctx context.Context, snapshots map[SnapshotKind][]byte) error

	// Close releases any held resources
	Close() error
}
