// Package file stores snapshots as JSON documents in a data directory
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/storage"
)

var fileNames = map[storage.SnapshotKind]string{
	storage.SnapshotPlayers:         "player_data.json",
	storage.SnapshotRegisteredUsers: "registered_users.json",
}

// Storage is a filesystem-backed implementation of the storage interface
type Storage struct {
	fs  afero.Fs
	dir string
}

// New creates a file storage rooted at dir on the OS filesystem
func New(dir string) (*Storage, error) {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs creates a file storage on an arbitrary filesystem (for testing)
func NewWithFs(fs afero.Fs, dir string) (*Storage, error) {
	if ok, _ := afero.DirExists(fs, dir); !ok {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data dir %s: %w", dir, err)
		}
	}
	return &Storage{fs: fs, dir: dir}, nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Path returns where a snapshot kind is stored
func (s *Storage) Path(kind storage.SnapshotKind) string {
	return filepath.Join(s.dir, fileNames[kind])
}

func (s *Storage) ReadSnapshot(ctx context.Context, kind storage.SnapshotKind) ([]byte, error) {
	if _, ok := fileNames[kind]; !ok {
		return nil, fmt.Errorf("unknown snapshot kind %q", kind)
	}
	data, err := afero.ReadFile(s.fs, s.Path(kind))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, model.ErrSnapshotNotFound
		}
		return nil, err
	}
	return data, nil
}

// WriteSnapshots writes every temp file first and only renames once all of
// them are on disk, so a failed write leaves the previous snapshots intact.
func (s *Storage) WriteSnapshots(ctx context.Context, snapshots map[storage.SnapshotKind][]byte) error {
	staged := make(map[string]string, len(snapshots))
	cleanup := func() {
		for tmp := range staged {
			_ = s.fs.Remove(tmp)
		}
	}

	for kind, data := range snapshots {
		if _, ok := fileNames[kind]; !ok {
			cleanup()
			return fmt.Errorf("unknown snapshot kind %q", kind)
		}
		path := s.Path(kind)
		tmp := path + ".tmp"
		if err := afero.WriteFile(s.fs, tmp, data, 0o644); err != nil {
			cleanup()
			return fmt.Errorf("writing %s: %w", tmp, err)
		}
		staged[tmp] = path
	}

	for tmp, path := range staged {
		if err := s.fs.Rename(tmp, path); err != nil {
			cleanup()
			return fmt.Errorf("renaming %s: %w", tmp, err)
		}
		delete(staged, tmp)
	}
	return nil
}

func (s *Storage) Close() error {
	return nil
}
