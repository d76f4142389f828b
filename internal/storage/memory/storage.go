package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	snapshots map[storage.SnapshotKind][]byte
	writes    int
	failWith  error
	readErr   error
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		snapshots: make(map[storage.SnapshotKind][]byte),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ReadSnapshot(ctx context.Context, kind storage.SnapshotKind) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readErr != nil {
		return nil, s.readErr
	}
	data, ok := s.snapshots[kind]
	if !ok {
		return nil, model.ErrSnapshotNotFound
	}
	return slices.Clone(data), nil
}

func (s *Storage) WriteSnapshots(ctx context.Context, snapshots map[storage.SnapshotKind][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failWith != nil {
		return s.failWith
	}
	for kind, data := range snapshots {
		s.snapshots[kind] = slices.Clone(data)
	}
	s.writes++
	return nil
}

func (s *Storage) Close() error {
	return nil
}

// FailWrites makes every subsequent write return err; nil restores normal writes
func (s *Storage) FailWrites(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
}

// FailReads makes every subsequent read return err; nil restores normal reads
func (s *Storage) FailReads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readErr = err
}

// Writes returns the number of successful WriteSnapshots calls
func (s *Storage) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

// Put seeds a raw snapshot, bypassing FailWrites
func (s *Storage) Put(kind storage.SnapshotKind, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[kind] = slices.Clone(data)
}
