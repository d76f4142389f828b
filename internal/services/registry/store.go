package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/progression"
	"github.com/mcoot/demonkingdom/internal/storage"
	"github.com/mcoot/demonkingdom/internal/storage/snapshot"
)

// UnknownDisplayName is used when a player registers without a name or a
// loaded record has no directory entry
const UnknownDisplayName = "unknown"

// Store owns every player record and the id → name directory.
// All access goes through one lock; snapshot writes are serialized by a second.
type Store struct {
	mu      sync.Mutex
	records map[model.PlayerID]*model.PlayerRecord
	names   map[model.PlayerID]string

	saveMu sync.Mutex

	storage      storage.Storage
	engine       *progression.Engine
	privilegedID model.PlayerID
	strictLoad   bool
	logger       *slog.Logger
}

// New creates an empty Store. privilegedID selects the single privileged
// player; zero means nobody is privileged.
func New(
	storage storage.Storage,
	engine *progression.Engine,
	privilegedID model.PlayerID,
	logger *slog.Logger,
) *Store {
	return &Store{
		records:      make(map[model.PlayerID]*model.PlayerRecord),
		names:        make(map[model.PlayerID]string),
		storage:      storage,
		engine:       engine,
		privilegedID: privilegedID,
		logger:       logger,
	}
}

// SetStrictLoad makes Load return ErrPersistenceUnavailable when the backend
// cannot be read, instead of starting empty
func (s *Store) SetStrictLoad(strict bool) {
	s.strictLoad = strict
}

// KindOf returns the rule branch for id
func (s *Store) KindOf(id model.PlayerID) model.PlayerKind {
	if s.privilegedID != 0 && id == s.privilegedID {
		return model.KindPrivileged
	}
	return model.KindStandard
}

// Get returns a copy of the player's record
func (s *Store) Get(id model.PlayerID) (*model.PlayerRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, model.ErrNotRegistered
	}
	return rec.Clone(), nil
}

// DisplayName returns the name captured at registration
func (s *Store) DisplayName(id model.PlayerID) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.names[id]
	if !ok {
		return "", model.ErrNotRegistered
	}
	return name, nil
}

// Exists reports whether id is registered
func (s *Store) Exists(id model.PlayerID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[id]
	return ok
}

// Registered filters ids down to registered players, keeping order
func (s *Store) Registered(ids []model.PlayerID) []model.PlayerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.PlayerID, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Count returns the number of registered players
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Register creates the starting record for id. Registering an existing id
// returns the current record with created=false and changes nothing.
func (s *Store) Register(ctx context.Context, id model.PlayerID, displayName string) (*model.PlayerRecord, bool) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = UnknownDisplayName
	}

	s.mu.Lock()
	if existing, ok := s.records[id]; ok {
		rec := existing.Clone()
		s.mu.Unlock()
		return rec, false
	}
	kind := s.KindOf(id)
	rec := s.engine.StartingRecord(id, kind, displayName)
	s.records[id] = rec
	s.names[id] = displayName
	out := rec.Clone()
	s.mu.Unlock()

	s.logger.Info("player registered",
		slog.Int64("player_id", int64(id)),
		slog.String("display_name", displayName),
		slog.String("kind", string(kind)),
	)

	s.Persist(ctx)
	return out, true
}

// Update runs fn on a copy of the player's record and commits the copy only
// when fn returns nil
func (s *Store) Update(id model.PlayerID, fn func(rec *model.PlayerRecord) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return model.ErrNotRegistered
	}
	working := rec.Clone()
	if err := fn(working); err != nil {
		return err
	}
	s.records[id] = working
	return nil
}

// UpdatePair is Update for two distinct players; both records commit or neither does
func (s *Store) UpdatePair(a, b model.PlayerID, fn func(a, b *model.PlayerRecord) error) error {
	if a == b {
		return model.ErrInvalidTarget
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recA, okA := s.records[a]
	recB, okB := s.records[b]
	if !okA || !okB {
		return model.ErrNotRegistered
	}
	workA, workB := recA.Clone(), recB.Clone()
	if err := fn(workA, workB); err != nil {
		return err
	}
	s.records[a] = workA
	s.records[b] = workB
	return nil
}

// Save writes both snapshots. State is encoded under the store lock and
// written outside it.
func (s *Store) Save(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	players, err := snapshot.EncodePlayers(s.records)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encoding players: %w", err)
	}
	names, err := snapshot.EncodeRegisteredUsers(s.names)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding registered users: %w", err)
	}

	err = s.storage.WriteSnapshots(ctx, map[storage.SnapshotKind][]byte{
		storage.SnapshotPlayers:         players,
		storage.SnapshotRegisteredUsers: names,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrPersistenceUnavailable, err)
	}
	return nil
}

// Persist saves and logs a failure instead of returning it. Command paths use
// it so the mutation stands and the next autosave retries.
func (s *Store) Persist(ctx context.Context) {
	if err := s.Save(ctx); err != nil {
		s.logger.Error("failed to persist player state",
			slog.String("error", err.Error()),
		)
	}
}

// Load replaces the in-memory state with the stored snapshots. Missing,
// corrupt or unreadable snapshots load as empty. A failing backend is an
// error only in strict mode.
func (s *Store) Load(ctx context.Context) error {
	records, err := s.loadPlayers(ctx)
	if err != nil {
		return err
	}
	names, err := s.loadNames(ctx)
	if err != nil {
		return err
	}

	for id, rec := range records {
		if kind := s.KindOf(id); rec.Kind != kind {
			s.logger.Warn("player kind changed on load",
				slog.Int64("player_id", int64(id)),
				slog.String("stored", string(rec.Kind)),
				slog.String("kind", string(kind)),
			)
			rec.Kind = kind
		}
		if _, ok := names[id]; !ok {
			s.logger.Warn("loaded player has no display name",
				slog.Int64("player_id", int64(id)),
			)
			names[id] = UnknownDisplayName
		}
	}
	for id := range names {
		if _, ok := records[id]; !ok {
			s.logger.Warn("dropping display name without player record",
				slog.Int64("player_id", int64(id)),
			)
			delete(names, id)
		}
	}

	s.mu.Lock()
	s.records = records
	s.names = names
	s.mu.Unlock()

	s.logger.Info("player state loaded",
		slog.Int("player_count", len(records)),
	)
	return nil
}

func (s *Store) loadPlayers(ctx context.Context) (map[model.PlayerID]*model.PlayerRecord, error) {
	empty := make(map[model.PlayerID]*model.PlayerRecord)

	data, err := s.storage.ReadSnapshot(ctx, storage.SnapshotPlayers)
	if errors.Is(err, model.ErrSnapshotNotFound) {
		s.logger.Info("no player snapshot found, starting empty")
		return empty, nil
	}
	if err != nil {
		return unreadableValue(s, empty, fmt.Errorf("%w: reading players: %w", model.ErrPersistenceUnavailable, err))
	}

	records, backfilled, err := snapshot.DecodePlayers(data)
	if err != nil {
		s.logger.Error("player snapshot is corrupt, starting empty",
			slog.String("error", err.Error()),
		)
		return empty, nil
	}
	if backfilled > 0 {
		s.logger.Info("migrated player records from an older schema",
			slog.Int("migrated", backfilled),
		)
	}
	return records, nil
}

func (s *Store) loadNames(ctx context.Context) (map[model.PlayerID]string, error) {
	empty := make(map[model.PlayerID]string)

	data, err := s.storage.ReadSnapshot(ctx, storage.SnapshotRegisteredUsers)
	if errors.Is(err, model.ErrSnapshotNotFound) {
		return empty, nil
	}
	if err != nil {
		return unreadableValue(s, empty, fmt.Errorf("%w: reading registered users: %w", model.ErrPersistenceUnavailable, err))
	}

	names, err := snapshot.DecodeRegisteredUsers(data)
	if err != nil {
		s.logger.Error("registered users snapshot is corrupt, ignoring it",
			slog.String("error", err.Error()),
		)
		return empty, nil
	}
	return names, nil
}

// unreadableValue handles a backend read failure: an error in strict mode,
// otherwise the empty value so the process can still start
func unreadableValue[T any](s *Store, empty T, err error) (T, error) {
	if s.strictLoad {
		var zero T
		return zero, err
	}
	s.logger.Error("snapshot backend unreadable, starting empty",
		slog.String("error", err.Error()),
	)
	return empty, nil
}
