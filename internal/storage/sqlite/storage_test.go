package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/demonkingdom/internal/dependencies/mocks"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/storage"
)

type StorageSuite struct {
	suite.Suite
	clock   *mocks.MockClock
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	st, err := Open(":memory:", s.clock)
	s.Require().NoError(err)
	s.storage = st
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	_ = s.storage.Close()
}

func (s *StorageSuite) TestReadMissingSnapshot() {
	_, err := s.storage.ReadSnapshot(s.ctx, storage.SnapshotPlayers)
	s.ErrorIs(err, model.ErrSnapshotNotFound)
}

func (s *StorageSuite) TestWriteAndRead() {
	err := s.storage.WriteSnapshots(s.ctx, map[storage.SnapshotKind][]byte{
		storage.SnapshotPlayers:         []byte(`{"1":{}}`),
		storage.SnapshotRegisteredUsers: []byte(`{"1":"Alice"}`),
	})
	s.Require().NoError(err)

	players, err := s.storage.ReadSnapshot(s.ctx, storage.SnapshotPlayers)
	s.Require().NoError(err)
	s.Equal(`{"1":{}}`, string(players))

	users, err := s.storage.ReadSnapshot(s.ctx, storage.SnapshotRegisteredUsers)
	s.Require().NoError(err)
	s.Equal(`{"1":"Alice"}`, string(users))
}

func (s *StorageSuite) TestUpsertReplacesAndStampsTime() {
	write := func(body string) {
		err := s.storage.WriteSnapshots(s.ctx, map[storage.SnapshotKind][]byte{
			storage.SnapshotPlayers: []byte(body),
		})
		s.Require().NoError(err)
	}
	write(`{"1":{}}`)
	s.clock.Advance(time.Minute)
	write(`{"2":{}}`)

	data, err := s.storage.ReadSnapshot(s.ctx, storage.SnapshotPlayers)
	s.Require().NoError(err)
	s.Equal(`{"2":{}}`, string(data))

	var savedAt int64
	err = s.storage.db.QueryRowContext(s.ctx, `SELECT saved_at FROM snapshots WHERE kind = ?`, string(storage.SnapshotPlayers)).Scan(&savedAt)
	s.Require().NoError(err)
	s.Equal(s.clock.Now().UnixMilli(), savedAt)
}

func (s *StorageSuite) TestOpenRequiresPath() {
	_, err := Open(" ", s.clock)
	s.Error(err)
}
