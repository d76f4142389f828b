package factory

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/storage/memory"
	"github.com/mcoot/demonkingdom/internal/testutil"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: register, fight, gift, then restart from the saved snapshot
func (s *IntegrationSuite) TestPlayerLifecycleSurvivesRestart() {
	// Step 1: Two players register
	_, created := s.app.KingdomController.Register(s.ctx, 1, "Alice")
	s.Require().True(created)
	_, created = s.app.KingdomController.Register(s.ctx, 2, "Bob")
	s.Require().True(created)

	// Step 2: Alice allies with Bob and wins a battle
	s.Require().NoError(s.app.Store.Update(1, func(rec *model.PlayerRecord) error {
		rec.Gold = 400
		return nil
	}))
	_, err := s.app.KingdomController.AddAlly(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.app.MockRandom.QueueDefense(50)
	outcome, err := s.app.BattleResolver.ResolveCollaborationBattle(s.ctx, 1)
	s.Require().NoError(err)
	s.True(outcome.Won)
	s.Equal(1, outcome.AllyCount)

	// Step 3: Alice gifts Bob some of her winnings
	res, err := s.app.TransferService.Gift(s.ctx, 1, 2, 60)
	s.Require().NoError(err)
	s.Equal(int64(390), res.SenderBalance)
	s.Equal(int64(160), res.TargetBalance)

	// Step 4: Final save on shutdown
	s.Require().NoError(s.app.Scheduler.Shutdown(s.ctx))
	s.Equal(s.app.MockClock.Now(), s.app.Scheduler.LastSave())

	// Step 5: A new process over the same storage sees the same state
	restarted := newWithDependencies(s.app.MemoryStorage, s.app.MockClock, s.app.MockRandom,
		Config{PrivilegedID: TestPrivilegedID}, testutil.NopLogger())
	s.Require().NoError(restarted.Store.Load(s.ctx))

	alice, err := restarted.KingdomController.Status(1)
	s.Require().NoError(err)
	s.Equal("Alice", alice.DisplayName)
	s.Equal(int64(390), alice.Gold)
	s.Equal(int64(50), alice.Exp)
	s.Equal([]model.PlayerID{2}, alice.Allies)
}

func (s *IntegrationSuite) TestPrivilegedPlayerSelectedByID() {
	rec, _ := s.app.KingdomController.Register(s.ctx, TestPrivilegedID, "God")
	s.True(rec.IsPrivileged())

	rec, _ = s.app.KingdomController.Register(s.ctx, 5, "Mortal")
	s.False(rec.IsPrivileged())
}

func (s *IntegrationSuite) TestNewWithFileStorage() {
	app, err := New(Config{StorageType: StorageTypeFile, DataDir: "/data", Fs: afero.NewMemMapFs()})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	app.KingdomController.Register(s.ctx, 1, "Alice")
	s.Require().NoError(app.Store.Save(s.ctx))
}

func (s *IntegrationSuite) TestNewWithMemoryStorage() {
	app, err := New(Config{StorageType: StorageTypeMemory})
	s.Require().NoError(err)
	s.IsType(&memory.Storage{}, app.Storage)
}

func (s *IntegrationSuite) TestNewRejectsBadStorageConfig() {
	_, err := New(Config{StorageType: "floppy"})
	s.Error(err)

	_, err = New(Config{StorageType: StorageTypeRedis})
	s.Error(err)

	_, err = New(Config{StorageType: StorageTypeSQLite})
	s.Error(err)
}

func (s *IntegrationSuite) TestNewWithSQLiteStorage() {
	app, err := New(Config{StorageType: StorageTypeSQLite, SQLitePath: ":memory:"})
	s.Require().NoError(err)
	defer func() { _ = app.Close() }()

	app.KingdomController.Register(s.ctx, 1, "Alice")
	s.Require().NoError(app.Store.Save(s.ctx))
	s.Require().NoError(app.Store.Load(s.ctx))
	s.True(app.Store.Exists(1))
}

func (s *IntegrationSuite) TestUnreadableBackendStartsEmptyUnlessStrict() {
	s.app.KingdomController.Register(s.ctx, 1, "Alice")
	s.app.MemoryStorage.FailReads(errors.New("connection refused"))

	s.Require().NoError(s.app.Store.Load(s.ctx))
	s.Zero(s.app.Store.Count())

	strict := NewTestAppWithConfig(Config{StrictLoad: true})
	strict.MemoryStorage.FailReads(errors.New("connection refused"))
	s.ErrorIs(strict.Store.Load(s.ctx), model.ErrPersistenceUnavailable)
}
