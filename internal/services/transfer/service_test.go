package transfer

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/progression"
	"github.com/mcoot/demonkingdom/internal/services/registry"
	"github.com/mcoot/demonkingdom/internal/storage/memory"
	"github.com/mcoot/demonkingdom/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	store   *registry.Store
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.store = registry.New(s.storage, progression.New(), 0, logger)
	s.service = New(s.store, logger)
	s.ctx = context.Background()
}

func (s *ServiceSuite) registerWithGold(id model.PlayerID, name string, gold int64) {
	_, _ = s.store.Register(s.ctx, id, name)
	s.Require().NoError(s.store.Update(id, func(rec *model.PlayerRecord) error {
		rec.Gold = gold
		return nil
	}))
}

func (s *ServiceSuite) gold(id model.PlayerID) int64 {
	rec, err := s.store.Get(id)
	s.Require().NoError(err)
	return rec.Gold
}

func (s *ServiceSuite) TestGiftMovesGold() {
	s.registerWithGold(1, "Alice", 100)
	s.registerWithGold(2, "Bob", 50)

	res, err := s.service.Gift(s.ctx, 1, 2, 30)
	s.Require().NoError(err)

	s.Equal(int64(30), res.Amount)
	s.Equal(int64(70), res.SenderBalance)
	s.Equal(int64(80), res.TargetBalance)
	s.Equal("Bob", res.TargetDisplayName)
	s.Equal(int64(70), s.gold(1))
	s.Equal(int64(80), s.gold(2))
}

func (s *ServiceSuite) TestGiftEntireBalance() {
	s.registerWithGold(1, "Alice", 100)
	s.registerWithGold(2, "Bob", 0)

	_, err := s.service.Gift(s.ctx, 1, 2, 100)
	s.Require().NoError(err)

	s.Zero(s.gold(1))
	s.Equal(int64(100), s.gold(2))
}

func (s *ServiceSuite) TestInvalidAmountChangesNothing() {
	s.registerWithGold(1, "Alice", 100)
	s.registerWithGold(2, "Bob", 50)
	writes := s.storage.Writes()

	for _, amount := range []int64{0, -5} {
		_, err := s.service.Gift(s.ctx, 1, 2, amount)
		s.ErrorIs(err, model.ErrInvalidAmount)
	}

	s.Equal(int64(100), s.gold(1))
	s.Equal(int64(50), s.gold(2))
	s.Equal(writes, s.storage.Writes())
}

func (s *ServiceSuite) TestInsufficientFunds() {
	s.registerWithGold(1, "Alice", 10)
	s.registerWithGold(2, "Bob", 50)
	writes := s.storage.Writes()

	_, err := s.service.Gift(s.ctx, 1, 2, 11)

	s.ErrorIs(err, model.ErrInsufficientFunds)
	s.Equal(int64(10), s.gold(1))
	s.Equal(int64(50), s.gold(2))
	s.Equal(writes, s.storage.Writes())
}

func (s *ServiceSuite) TestUnregisteredParties() {
	s.registerWithGold(1, "Alice", 100)

	_, err := s.service.Gift(s.ctx, 1, 2, 10)
	s.ErrorIs(err, model.ErrNotRegistered)

	_, err = s.service.Gift(s.ctx, 3, 1, 10)
	s.ErrorIs(err, model.ErrNotRegistered)

	s.Equal(int64(100), s.gold(1))
}

func (s *ServiceSuite) TestGiftToSelfRejected() {
	s.registerWithGold(1, "Alice", 100)

	_, err := s.service.Gift(s.ctx, 1, 1, 10)

	s.ErrorIs(err, model.ErrInvalidTarget)
	s.Equal(int64(100), s.gold(1))
}

func (s *ServiceSuite) TestGiftPersists() {
	s.registerWithGold(1, "Alice", 100)
	s.registerWithGold(2, "Bob", 50)
	writes := s.storage.Writes()

	_, err := s.service.Gift(s.ctx, 1, 2, 1)
	s.Require().NoError(err)

	s.Equal(writes+1, s.storage.Writes())
}

func (s *ServiceSuite) TestConcurrentGiftsConserveGold() {
	s.registerWithGold(1, "Alice", 500)
	s.registerWithGold(2, "Bob", 500)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = s.service.Gift(s.ctx, 1, 2, 7)
			} else {
				_, _ = s.service.Gift(s.ctx, 2, 1, 3)
			}
		}()
	}
	wg.Wait()

	s.Equal(int64(1000), s.gold(1)+s.gold(2))
}
