package transfer

import (
	"context"
	"log/slog"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/registry"
)

// Result describes a completed gift
type Result struct {
	Amount            int64
	SenderBalance     int64
	TargetBalance     int64
	TargetDisplayName string
}

// Service moves gold between players
type Service struct {
	store  *registry.Store
	logger *slog.Logger
}

// New creates a new TransferService
func New(store *registry.Store, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// Gift moves amount gold from sender to target. Both balances change together
// or not at all; validation failures write nothing.
func (s *Service) Gift(ctx context.Context, sender, target model.PlayerID, amount int64) (*Result, error) {
	if !s.store.Exists(sender) || !s.store.Exists(target) {
		return nil, model.ErrNotRegistered
	}
	if amount <= 0 {
		return nil, model.ErrInvalidAmount
	}
	if sender == target {
		return nil, model.ErrInvalidTarget
	}

	var res Result
	err := s.store.UpdatePair(sender, target, func(from, to *model.PlayerRecord) error {
		if from.Gold < amount {
			return model.ErrInsufficientFunds
		}
		from.Gold -= amount
		to.Gold += amount
		res = Result{
			Amount:        amount,
			SenderBalance: from.Gold,
			TargetBalance: to.Gold,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res.TargetDisplayName, _ = s.store.DisplayName(target)

	s.logger.Info("gold gifted",
		slog.Int64("sender_id", int64(sender)),
		slog.Int64("target_id", int64(target)),
		slog.Int64("amount", amount),
	)

	s.store.Persist(ctx)
	return &res, nil
}
