package battle

import (
	"context"
	"log/slog"

	"github.com/mcoot/demonkingdom/internal/dependencies/random"
	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/progression"
	"github.com/mcoot/demonkingdom/internal/services/registry"
)

// Battle tuning
const (
	MinEnemyDefense = 50
	MaxEnemyDefense = 300

	// BattleMagicPercentage scales the magic bonus in a collaboration battle
	BattleMagicPercentage = 50

	WinExp  = 50
	WinGold = 50
)

// Outcome describes one resolved collaboration battle
type Outcome struct {
	Attack     int64
	Defense    int64
	Won        bool
	AllyCount  int
	OldGold    int64
	NewGold    int64
	OldHP      int64
	NewHP      int64
	ExpGained  int64
	GoldGained int64
	LeveledUp  bool
	NewLevel   int64
}

// Resolver runs collaboration battles against a random enemy
type Resolver struct {
	store  *registry.Store
	engine *progression.Engine
	random random.Random
	logger *slog.Logger
}

// New creates a new BattleResolver
func New(store *registry.Store, engine *progression.Engine, random random.Random, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		engine: engine,
		random: random,
		logger: logger,
	}
}

// CollaborativeAttack combines the actor's own power, its magic bonus at
// magicPct percent and half of each ally's power. The result is floored.
func (r *Resolver) CollaborativeAttack(actor *model.PlayerRecord, allies []*model.PlayerRecord, magicPct int64) int64 {
	base := actor.Level*10 + actor.Gold/10
	powers := int64(len(r.engine.UnlockedMagicPowers(actor)))

	var allySum int64
	for _, ally := range allies {
		allySum += ally.Level*8 + ally.Gold/12
	}

	// tenths: magic bonus is powers*pct/10 and ally share is allySum/2
	return (base*10 + powers*magicPct + allySum*5) / 10
}

// ResolveCollaborationBattle fights one battle for the player and its
// registered allies. Only the acting player's record changes.
func (r *Resolver) ResolveCollaborationBattle(ctx context.Context, id model.PlayerID) (*Outcome, error) {
	actor, err := r.store.Get(id)
	if err != nil {
		return nil, err
	}

	allies := make([]*model.PlayerRecord, 0, len(actor.Allies))
	for _, allyID := range r.store.Registered(actor.Allies.Sorted()) {
		ally, err := r.store.Get(allyID)
		if err != nil {
			continue
		}
		allies = append(allies, ally)
	}

	defense := int64(random.Between(r.random, MinEnemyDefense, MaxEnemyDefense))

	var out Outcome
	err = r.store.Update(id, func(rec *model.PlayerRecord) error {
		attack := r.CollaborativeAttack(rec, allies, BattleMagicPercentage)
		out = Outcome{
			Attack:    attack,
			Defense:   defense,
			Won:       attack >= defense,
			AllyCount: len(allies),
			OldGold:   rec.Gold,
			OldHP:     rec.HP,
		}

		if out.Won {
			rec.Exp += WinExp
			rec.Gold += WinGold
			out.ExpGained = WinExp
			out.GoldGained = WinGold
			if rec.Level < model.MaxStandardLevel && rec.Exp >= rec.Level*100 {
				rec.Level++
				out.LeveledUp = true
			}
		} else {
			rec.Gold = max(0, rec.Gold/2)
			rec.HP = max(1, rec.HP/2)
		}

		out.NewGold = rec.Gold
		out.NewHP = rec.HP
		out.NewLevel = rec.Level
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("collaboration battle resolved",
		slog.Int64("player_id", int64(id)),
		slog.Bool("won", out.Won),
		slog.Int64("attack", out.Attack),
		slog.Int64("defense", out.Defense),
		slog.Int("ally_count", out.AllyCount),
		slog.Bool("leveled_up", out.LeveledUp),
	)

	r.store.Persist(ctx)
	return &out, nil
}
