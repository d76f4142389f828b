package kingdom

import (
	"context"
	"log/slog"
	"maps"
	"slices"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/progression"
	"github.com/mcoot/demonkingdom/internal/services/registry"
)

// Identity is what lookupId reports
type Identity struct {
	ID          model.PlayerID
	DisplayName string
	Kind        model.PlayerKind
}

// Status is a read-only view of a player's kingdom
type Status struct {
	Identity
	Level          int64
	Exp            int64
	HP             int64
	MP             int64
	Gold           int64
	KingdomName    string
	KingdomDefense int64
	DemonsDefeated int64
	Allies         []model.PlayerID
	Enemies        []model.PlayerID
	Inventory      map[string]int64
	ActiveSword    string
}

// Sword is one entry of a sword listing
type Sword struct {
	Key         string
	Description string
	Active      bool
}

// Relations lists a player's allies and enemies
type Relations struct {
	Allies  []model.PlayerID
	Enemies []model.PlayerID
}

// Controller implements the player-facing entry points that are not battles
// or transfers
type Controller struct {
	store  *registry.Store
	engine *progression.Engine
	logger *slog.Logger
}

// NewController creates a new kingdom Controller
func NewController(store *registry.Store, engine *progression.Engine, logger *slog.Logger) *Controller {
	return &Controller{
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// Register creates the player, or returns the existing record with created=false
func (c *Controller) Register(ctx context.Context, id model.PlayerID, displayName string) (*model.PlayerRecord, bool) {
	return c.store.Register(ctx, id, displayName)
}

// LookupID reports the caller's id and registered name
func (c *Controller) LookupID(id model.PlayerID) (*Identity, error) {
	name, err := c.store.DisplayName(id)
	if err != nil {
		return nil, err
	}
	return &Identity{ID: id, DisplayName: name, Kind: c.store.KindOf(id)}, nil
}

// Status returns the player's current stats
func (c *Controller) Status(id model.PlayerID) (*Status, error) {
	rec, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	name, err := c.store.DisplayName(id)
	if err != nil {
		return nil, err
	}
	return &Status{
		Identity:       Identity{ID: id, DisplayName: name, Kind: rec.Kind},
		Level:          rec.Level,
		Exp:            rec.Exp,
		HP:             rec.HP,
		MP:             rec.MP,
		Gold:           rec.Gold,
		KingdomName:    rec.KingdomName,
		KingdomDefense: rec.KingdomDefense,
		DemonsDefeated: rec.DemonsDefeated,
		Allies:         rec.Allies.Sorted(),
		Enemies:        rec.Enemies.Sorted(),
		Inventory:      rec.Inventory,
		ActiveSword:    rec.ActiveSword,
	}, nil
}

// MagicPowers returns the abilities shown to the player. The unlocked set is
// cached on the record and persisted when it changed.
func (c *Controller) MagicPowers(ctx context.Context, id model.PlayerID) ([]string, error) {
	changed := false
	var shown []string
	err := c.store.Update(id, func(rec *model.PlayerRecord) error {
		unlocked := c.engine.UnlockedMagicPowers(rec)
		if !slices.Equal(unlocked, rec.MagicPowers) {
			rec.MagicPowers = unlocked
			changed = true
		}
		shown = c.engine.EffectiveMagicCatalogue(rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		c.store.Persist(ctx)
	}
	return shown, nil
}

// Companions rescales the player's companions to its level, persisting when
// anything changed
func (c *Controller) Companions(ctx context.Context, id model.PlayerID) (map[string]model.Companion, error) {
	changed := false
	var out map[string]model.Companion
	err := c.store.Update(id, func(rec *model.PlayerRecord) error {
		out = c.engine.RecomputeCompanions(rec)
		if !maps.Equal(out, rec.Companions) {
			rec.Companions = maps.Clone(out)
			changed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		c.store.Persist(ctx)
	}
	return out, nil
}

// Swords lists the swords the player can choose from, sorted by key
func (c *Controller) Swords(id model.PlayerID) ([]Sword, error) {
	rec, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	available := c.engine.AvailableSwords(rec)
	out := make([]Sword, 0, len(available))
	for _, key := range slices.Sorted(maps.Keys(available)) {
		out = append(out, Sword{
			Key:         key,
			Description: available[key],
			Active:      key == rec.ActiveSword,
		})
	}
	return out, nil
}

// EquipSword makes key the active sword
func (c *Controller) EquipSword(ctx context.Context, id model.PlayerID, key string) (*Sword, error) {
	err := c.store.Update(id, func(rec *model.PlayerRecord) error {
		if !c.engine.CanEquip(rec, key) {
			return model.ErrUnknownSwordKey
		}
		if !rec.OwnsSword(key) {
			rec.OwnedSwords = append(rec.OwnedSwords, key)
		}
		rec.ActiveSword = key
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("sword equipped",
		slog.Int64("player_id", int64(id)),
		slog.String("sword", key),
	)

	c.store.Persist(ctx)
	return &Sword{Key: key, Description: progression.SwordDescription(key), Active: true}, nil
}

// AddAlly adds target to the player's allies and removes it from its enemies
func (c *Controller) AddAlly(ctx context.Context, id, target model.PlayerID) (*Relations, error) {
	return c.relate(ctx, id, target, "ally added", func(rec *model.PlayerRecord) bool {
		added := rec.Allies.Add(target)
		removed := rec.Enemies.Remove(target)
		return added || removed
	})
}

// RemoveAlly drops target from the player's allies
func (c *Controller) RemoveAlly(ctx context.Context, id, target model.PlayerID) (*Relations, error) {
	return c.relate(ctx, id, target, "ally removed", func(rec *model.PlayerRecord) bool {
		return rec.Allies.Remove(target)
	})
}

// DeclareEnemy adds target to the player's enemies and removes it from its allies
func (c *Controller) DeclareEnemy(ctx context.Context, id, target model.PlayerID) (*Relations, error) {
	return c.relate(ctx, id, target, "enemy declared", func(rec *model.PlayerRecord) bool {
		added := rec.Enemies.Add(target)
		removed := rec.Allies.Remove(target)
		return added || removed
	})
}

// RemoveEnemy drops target from the player's enemies
func (c *Controller) RemoveEnemy(ctx context.Context, id, target model.PlayerID) (*Relations, error) {
	return c.relate(ctx, id, target, "enemy removed", func(rec *model.PlayerRecord) bool {
		return rec.Enemies.Remove(target)
	})
}

// relate applies an alliance change; target must be another registered player
func (c *Controller) relate(
	ctx context.Context,
	id, target model.PlayerID,
	event string,
	apply func(rec *model.PlayerRecord) bool,
) (*Relations, error) {
	if !c.store.Exists(id) {
		return nil, model.ErrNotRegistered
	}
	if id == target || !c.store.Exists(target) {
		return nil, model.ErrInvalidTarget
	}

	changed := false
	var out Relations
	err := c.store.Update(id, func(rec *model.PlayerRecord) error {
		changed = apply(rec)
		out = Relations{Allies: rec.Allies.Sorted(), Enemies: rec.Enemies.Sorted()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		c.logger.Info(event,
			slog.Int64("player_id", int64(id)),
			slog.Int64("target_id", int64(target)),
		)
		c.store.Persist(ctx)
	}
	return &out, nil
}
