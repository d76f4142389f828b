package progression

import (
	"maps"
	"slices"
	"sort"

	"github.com/mcoot/demonkingdom/internal/model"
)

// companionLevelCap bounds the level used to scale privileged companions
const companionLevelCap = 99

// kindRules collects the behaviour that differs between player kinds
type kindRules struct {
	unlock         func(e *Engine, rec *model.PlayerRecord) []string
	companions     map[string]model.CompanionBase
	companionCap   int // 0 means no cap enforced
	companionLevel func(ownerLevel int64) int64
	swords         func(rec *model.PlayerRecord) map[string]string
	equippable     map[string]string
}

// Engine computes unlocks, companion stats and available equipment.
// It never mutates the records it is given.
type Engine struct {
	standardCatalogue []string // level tiers plus bonus powers
	fullCatalogue     []string // standardCatalogue plus privileged powers
	rules             map[model.PlayerKind]kindRules
}

// New creates a new ProgressionEngine over the built-in catalogues
func New() *Engine {
	e := &Engine{
		standardCatalogue: buildCatalogue(false),
		fullCatalogue:     buildCatalogue(true),
	}

	allCompanions := maps.Clone(model.Companions)
	maps.Copy(allCompanions, model.PrivilegedCompanions)
	allSwords := maps.Clone(model.Swords)
	maps.Copy(allSwords, model.PrivilegedSwords)

	e.rules = map[model.PlayerKind]kindRules{
		model.KindStandard: {
			unlock:         (*Engine).unlockByLevel,
			companions:     model.Companions,
			companionLevel: func(l int64) int64 { return l },
			swords:         ownedSwords,
			equippable:     model.Swords,
		},
		model.KindPrivileged: {
			unlock:         func(e *Engine, _ *model.PlayerRecord) []string { return slices.Clone(e.fullCatalogue) },
			companions:     allCompanions,
			companionCap:   2,
			companionLevel: func(l int64) int64 { return min(l, companionLevelCap) },
			swords:         func(_ *model.PlayerRecord) map[string]string { return maps.Clone(allSwords) },
			equippable:     allSwords,
		},
	}
	return e
}

func (e *Engine) rulesFor(rec *model.PlayerRecord) kindRules {
	if r, ok := e.rules[rec.Kind]; ok {
		return r
	}
	return e.rules[model.KindStandard]
}

// FullCatalogue returns every ability: all level tiers, bonus and privileged powers
func (e *Engine) FullCatalogue() []string {
	return slices.Clone(e.fullCatalogue)
}

// UnlockedMagicPowers returns the sorted set of abilities the player has unlocked
func (e *Engine) UnlockedMagicPowers(rec *model.PlayerRecord) []string {
	return e.rulesFor(rec).unlock(e, rec)
}

// unlockByLevel evaluates every tier independently so a level jump unlocks
// all passed tiers at once
func (e *Engine) unlockByLevel(rec *model.PlayerRecord) []string {
	set := make(map[string]struct{})
	for _, tier := range model.MagicTiers {
		if tier.Threshold <= rec.Level {
			for _, p := range tier.Powers {
				set[p] = struct{}{}
			}
		}
	}
	if rec.HasItem(model.ItemMagicRing) {
		set[model.MagicRingPower] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// EffectiveMagicCatalogue returns the abilities shown to the player.
// Privileged players get the standard catalogue with the exclusive list
// appended after it.
func (e *Engine) EffectiveMagicCatalogue(rec *model.PlayerRecord) []string {
	if !rec.IsPrivileged() {
		return e.UnlockedMagicPowers(rec)
	}
	out := slices.Clone(e.standardCatalogue)
	for _, p := range model.PrivilegedMagicPowers {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// CompanionStats scales a companion's base stats to the owner's level
func CompanionStats(base model.CompanionBase, ownerLevel int64) model.Companion {
	return model.Companion{
		Level:       ownerLevel,
		HP:          base.HP + ownerLevel*10,
		Attack:      base.Attack + ownerLevel*5,
		Defense:     base.Defense + ownerLevel*5,
		Description: base.Description,
	}
}

// RecomputeCompanions returns the owner's companions rescaled to the owner's
// level. Names missing from the catalogue are dropped. Privileged players are
// topped up with exclusive companions and trimmed to the cap.
func (e *Engine) RecomputeCompanions(rec *model.PlayerRecord) map[string]model.Companion {
	r := e.rulesFor(rec)
	level := r.companionLevel(rec.Level)

	names := make([]string, 0, len(rec.Companions))
	for name := range rec.Companions {
		if _, ok := r.companions[name]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if r.companionCap > 0 {
		for _, name := range slices.Sorted(maps.Keys(model.PrivilegedCompanions)) {
			if len(names) >= r.companionCap {
				break
			}
			if !slices.Contains(names, name) {
				names = append(names, name)
			}
		}
		if len(names) > r.companionCap {
			names = names[:r.companionCap]
		}
	}

	out := make(map[string]model.Companion, len(names))
	for _, name := range names {
		out[name] = CompanionStats(r.companions[name], level)
	}
	return out
}

// AvailableSwords returns the swords the player may choose from, keyed by sword key
func (e *Engine) AvailableSwords(rec *model.PlayerRecord) map[string]string {
	return e.rulesFor(rec).swords(rec)
}

func ownedSwords(rec *model.PlayerRecord) map[string]string {
	out := make(map[string]string, len(rec.OwnedSwords))
	for _, key := range rec.OwnedSwords {
		out[key] = SwordDescription(key)
	}
	return out
}

// CanEquip reports whether key is in the sword catalogue visible to the player's kind
func (e *Engine) CanEquip(rec *model.PlayerRecord, key string) bool {
	_, ok := e.rulesFor(rec).equippable[key]
	return ok
}

// SwordDescription looks a key up in every catalogue
func SwordDescription(key string) string {
	if d, ok := model.Swords[key]; ok {
		return d
	}
	if d, ok := model.PrivilegedSwords[key]; ok {
		return d
	}
	return model.UnknownSwordDescription
}

// StartingRecord builds the stat block a player receives at registration
func (e *Engine) StartingRecord(id model.PlayerID, kind model.PlayerKind, displayName string) *model.PlayerRecord {
	if kind == model.KindPrivileged {
		rec := &model.PlayerRecord{
			ID:             id,
			Kind:           model.KindPrivileged,
			Level:          model.PrivilegedLevel,
			Exp:            999_999_999,
			HP:             1_000_000,
			MP:             500,
			Gold:           100_000,
			KingdomName:    "Divine Kingdom of " + displayName,
			KingdomDefense: 1_000_000,
			DemonsDefeated: 999_999,
			Allies:         model.IDSet{},
			Enemies:        model.IDSet{},
			Inventory:      map[string]int64{model.SwordLegendary: 1},
			MagicPowers:    e.FullCatalogue(),
			Companions:     map[string]model.Companion{},
			OwnedSwords:    []string{model.SwordLegendary},
			ActiveSword:    model.SwordLegendary,
		}
		rec.Companions = e.RecomputeCompanions(rec)
		return rec
	}

	return &model.PlayerRecord{
		ID:             id,
		Kind:           model.KindStandard,
		Level:          1,
		HP:             100,
		MP:             50,
		Gold:           100,
		KingdomName:    "Kingdom_" + displayName,
		KingdomDefense: 100,
		Allies:         model.IDSet{},
		Enemies:        model.IDSet{},
		Inventory:      map[string]int64{},
		MagicPowers:    []string{},
		Companions:     map[string]model.Companion{},
		OwnedSwords:    []string{model.SwordBasic},
		ActiveSword:    model.SwordBasic,
	}
}

func buildCatalogue(withPrivileged bool) []string {
	set := make(map[string]struct{})
	for _, tier := range model.MagicTiers {
		for _, p := range tier.Powers {
			set[p] = struct{}{}
		}
	}
	for _, p := range model.BonusMagicPowers {
		set[p] = struct{}{}
	}
	if withPrivileged {
		for _, p := range model.PrivilegedMagicPowers {
			set[p] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}
