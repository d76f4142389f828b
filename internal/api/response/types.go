package response

import (
	"maps"
	"slices"
	"time"

	"github.com/mcoot/demonkingdom/internal/model"
	"github.com/mcoot/demonkingdom/internal/services/battle"
	"github.com/mcoot/demonkingdom/internal/services/kingdom"
	"github.com/mcoot/demonkingdom/internal/services/transfer"
)

// Player represents a player identity in API responses
type Player struct {
	ID           int64  `json:"id"`
	DisplayName  string `json:"display_name"`
	IsPrivileged bool   `json:"is_privileged"`
}

// PlayerFromIdentity converts a kingdom.Identity
func PlayerFromIdentity(i *kingdom.Identity) Player {
	return Player{
		ID:           int64(i.ID),
		DisplayName:  i.DisplayName,
		IsPrivileged: i.Kind == model.KindPrivileged,
	}
}

// RegisterResponse is the response for POST /players
type RegisterResponse struct {
	Player  Player `json:"player"`
	Created bool   `json:"created"`
	Status  Status `json:"status"`
}

// Status represents a player's kingdom
type Status struct {
	Player
	Level          int64            `json:"level"`
	Exp            int64            `json:"exp"`
	HP             int64            `json:"hp"`
	MP             int64            `json:"mp"`
	Gold           int64            `json:"gold"`
	KingdomName    string           `json:"kingdom_name"`
	KingdomDefense int64            `json:"kingdom_defense"`
	DemonsDefeated int64            `json:"demons_defeated"`
	Allies         []int64          `json:"allies"`
	Enemies        []int64          `json:"enemies"`
	Inventory      map[string]int64 `json:"inventory"`
	ActiveSword    string           `json:"active_sword"`
}

// StatusFromModel converts a kingdom.Status
func StatusFromModel(s *kingdom.Status) Status {
	return Status{
		Player:         PlayerFromIdentity(&s.Identity),
		Level:          s.Level,
		Exp:            s.Exp,
		HP:             s.HP,
		MP:             s.MP,
		Gold:           s.Gold,
		KingdomName:    s.KingdomName,
		KingdomDefense: s.KingdomDefense,
		DemonsDefeated: s.DemonsDefeated,
		Allies:         ids(s.Allies),
		Enemies:        ids(s.Enemies),
		Inventory:      s.Inventory,
		ActiveSword:    s.ActiveSword,
	}
}

// MagicPowers lists the abilities shown to a player
type MagicPowers struct {
	Powers []string `json:"powers"`
}

// Companion represents one companion
type Companion struct {
	Name        string `json:"name"`
	Level       int64  `json:"level"`
	HP          int64  `json:"hp"`
	Attack      int64  `json:"attack"`
	Defense     int64  `json:"defense"`
	Description string `json:"description"`
}

// CompanionsFromModel converts a companion map into a list sorted by name
func CompanionsFromModel(m map[string]model.Companion) []Companion {
	out := make([]Companion, 0, len(m))
	for _, name := range slices.Sorted(maps.Keys(m)) {
		c := m[name]
		out = append(out, Companion{
			Name:        name,
			Level:       c.Level,
			HP:          c.HP,
			Attack:      c.Attack,
			Defense:     c.Defense,
			Description: c.Description,
		})
	}
	return out
}

// Companions wraps a companion listing
type Companions struct {
	Companions []Companion `json:"companions"`
}

// Sword represents one sword
type Sword struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// SwordFromModel converts a kingdom.Sword
func SwordFromModel(s kingdom.Sword) Sword {
	return Sword{Key: s.Key, Description: s.Description, Active: s.Active}
}

// Swords wraps a sword listing
type Swords struct {
	Swords []Sword `json:"swords"`
}

// SwordsFromModel converts a sword listing
func SwordsFromModel(list []kingdom.Sword) Swords {
	out := make([]Sword, len(list))
	for i, s := range list {
		out[i] = SwordFromModel(s)
	}
	return Swords{Swords: out}
}

// BattleOutcome is the response for POST /players/me/battle
type BattleOutcome struct {
	Won        bool  `json:"won"`
	Attack     int64 `json:"attack"`
	Defense    int64 `json:"defense"`
	AllyCount  int   `json:"ally_count"`
	OldGold    int64 `json:"old_gold"`
	NewGold    int64 `json:"new_gold"`
	OldHP      int64 `json:"old_hp"`
	NewHP      int64 `json:"new_hp"`
	ExpGained  int64 `json:"exp_gained"`
	GoldGained int64 `json:"gold_gained"`
	LeveledUp  bool  `json:"leveled_up"`
	NewLevel   int64 `json:"new_level"`
}

// BattleOutcomeFromModel converts a battle.Outcome
func BattleOutcomeFromModel(o *battle.Outcome) BattleOutcome {
	return BattleOutcome{
		Won:        o.Won,
		Attack:     o.Attack,
		Defense:    o.Defense,
		AllyCount:  o.AllyCount,
		OldGold:    o.OldGold,
		NewGold:    o.NewGold,
		OldHP:      o.OldHP,
		NewHP:      o.NewHP,
		ExpGained:  o.ExpGained,
		GoldGained: o.GoldGained,
		LeveledUp:  o.LeveledUp,
		NewLevel:   o.NewLevel,
	}
}

// GiftResult is the response for POST /players/me/gift
type GiftResult struct {
	Amount            int64  `json:"amount"`
	SenderBalance     int64  `json:"sender_balance"`
	TargetBalance     int64  `json:"target_balance"`
	TargetDisplayName string `json:"target_display_name"`
}

// GiftResultFromModel converts a transfer.Result
func GiftResultFromModel(r *transfer.Result) GiftResult {
	return GiftResult{
		Amount:            r.Amount,
		SenderBalance:     r.SenderBalance,
		TargetBalance:     r.TargetBalance,
		TargetDisplayName: r.TargetDisplayName,
	}
}

// Relations lists a player's allies and enemies
type Relations struct {
	Allies  []int64 `json:"allies"`
	Enemies []int64 `json:"enemies"`
}

// RelationsFromModel converts kingdom.Relations
func RelationsFromModel(r *kingdom.Relations) Relations {
	return Relations{Allies: ids(r.Allies), Enemies: ids(r.Enemies)}
}

// Health is the response for GET /health
type Health struct {
	Status           string     `json:"status"`
	PlayerCount      int        `json:"player_count"`
	LastSave         *time.Time `json:"last_save"`
	SecondsSinceSave *int64     `json:"seconds_since_save,omitempty"`
}

func ids(in []model.PlayerID) []int64 {
	out := make([]int64, len(in))
	for i, id := range in {
		out[i] = int64(id)
	}
	return out
}
