package model

import (
	"maps"
	"slices"
	"strconv"
)

// PlayerID uniquely identifies a player (the chat platform's numeric user id)
type PlayerID int64

// String returns the decimal form used as the snapshot key
func (id PlayerID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParsePlayerID parses a stringified player id
func ParsePlayerID(s string) (PlayerID, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return PlayerID(v), nil
}

// PlayerKind selects which rule branch applies to a player
type PlayerKind string

const (
	KindStandard   PlayerKind = "standard"
	KindPrivileged PlayerKind = "privileged"
)

// Level limits
const (
	MaxStandardLevel int64 = 100
	PrivilegedLevel  int64 = 10_000_000_000
)

// Companion is an owned creature whose stats scale with the owner's level
type Companion struct {
	Level       int64
	HP          int64
	Attack      int64
	Defense     int64
	Description string
}

// PlayerRecord is the persistent game state of one registered player
type PlayerRecord struct {
	ID             PlayerID
	Kind           PlayerKind
	Level          int64
	Exp            int64
	HP             int64
	MP             int64
	Gold           int64
	KingdomName    string
	KingdomDefense int64
	DemonsDefeated int64
	Allies         IDSet
	Enemies        IDSet
	Inventory      map[string]int64
	MagicPowers    []string // cached, recomputable from Level
	Companions     map[string]Companion
	OwnedSwords    []string // ordered, no duplicates
	ActiveSword    string
}

// IsPrivileged reports whether the record follows the privileged rule branch
func (p *PlayerRecord) IsPrivileged() bool {
	return p.Kind == KindPrivileged
}

// HasItem reports whether the inventory holds at least one of the item
func (p *PlayerRecord) HasItem(key string) bool {
	return p.Inventory[key] > 0
}

// OwnsSword reports whether key is in the owned sword list
func (p *PlayerRecord) OwnsSword(key string) bool {
	return slices.Contains(p.OwnedSwords, key)
}

// Clone returns a deep copy so callers can mutate without touching shared state
func (p *PlayerRecord) Clone() *PlayerRecord {
	c := *p
	c.Allies = p.Allies.Clone()
	c.Enemies = p.Enemies.Clone()
	c.Inventory = maps.Clone(p.Inventory)
	c.MagicPowers = slices.Clone(p.MagicPowers)
	c.Companions = maps.Clone(p.Companions)
	c.OwnedSwords = slices.Clone(p.OwnedSwords)
	return &c
}
