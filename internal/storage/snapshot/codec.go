// Package snapshot converts between in-memory player state and the persisted
// JSON documents. Sets are written as sorted lists and rebuilt as sets on
// decode; records written by older versions are default-filled on decode.
package snapshot

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/mcoot/demonkingdom/internal/model"
)

type companionDoc struct {
	Level       int64  `json:"level"`
	HP          int64  `json:"hp"`
	Attack      int64  `json:"attack"`
	Defense     int64  `json:"defense"`
	Description string `json:"description"`
}

type recordDoc struct {
	Level          *int64                  `json:"level"`
	Exp            int64                   `json:"exp"`
	HP             *int64                  `json:"hp"`
	MP             int64                   `json:"mp"`
	Gold           int64                   `json:"gold"`
	KingdomName    string                  `json:"kingdomName"`
	DemonsDefeated int64                   `json:"demonsDefeated"`
	Allies         []model.PlayerID        `json:"allies"`
	Enemies        []model.PlayerID        `json:"enemies"`
	Inventory      map[string]int64        `json:"inventory"`
	KingdomDefense *int64                  `json:"kingdomDefense"`
	MagicPowers    []string                `json:"magicPowers"`
	Companions     map[string]companionDoc `json:"companions"`
	EquippedSwords []string                `json:"equippedSwords"`
	EquippedSword  string                  `json:"equippedSword"`
	IsPrivileged   bool                    `json:"isPrivileged"`
}

const defaultKingdomDefense = 100

// EncodePlayers serializes every record keyed by stringified player id
func EncodePlayers(records map[model.PlayerID]*model.PlayerRecord) ([]byte, error) {
	docs := make(map[string]recordDoc, len(records))
	for id, rec := range records {
		docs[id.String()] = toDoc(rec)
	}
	return json.MarshalIndent(docs, "", "  ")
}

// DecodePlayers parses a player snapshot. It returns the number of records
// that needed default-filling because they predate newer fields.
func DecodePlayers(data []byte) (map[model.PlayerID]*model.PlayerRecord, int, error) {
	var docs map[string]recordDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, 0, fmt.Errorf("decoding player snapshot: %w", err)
	}

	records := make(map[model.PlayerID]*model.PlayerRecord, len(docs))
	backfilled := 0
	for key, doc := range docs {
		id, err := model.ParsePlayerID(key)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding player snapshot: invalid player id %q", key)
		}
		rec, migrated := fromDoc(id, doc)
		if migrated {
			backfilled++
		}
		records[id] = rec
	}
	return records, backfilled, nil
}

// EncodeRegisteredUsers serializes the id → display name directory
func EncodeRegisteredUsers(names map[model.PlayerID]string) ([]byte, error) {
	docs := make(map[string]string, len(names))
	for id, name := range names {
		docs[id.String()] = name
	}
	return json.MarshalIndent(docs, "", "  ")
}

// DecodeRegisteredUsers parses the id → display name directory
func DecodeRegisteredUsers(data []byte) (map[model.PlayerID]string, error) {
	var docs map[string]string
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decoding registered users snapshot: %w", err)
	}

	names := make(map[model.PlayerID]string, len(docs))
	for key, name := range docs {
		id, err := model.ParsePlayerID(key)
		if err != nil {
			return nil, fmt.Errorf("decoding registered users snapshot: invalid player id %q", key)
		}
		names[id] = name
	}
	return names, nil
}

func toDoc(rec *model.PlayerRecord) recordDoc {
	level, hp, defense := rec.Level, rec.HP, rec.KingdomDefense

	companions := make(map[string]companionDoc, len(rec.Companions))
	for name, c := range rec.Companions {
		companions[name] = companionDoc{
			Level:       c.Level,
			HP:          c.HP,
			Attack:      c.Attack,
			Defense:     c.Defense,
			Description: c.Description,
		}
	}

	inventory := rec.Inventory
	if inventory == nil {
		inventory = map[string]int64{}
	}

	return recordDoc{
		Level:          &level,
		Exp:            rec.Exp,
		HP:             &hp,
		MP:             rec.MP,
		Gold:           rec.Gold,
		KingdomName:    rec.KingdomName,
		DemonsDefeated: rec.DemonsDefeated,
		Allies:         nonNil(rec.Allies.Sorted()),
		Enemies:        nonNil(rec.Enemies.Sorted()),
		Inventory:      inventory,
		KingdomDefense: &defense,
		MagicPowers:    nonNil(slices.Clone(rec.MagicPowers)),
		Companions:     companions,
		EquippedSwords: nonNil(slices.Clone(rec.OwnedSwords)),
		EquippedSword:  rec.ActiveSword,
		IsPrivileged:   rec.IsPrivileged(),
	}
}

// fromDoc rebuilds a record, filling every field an older snapshot may lack
func fromDoc(id model.PlayerID, doc recordDoc) (*model.PlayerRecord, bool) {
	migrated := false

	rec := &model.PlayerRecord{
		ID:             id,
		Kind:           model.KindStandard,
		Level:          1,
		Exp:            max(doc.Exp, 0),
		HP:             1,
		MP:             max(doc.MP, 0),
		Gold:           max(doc.Gold, 0),
		KingdomName:    doc.KingdomName,
		KingdomDefense: defaultKingdomDefense,
		DemonsDefeated: max(doc.DemonsDefeated, 0),
		Allies:         model.NewIDSet(doc.Allies...),
		Enemies:        model.NewIDSet(doc.Enemies...),
		Inventory:      doc.Inventory,
		MagicPowers:    doc.MagicPowers,
		Companions:     make(map[string]model.Companion, len(doc.Companions)),
		ActiveSword:    doc.EquippedSword,
	}
	if doc.IsPrivileged {
		rec.Kind = model.KindPrivileged
	}
	if doc.Level != nil && *doc.Level >= 1 {
		rec.Level = *doc.Level
	}
	if doc.HP != nil && *doc.HP >= 1 {
		rec.HP = *doc.HP
	}
	if doc.KingdomDefense != nil {
		rec.KingdomDefense = max(*doc.KingdomDefense, 0)
	} else {
		migrated = true
	}

	for name, c := range doc.Companions {
		rec.Companions[name] = model.Companion{
			Level:       c.Level,
			HP:          c.HP,
			Attack:      c.Attack,
			Defense:     c.Defense,
			Description: c.Description,
		}
	}
	if doc.Companions == nil {
		migrated = true
	}
	if rec.Inventory == nil {
		rec.Inventory = map[string]int64{}
		migrated = true
	}
	if rec.MagicPowers == nil {
		rec.MagicPowers = []string{}
		migrated = true
	}
	owned := dedupe(doc.EquippedSwords)
	rec.OwnedSwords = slices.DeleteFunc(owned, func(key string) bool { return !model.KnownSword(key) })
	if len(rec.OwnedSwords) != len(owned) {
		migrated = true
	}
	if rec.ActiveSword != "" && !model.KnownSword(rec.ActiveSword) {
		rec.ActiveSword = defaultSword(rec)
		migrated = true
	}
	if len(rec.OwnedSwords) == 0 {
		rec.OwnedSwords = []string{defaultSword(rec)}
		migrated = true
	}
	if rec.ActiveSword == "" {
		rec.ActiveSword = rec.OwnedSwords[0]
		migrated = true
	}
	if !slices.Contains(rec.OwnedSwords, rec.ActiveSword) {
		rec.OwnedSwords = append(rec.OwnedSwords, rec.ActiveSword)
	}

	return rec, migrated
}

func defaultSword(rec *model.PlayerRecord) string {
	if rec.IsPrivileged() {
		return model.SwordLegendary
	}
	return model.SwordBasic
}

func dedupe(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, ok := seen[k]; ok || k == "" {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
