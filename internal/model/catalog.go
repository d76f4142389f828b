package model

// MagicTier unlocks a group of abilities once a player reaches Threshold
type MagicTier struct {
	Threshold int64
	Powers    []string
}

// MagicTiers is ordered by ascending threshold
var MagicTiers = []MagicTier{
	{1, []string{"Fireball", "Magic Missile"}},
	{3, []string{"Ice Spike", "Mana Shield"}},
	{5, []string{"Lightning Bolt", "Heal"}},
	{8, []string{"Earthquake", "Invisibility"}},
	{10, []string{"Meteor Shower", "Chain Lightning"}},
	{15, []string{"Time Warp", "Summon Elemental"}},
	{20, []string{"Blizzard", "Curse"}},
	{25, []string{"Dragon's Breath", "Teleport"}},
	{30, []string{"Black Hole", "Mind Control"}},
	{40, []string{"Divine Wrath", "Phantom Army"}},
	{50, []string{"Reality Break", "Eternal Flame"}},
	{60, []string{"Soul Bind", "Arcane Mastery"}},
	{70, []string{"Storm Call", "Spirit Guard"}},
	{80, []string{"Void Rift", "Celestial Beam"}},
	{90, []string{"Phoenix Flame", "Shadow Realm"}},
	{100, []string{"Infinity Surge", "God's Judgment"}},
}

// BonusMagicPowers are part of the full catalogue but not unlocked by level
var BonusMagicPowers = []string{"Divine Shield", "Shadow Blade", "Ultimate Power", "God's Blessing"}

// PrivilegedMagicPowers are reserved for the privileged player
var PrivilegedMagicPowers = []string{"Divine Blaze", "Celestial Wrath", "Eternal Flame"}

// Magic ring grants one extra ability regardless of level
const (
	ItemMagicRing  = "magic_ring"
	MagicRingPower = "Magic Shield"
)

// CompanionBase holds the level-independent stats of a companion species
type CompanionBase struct {
	HP          int64
	Attack      int64
	Defense     int64
	Description string
}

// Companions available to standard players
var Companions = map[string]CompanionBase{
	"Phoenix":   {500, 70, 60, "Flaming immortal bird."},
	"Dragon":    {800, 90, 80, "Mighty fire-breathing dragon."},
	"Griffin":   {400, 65, 55, "Majestic hybrid lion and eagle."},
	"Hydra":     {700, 85, 75, "Multi-headed serpent beast."},
	"Cerberus":  {650, 80, 70, "Three-headed hellhound guardian."},
	"Chimera":   {720, 88, 78, "Mythical beast with multiple animal parts."},
	"Leviathan": {850, 95, 85, "Giant sea serpent of legend."},
	"Minotaur":  {600, 75, 65, "Powerful half-man half-bull warrior."},
}

// PrivilegedCompanions are reserved for the privileged player
var PrivilegedCompanions = map[string]CompanionBase{
	"Celestial Dragon": {1500, 200, 180, "The supreme dragon of heavens."},
	"Eternal Phoenix":  {1400, 190, 170, "Phoenix reborn infinitely."},
}

// Sword keys
const (
	SwordBasic     = "basic_sword"
	SwordLegendary = "legendary_sword"
)

// UnknownSwordDescription is shown for a sword key missing from every catalogue
const UnknownSwordDescription = "Unrecognized sword"

// Swords available to standard players
var Swords = map[string]string{
	"basic_sword":     "Basic Sword (Attack +5)",
	"steel_sword":     "Steel Sword (Attack +15)",
	"flame_sword":     "Flame Sword (Attack +30, fire damage)",
	"ice_sword":       "Ice Sword (Attack +25, slows enemies)",
	"lightning_sword": "Lightning Sword (Attack +35, fast strikes)",
}

// PrivilegedSwords are reserved for the privileged player
var PrivilegedSwords = map[string]string{
	"legendary_sword":  "Legendary Sword (Attack +100, special effect)",
	"shadow_sword":     "Shadow Sword (Attack +80, high critical rate)",
	"divine_excalibur": "Divine Excalibur (Attack +150, sacred power)",
}

// KnownSword reports whether key appears in either sword catalogue
func KnownSword(key string) bool {
	if _, ok := Swords[key]; ok {
		return true
	}
	_, ok := PrivilegedSwords[key]
	return ok
}
