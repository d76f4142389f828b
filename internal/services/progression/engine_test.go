package progression

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/demonkingdom/internal/model"
)

type EngineSuite struct {
	suite.Suite
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.engine = New()
}

func (s *EngineSuite) standard(level int64) *model.PlayerRecord {
	rec := s.engine.StartingRecord(1, model.KindStandard, "Alice")
	rec.Level = level
	return rec
}

func (s *EngineSuite) privileged() *model.PlayerRecord {
	return s.engine.StartingRecord(99, model.KindPrivileged, "God")
}

// UnlockedMagicPowers tests

func (s *EngineSuite) TestLevelOneUnlocksFirstTier() {
	s.Equal([]string{"Fireball", "Magic Missile"}, s.engine.UnlockedMagicPowers(s.standard(1)))
}

func (s *EngineSuite) TestLevelJumpUnlocksEveryPassedTier() {
	powers := s.engine.UnlockedMagicPowers(s.standard(10))

	s.Len(powers, 10)
	s.Contains(powers, "Ice Spike")
	s.Contains(powers, "Earthquake")
	s.Contains(powers, "Chain Lightning")
	s.NotContains(powers, "Time Warp")
}

func (s *EngineSuite) TestUnlockIsMonotonic() {
	var previous []string
	for level := int64(1); level <= 120; level++ {
		current := s.engine.UnlockedMagicPowers(s.standard(level))
		s.Subset(current, previous, "level %d lost powers", level)
		previous = current
	}
}

func (s *EngineSuite) TestMaxLevelUnlocksAllTiers() {
	s.Len(s.engine.UnlockedMagicPowers(s.standard(100)), 32)
}

func (s *EngineSuite) TestMagicRingGrantsExtraPower() {
	rec := s.standard(1)
	rec.Inventory[model.ItemMagicRing] = 1

	powers := s.engine.UnlockedMagicPowers(rec)
	s.Contains(powers, model.MagicRingPower)
	s.Len(powers, 3)
}

func (s *EngineSuite) TestEmptyMagicRingStackGrantsNothing() {
	rec := s.standard(1)
	rec.Inventory[model.ItemMagicRing] = 0

	s.NotContains(s.engine.UnlockedMagicPowers(rec), model.MagicRingPower)
}

func (s *EngineSuite) TestPrivilegedUnlocksFullCatalogueAtAnyLevel() {
	rec := s.privileged()
	full := s.engine.FullCatalogue()

	s.Equal(full, s.engine.UnlockedMagicPowers(rec))

	rec.Level = 1
	s.Equal(full, s.engine.UnlockedMagicPowers(rec))
	s.Contains(full, "Divine Blaze")
	s.Contains(full, "God's Blessing")
}

// EffectiveMagicCatalogue tests

func (s *EngineSuite) TestEffectiveCatalogueAppendsExclusivePowers() {
	catalogue := s.engine.EffectiveMagicCatalogue(s.privileged())

	s.ElementsMatch(s.engine.FullCatalogue(), catalogue)
	n := len(catalogue)
	s.Equal([]string{"Divine Blaze", "Celestial Wrath"}, catalogue[n-2:])
}

func (s *EngineSuite) TestEffectiveCatalogueForStandardIsUnlocked() {
	rec := s.standard(5)
	s.Equal(s.engine.UnlockedMagicPowers(rec), s.engine.EffectiveMagicCatalogue(rec))
}

// Companion tests

func (s *EngineSuite) TestCompanionStatsFormula() {
	c := CompanionStats(model.Companions["Dragon"], 7)

	s.Equal(int64(7), c.Level)
	s.Equal(int64(870), c.HP)
	s.Equal(int64(125), c.Attack)
	s.Equal(int64(115), c.Defense)
	s.Equal("Mighty fire-breathing dragon.", c.Description)
}

func (s *EngineSuite) TestRecomputeIsIdempotent() {
	rec := s.standard(12)
	rec.Companions["Phoenix"] = model.Companion{Level: 1}
	rec.Companions["Hydra"] = model.Companion{Level: 3}

	once := s.engine.RecomputeCompanions(rec)
	rec.Companions = once
	twice := s.engine.RecomputeCompanions(rec)

	s.Equal(once, twice)
	s.Equal(int64(12), twice["Hydra"].Level)
}

func (s *EngineSuite) TestRecomputeDropsStaleCompanions() {
	rec := s.standard(4)
	rec.Companions["Phoenix"] = model.Companion{}
	rec.Companions["Basilisk"] = model.Companion{}

	out := s.engine.RecomputeCompanions(rec)

	s.Len(out, 1)
	s.Contains(out, "Phoenix")
	s.NotContains(out, "Basilisk")
}

func (s *EngineSuite) TestStandardCannotKeepExclusiveCompanion() {
	rec := s.standard(4)
	rec.Companions["Celestial Dragon"] = model.Companion{}

	s.Empty(s.engine.RecomputeCompanions(rec))
}

func (s *EngineSuite) TestStandardHasNoCompanionCap() {
	rec := s.standard(2)
	for name := range model.Companions {
		rec.Companions[name] = model.Companion{}
	}

	s.Len(s.engine.RecomputeCompanions(rec), len(model.Companions))
}

func (s *EngineSuite) TestPrivilegedCompanionsCappedAtTwo() {
	rec := s.privileged()
	rec.Companions["Phoenix"] = model.Companion{}
	rec.Companions["Dragon"] = model.Companion{}
	rec.Companions["Griffin"] = model.Companion{}

	s.Len(s.engine.RecomputeCompanions(rec), 2)
}

func (s *EngineSuite) TestPrivilegedStartsWithExclusiveCompanions() {
	rec := s.privileged()

	s.Len(rec.Companions, 2)
	dragon := rec.Companions["Celestial Dragon"]
	s.Equal(int64(99), dragon.Level)
	s.Equal(int64(1500+990), dragon.HP)
	s.Equal(int64(200+495), dragon.Attack)
	s.Contains(rec.Companions, "Eternal Phoenix")
}

// Sword tests

func (s *EngineSuite) TestStandardSeesOnlyOwnedSwords() {
	rec := s.standard(1)
	rec.OwnedSwords = append(rec.OwnedSwords, "steel_sword", "rusty_spoon")

	swords := s.engine.AvailableSwords(rec)

	s.Len(swords, 3)
	s.Equal(model.Swords["steel_sword"], swords["steel_sword"])
	s.Equal(model.UnknownSwordDescription, swords["rusty_spoon"])
}

func (s *EngineSuite) TestPrivilegedSeesEverySword() {
	swords := s.engine.AvailableSwords(s.privileged())

	s.Len(swords, len(model.Swords)+len(model.PrivilegedSwords))
	s.Contains(swords, "divine_excalibur")
	s.Contains(swords, "basic_sword")
}

func (s *EngineSuite) TestCanEquip() {
	s.True(s.engine.CanEquip(s.standard(1), "flame_sword"))
	s.False(s.engine.CanEquip(s.standard(1), "shadow_sword"))
	s.False(s.engine.CanEquip(s.standard(1), "nope"))
	s.True(s.engine.CanEquip(s.privileged(), "shadow_sword"))
}

// StartingRecord tests

func (s *EngineSuite) TestStandardStartingRecord() {
	rec := s.engine.StartingRecord(42, model.KindStandard, "Bob")

	s.Equal(model.PlayerID(42), rec.ID)
	s.Equal(int64(1), rec.Level)
	s.Equal(int64(100), rec.HP)
	s.Equal(int64(50), rec.MP)
	s.Equal(int64(100), rec.Gold)
	s.Equal("Kingdom_Bob", rec.KingdomName)
	s.Equal([]string{model.SwordBasic}, rec.OwnedSwords)
	s.Equal(model.SwordBasic, rec.ActiveSword)
	s.False(rec.IsPrivileged())
}

func (s *EngineSuite) TestPrivilegedStartingRecord() {
	rec := s.privileged()

	s.True(rec.IsPrivileged())
	s.Equal(model.PrivilegedLevel, rec.Level)
	s.Equal(int64(100_000), rec.Gold)
	s.Equal(model.SwordLegendary, rec.ActiveSword)
	s.Equal(s.engine.FullCatalogue(), rec.MagicPowers)
}
