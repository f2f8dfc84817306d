package game

import (
	"testing"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCombatHarness(t *testing.T) *testHarness {
	h := newHarness(t)
	h.setStep(rules.StepDeclareAttackers, 0)
	return h
}

func TestCombatTwoBearsTrade(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Bear A", 2, 2)
	blocker := h.creature(1, "Bear B", 2, 2)

	h.attack(attacker)
	h.block(attacker, blocker)
	h.state.ResolveCombatDamage(true)
	h.assertCreatureDamage(attacker, 0)
	h.assertCreatureDamage(blocker, 0)

	h.state.ResolveCombatDamage(false)
	h.assertCreatureDamage(attacker, 2)
	h.assertCreatureDamage(blocker, 2)

	destroyed := h.state.CheckStateBasedActions()
	assert.Equal(t, []string{attacker.ID, blocker.ID}, destroyed)
	h.assertCreatureDead(attacker)
	h.assertCreatureDead(blocker)
	h.assertPlayerLife(1, 20)
}

func TestCombatTrampleOverflow(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Trampler", 4, 4, carddb.KeywordTrample)
	blocker := h.creature(1, "Chump", 1, 1)

	h.attack(attacker)
	h.block(attacker, blocker)
	h.fight()

	h.assertCreatureDamage(attacker, 1)
	h.assertCreatureDead(blocker)
	assert.Equal(t, 1, len(h.state.Graveyard(1)))
	h.assertPlayerLife(1, 17)
}

func TestCombatTrampleRespectsPriorDamage(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Trampler", 5, 5, carddb.KeywordTrample)
	blocker := h.creature(1, "Wall", 0, 4)
	blocker.Damage = 3

	h.attack(attacker)
	h.block(attacker, blocker)
	h.state.ResolveCombatDamage(false)

	h.assertCreatureDamage(blocker, 4)
	h.assertPlayerLife(1, 16)
}

func TestCombatDeathtouch(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Needle", 1, 1, carddb.KeywordDeathtouch)
	blocker := h.creature(1, "Wall", 0, 5)

	h.attack(attacker)
	h.block(attacker, blocker)
	h.state.ResolveCombatDamage(false)

	h.assertCreatureDamage(blocker, 5)
	h.assertCreatureDamage(attacker, 0)

	h.state.CheckStateBasedActions()
	h.assertCreatureDead(blocker)
	h.assertOnBattlefield(attacker)
}

func TestCombatBlockerDeathtouchStrikesBack(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Wurm", 6, 6)
	blocker := h.creature(1, "Nighthawk", 2, 3, carddb.KeywordDeathtouch)

	h.attack(attacker)
	h.block(attacker, blocker)
	h.fight()

	h.assertCreatureDead(attacker)
	h.assertCreatureDead(blocker)
}

func TestCombatFirstStrikeGating(t *testing.T) {
	tests := []struct {
		name        string
		keywords    []string
		firstDamage int
		totalDamage int
	}{
		{"no keyword", nil, 0, 3},
		{"first strike", []string{carddb.KeywordFirstStrike}, 3, 3},
		{"double strike", []string{carddb.KeywordDoubleStrike}, 3, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCombatHarness(t)
			attacker := h.creature(0, "Striker", 3, 3, tt.keywords...)
			h.attack(attacker)

			h.state.ResolveCombatDamage(true)
			h.assertPlayerLife(1, 20-tt.firstDamage)
			h.state.ResolveCombatDamage(false)
			h.assertPlayerLife(1, 20-tt.totalDamage)
		})
	}
}

func TestCombatFirstStrikeKillsBeforeDamage(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Bear", 2, 2)
	knight := h.creature(1, "Knight", 2, 2, carddb.KeywordFirstStrike)

	h.attack(attacker)
	h.block(attacker, knight)
	h.fight()

	h.assertCreatureDead(attacker)
	h.assertOnBattlefield(knight)
	h.assertCreatureDamage(knight, 0)
	h.assertPlayerLife(1, 20)
}

func TestCombatFirstStrikeAttackerBlockerStrikesInRegularSegment(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Knight", 2, 4, carddb.KeywordFirstStrike)
	blocker := h.creature(1, "Bear", 2, 3)

	h.attack(attacker)
	h.block(attacker, blocker)
	h.fight()

	h.assertCreatureDamage(blocker, 2)
	h.assertCreatureDamage(attacker, 2)
	h.assertOnBattlefield(attacker)
	h.assertOnBattlefield(blocker)
}

func TestCombatLifelink(t *testing.T) {
	t.Run("unblocked", func(t *testing.T) {
		h := newCombatHarness(t)
		h.attack(h.creature(0, "Nighthawk", 2, 3, carddb.KeywordLifelink))
		h.fight()
		h.assertPlayerLife(0, 22)
		h.assertPlayerLife(1, 18)
	})

	t.Run("trample overflow counts", func(t *testing.T) {
		h := newCombatHarness(t)
		attacker := h.creature(0, "Drinker", 4, 4, carddb.KeywordTrample, carddb.KeywordLifelink)
		blocker := h.creature(1, "Chump", 1, 1)
		h.attack(attacker)
		h.block(attacker, blocker)
		h.fight()
		h.assertPlayerLife(0, 24)
		h.assertPlayerLife(1, 17)
	})

	t.Run("blocker", func(t *testing.T) {
		h := newCombatHarness(t)
		attacker := h.creature(0, "Bear", 2, 2)
		blocker := h.creature(1, "Nighthawk", 2, 3, carddb.KeywordLifelink)
		h.attack(attacker)
		h.block(attacker, blocker)
		h.fight()
		h.assertPlayerLife(1, 22)
		h.assertCreatureDead(attacker)
		require.Len(t, h.events.OfType(rules.EventGainedLife), 1)
	})
}

func TestCombatZeroPowerAttackerDealsNothing(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Thopter", 0, 2)
	blocker := h.creature(1, "Bear", 2, 2)

	h.attack(attacker)
	h.block(attacker, blocker)
	h.fight()

	h.assertCreatureDamage(blocker, 0)
	h.assertCreatureDead(attacker)
}

func TestCombatBlockerRemoved(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		life     int
	}{
		{"no trample deals nothing", nil, 20},
		{"trample deals everything", []string{carddb.KeywordTrample}, 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCombatHarness(t)
			attacker := h.creature(0, "Attacker", 3, 3, tt.keywords...)
			blocker := h.creature(1, "Blocker", 1, 1)
			h.attack(attacker)
			h.block(attacker, blocker)

			h.state.moveCard(blocker, ZoneGraveyard)
			h.state.ResolveCombatDamage(false)
			h.assertPlayerLife(1, tt.life)
		})
	}
}

func TestAssignBlockerLegality(t *testing.T) {
	tests := []struct {
		name    string
		atk     creatureSpec
		blk     creatureSpec
		wantErr bool
	}{
		{"plain", creatureSpec{Name: "A", Power: 2, Toughness: 2}, creatureSpec{Name: "B", Power: 2, Toughness: 2}, false},
		{"flying vs ground", creatureSpec{Name: "A", Power: 2, Toughness: 2, Keywords: []string{carddb.KeywordFlying}}, creatureSpec{Name: "B", Power: 2, Toughness: 2}, true},
		{"flying vs reach", creatureSpec{Name: "A", Power: 2, Toughness: 2, Keywords: []string{carddb.KeywordFlying}}, creatureSpec{Name: "B", Power: 2, Toughness: 4, Keywords: []string{carddb.KeywordReach}}, false},
		{"flying vs flying", creatureSpec{Name: "A", Power: 2, Toughness: 2, Keywords: []string{carddb.KeywordFlying}}, creatureSpec{Name: "B", Power: 1, Toughness: 1, Keywords: []string{carddb.KeywordFlying}}, false},
		{"fear vs green", creatureSpec{Name: "A", Power: 2, Toughness: 2, Keywords: []string{carddb.KeywordFear}}, creatureSpec{Name: "B", Power: 2, Toughness: 2, Colors: []string{"G"}}, true},
		{"fear vs black", creatureSpec{Name: "A", Power: 2, Toughness: 2, Keywords: []string{carddb.KeywordFear}}, creatureSpec{Name: "B", Power: 2, Toughness: 2, Colors: []string{"B"}}, false},
		{"fear vs artifact", creatureSpec{Name: "A", Power: 2, Toughness: 2, Keywords: []string{carddb.KeywordFear}}, creatureSpec{Name: "B", Power: 0, Toughness: 2, Artifact: true}, false},
		{"tapped blocker", creatureSpec{Name: "A", Power: 2, Toughness: 2}, creatureSpec{Name: "B", Power: 2, Toughness: 2, Tapped: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newCombatHarness(t)
			attacker := h.createCreature(0, tt.atk)
			blocker := h.createCreature(1, tt.blk)
			h.attack(attacker)

			err := h.state.AssignBlocker(attacker.ID, blocker.ID)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrIllegalBlock)
				assert.Empty(t, attacker.BlockedBy)
				assert.False(t, blocker.Blocking)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, blocker.ID, attacker.BlockedBy)
			assert.True(t, blocker.Blocking)
		})
	}
}

func TestAssignBlockerRejectsReuse(t *testing.T) {
	h := newCombatHarness(t)
	first := h.creature(0, "First", 2, 2)
	second := h.creature(0, "Second", 2, 2)
	blocker := h.creature(1, "Blocker", 3, 3)
	other := h.creature(1, "Other", 1, 1)
	h.attack(first, second)

	h.block(first, blocker)
	assert.ErrorIs(t, h.state.AssignBlocker(second.ID, blocker.ID), ErrIllegalBlock)
	assert.ErrorIs(t, h.state.AssignBlocker(first.ID, other.ID), ErrIllegalBlock)

	notAttacking := h.creature(0, "Idle", 1, 1)
	assert.ErrorIs(t, h.state.AssignBlocker(notAttacking.ID, other.ID), ErrIllegalBlock)
	assert.ErrorIs(t, h.state.AssignBlocker(second.ID, first.ID), ErrIllegalBlock)
}

func TestDeclareAttackers(t *testing.T) {
	h := newCombatHarness(t)
	bear := h.creature(0, "Bear", 2, 2)
	angel := h.creature(0, "Angel", 4, 4, carddb.KeywordFlying, carddb.KeywordVigilance)
	goblin := h.createCreature(0, creatureSpec{Name: "Goblin", Power: 1, Toughness: 1, Keywords: []string{carddb.KeywordHaste}, Sick: true})

	h.attack(bear, angel, goblin)

	assert.True(t, bear.Attacking)
	assert.True(t, bear.Tapped)
	assert.True(t, angel.Attacking)
	assert.False(t, angel.Tapped, "vigilance keeps the attacker untapped")
	assert.True(t, goblin.Attacking)
	assert.Len(t, h.events.OfType(rules.EventAttackerDeclared), 3)
}

func TestDeclareAttackersIsAllOrNothing(t *testing.T) {
	h := newCombatHarness(t)
	bear := h.creature(0, "Bear", 2, 2)
	sick := h.createCreature(0, creatureSpec{Name: "Sick", Power: 2, Toughness: 2, Sick: true})
	theirs := h.creature(1, "Theirs", 2, 2)

	err := h.state.DeclareAttackers([]string{bear.ID, sick.ID})
	require.ErrorIs(t, err, ErrIllegalAction)
	assert.False(t, bear.Attacking)
	assert.False(t, bear.Tapped)

	assert.ErrorIs(t, h.state.DeclareAttackers([]string{theirs.ID}), ErrIllegalAction)
	assert.ErrorIs(t, h.state.DeclareAttackers([]string{"missing"}), ErrUnknownCard)
}

func TestEndCombatClearsMarkers(t *testing.T) {
	h := newCombatHarness(t)
	attacker := h.creature(0, "Wurm", 6, 6)
	blocker := h.creature(1, "Wall", 0, 7)
	h.attack(attacker)
	h.block(attacker, blocker)
	h.fight()

	h.state.EndCombat()
	assert.False(t, attacker.Attacking)
	assert.Empty(t, attacker.BlockedBy)
	assert.False(t, blocker.Blocking)
	assert.True(t, attacker.Tapped, "tapping outlives combat")
	assert.Len(t, h.events.OfType(rules.EventCombatEnded), 1)
}
