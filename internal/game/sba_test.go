package game

import (
	"testing"

	"github.com/Casiics/MagiCore/internal/game/effects"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateBasedActionsFixpoint(t *testing.T) {
	h := newHarness(t)
	boards := []struct {
		owner     int
		power     int
		toughness int
		damage    int
	}{
		{0, 2, 2, 2},
		{0, 3, 3, 1},
		{0, 0, 0, 0},
		{1, 1, 4, 5},
		{1, 4, 4, 3},
		{1, 2, 1, 0},
	}
	for i, b := range boards {
		c := h.creature(b.owner, "c", b.power, b.toughness)
		c.Damage = b.damage
		if i == 5 {
			c.AddEffect(effects.NewPowerToughness("shrink", 0, -1, effects.DurationEndOfTurn))
		}
	}
	forest := h.add(0, "Forest", ZoneBattlefield)

	destroyed := h.state.CheckStateBasedActions()
	assert.Len(t, destroyed, 4)

	for player := range 2 {
		for _, c := range h.state.Creatures(player) {
			assert.Greater(t, c.Toughness(), 0)
			assert.Less(t, c.Damage, c.Toughness())
		}
	}
	h.assertOnBattlefield(forest)
	assert.Len(t, h.events.OfType(rules.EventPermanentDies), 4)
	assert.Empty(t, h.state.CheckStateBasedActions(), "a second pass finds nothing")
}

func TestStateBasedActionsDropsEffects(t *testing.T) {
	h := newHarness(t)
	c := h.creature(0, "Bear", 2, 2)
	c.AddEffect(effects.NewPowerToughness("growth", 3, 3, effects.DurationEndOfTurn))
	c.Damage = 5

	h.state.CheckStateBasedActions()
	h.assertCreatureDead(c)
	assert.Empty(t, c.Effects)
	assert.Zero(t, c.Damage)
}

func TestStateBasedActionsModifierKeepsCreatureAlive(t *testing.T) {
	h := newHarness(t)
	c := h.creature(0, "Bear", 2, 2)
	c.Damage = 2
	c.AddEffect(effects.NewPowerToughness("growth", 3, 3, effects.DurationEndOfTurn))

	assert.Empty(t, h.state.CheckStateBasedActions())
	h.assertOnBattlefield(c)
}

func TestStateBasedActionsPlayerLoss(t *testing.T) {
	tests := []struct {
		name       string
		life       [2]int
		drewEmpty  bool
		emptyLoses bool
		winner     int
		over       bool
	}{
		{"healthy", [2]int{20, 20}, false, true, -1, false},
		{"zero life", [2]int{20, 0}, false, true, 0, true},
		{"negative life", [2]int{-3, 5}, false, true, 1, true},
		{"both dead", [2]int{0, 0}, false, true, -1, true},
		{"empty library loses", [2]int{20, 20}, true, true, 1, true},
		{"empty library tolerated", [2]int{20, 20}, true, false, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.state.EmptyLibraryLoses = tt.emptyLoses
			h.state.Player(0).Life = tt.life[0]
			h.state.Player(1).Life = tt.life[1]
			if tt.drewEmpty {
				_, err := h.state.DrawCard(0)
				require.ErrorIs(t, err, ErrEmptyLibrary)
			}

			h.state.CheckStateBasedActions()
			winner, over := h.state.Winner()
			assert.Equal(t, tt.over, over)
			assert.Equal(t, tt.over, h.state.IsOver())
			assert.Equal(t, tt.winner, winner)
		})
	}
}

func TestDrawFromEmptyLibraryMovesNothing(t *testing.T) {
	h := newHarness(t)
	p := h.state.Player(1)

	_, err := h.state.DrawCard(1)
	require.ErrorIs(t, err, ErrEmptyLibrary)
	assert.True(t, p.DrewFromEmpty)
	assert.Empty(t, p.Hand)
	assert.Len(t, h.events.OfType(rules.EventEmptyLibraryDraw), 1)

	bear := h.add(1, "Grizzly Bears", ZoneLibrary)
	drawn, err := h.state.DrawCard(1)
	require.NoError(t, err)
	assert.Same(t, bear, drawn)
	assert.Equal(t, ZoneHand, bear.Zone)
	assert.Equal(t, []string{bear.ID}, p.Hand)
}
