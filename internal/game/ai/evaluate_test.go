package ai

import (
	"testing"

	"github.com/Casiics/MagiCore/internal/game"
	"github.com/Casiics/MagiCore/internal/game/effects"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	b := newBoard(t, rules.StepMain1)
	b.gs.Player(1).Life = 15
	b.creature(0, "Bear", 2, 2)
	b.creature(1, "Ogre", 3, 3)
	b.add(0, "Forest", game.ZoneBattlefield)
	b.add(0, "Forest", game.ZoneHand)
	b.add(0, "Grizzly Bears", game.ZoneHand)
	b.add(1, "Forest", game.ZoneGraveyard)
	before := b.gs.Checksum()

	// 1.5*5 + 4 - 6 + 0.5*2
	assert.InDelta(t, 6.5, Evaluate(b.gs, 0), 1e-9)
	assert.InDelta(t, -6.5, Evaluate(b.gs, 1), 1e-9)
	assert.Equal(t, before, b.gs.Checksum())
}

func TestEvaluateUsesModifiedStats(t *testing.T) {
	b := newBoard(t, rules.StepMain1)
	bear := b.creature(0, "Bear", 2, 2)
	assert.InDelta(t, 4.0, Evaluate(b.gs, 0), 1e-9)

	bear.AddEffect(effects.NewPowerToughness("growth", 3, 3, effects.DurationEndOfTurn))
	assert.InDelta(t, 10.0, Evaluate(b.gs, 0), 1e-9)
}
