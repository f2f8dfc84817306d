package watchers

import (
	"testing"

	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/assert"
)

func TestStatsTallies(t *testing.T) {
	reg := rules.NewWatcherRegistry()
	stats := NewStats(reg)

	reg.Publish(rules.NewEvent(rules.EventSpellCast, 0, "bear", ""))
	reg.Publish(rules.NewEvent(rules.EventSpellCast, 0, "growth", ""))
	reg.Publish(rules.NewEvent(rules.EventSpellCast, 1, "elf", ""))
	reg.Publish(rules.NewEvent(rules.EventPermanentDies, 1, "elf", ""))
	reg.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, 1, "bear", "", 2))
	reg.Publish(rules.NewEventWithAmount(rules.EventDamagedPlayer, 1, "bear", "", 3))
	reg.Publish(rules.NewEventWithAmount(rules.EventGainedLife, 0, "nighthawk", "", 2))
	reg.Publish(rules.NewEvent(rules.EventCardDrawn, 0, "x", ""))
	reg.Publish(rules.NewEvent(rules.EventAttackerDeclared, 0, "bear", ""))

	assert.Equal(t, 2, stats.SpellsCast.Count(0))
	assert.Equal(t, 1, stats.SpellsCast.Count(1))
	assert.Equal(t, 3, stats.SpellsCast.Total())
	assert.Equal(t, 1, stats.CreaturesDied.Count(1))
	assert.Equal(t, 5, stats.DamageTaken.Count(1))
	assert.Equal(t, 0, stats.DamageTaken.Count(0))
	assert.Equal(t, 2, stats.LifeGained.Count(0))
	assert.Equal(t, 1, stats.CardsDrawn.Count(0))
	assert.Equal(t, 1, stats.Attacks.Count(0))
	assert.Equal(t, 0, stats.Attacks.Count(7))

	reg.Publish(rules.NewEvent(rules.EventTurnStarted, 1, "", ""))
	assert.Equal(t, 0, stats.Attacks.Count(0), "attacks reset each turn")
	assert.Equal(t, 5, stats.DamageTaken.Count(1), "game scope survives turns")
}

func TestTallyIgnoresBadPlayers(t *testing.T) {
	w := NewSpellsCastWatcher()
	w.Watch(rules.NewEvent(rules.EventSpellCast, 5, "", ""))
	w.Watch(rules.NewEvent(rules.EventSpellCast, -1, "", ""))
	assert.Equal(t, 0, w.Total())
	assert.False(t, w.ConditionMet())

	w.Watch(rules.NewEvent(rules.EventSpellCast, 1, "", ""))
	assert.True(t, w.ConditionMet())
	w.Reset()
	assert.Equal(t, 0, w.Total())
	assert.False(t, w.ConditionMet())
}
