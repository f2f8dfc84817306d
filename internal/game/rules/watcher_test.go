package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingWatcher struct {
	*BaseWatcher
	eventType EventType
	count     int
}

func newCountingWatcher(scope WatcherScope, key string, eventType EventType) *countingWatcher {
	return &countingWatcher{BaseWatcher: NewBaseWatcher(scope, key), eventType: eventType}
}

func (w *countingWatcher) Watch(e Event) {
	if e.Type == w.eventType {
		w.count++
		w.SetCondition(true)
	}
}

func (w *countingWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.count = 0
}

func TestWatcherRegistry(t *testing.T) {
	reg := NewWatcherRegistry()
	game := newCountingWatcher(WatcherScopeGame, "game-draws", EventCardDrawn)
	turn := newCountingWatcher(WatcherScopeTurn, "turn-draws", EventCardDrawn)
	reg.AddWatcher(game)
	reg.AddWatcher(turn)
	reg.AddWatcher(nil)

	bus := NewEventBus()
	bus.Subscribe(reg.Publish)

	bus.Publish(NewEvent(EventCardDrawn, 0, "a", ""))
	bus.Publish(NewEvent(EventCardDrawn, 1, "b", ""))
	bus.Publish(NewEvent(EventSpellCast, 1, "c", ""))
	assert.Equal(t, 2, game.count)
	assert.Equal(t, 2, turn.count)
	assert.True(t, turn.ConditionMet())

	bus.Publish(NewEvent(EventTurnStarted, 1, "", ""))
	assert.Equal(t, 2, game.count)
	assert.Equal(t, 0, turn.count)
	assert.False(t, turn.ConditionMet())

	assert.Same(t, game, reg.GetWatcher("game-draws"))
	assert.Len(t, reg.GetAllWatchers(), 2)

	reg.ResetWatchers()
	assert.Equal(t, 0, game.count)
}

func TestWatcherRegistryReplacesKey(t *testing.T) {
	reg := NewWatcherRegistry()
	first := newCountingWatcher(WatcherScopeGame, "k", EventCardDrawn)
	second := newCountingWatcher(WatcherScopeGame, "k", EventCardDrawn)
	reg.AddWatcher(first)
	reg.AddWatcher(second)

	reg.Publish(NewEvent(EventCardDrawn, 0, "", ""))
	assert.Equal(t, 0, first.count)
	assert.Equal(t, 1, second.count)
	assert.Len(t, reg.GetAllWatchers(), 1)
	assert.Equal(t, "TURN", WatcherScopeTurn.String())
}
