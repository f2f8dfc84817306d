// Package watchers provides the match statistics watchers.
package watchers

import (
	"github.com/Casiics/MagiCore/internal/game/rules"
)

// playerTally counts something per player index.
type playerTally struct {
	*rules.BaseWatcher
	eventType rules.EventType
	useAmount bool
	counts    [2]int
}

func newPlayerTally(key string, eventType rules.EventType, useAmount bool) *playerTally {
	return &playerTally{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame, key),
		eventType:   eventType,
		useAmount:   useAmount,
	}
}

// Watch implements the Watcher interface.
func (w *playerTally) Watch(event rules.Event) {
	if event.Type != w.eventType || event.PlayerID < 0 || event.PlayerID > 1 {
		return
	}
	if w.useAmount {
		w.counts[event.PlayerID] += event.Amount
	} else {
		w.counts[event.PlayerID]++
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *playerTally) Reset() {
	w.BaseWatcher.Reset()
	w.counts = [2]int{}
}

// Count returns the tally for a player.
func (w *playerTally) Count(player int) int {
	if player < 0 || player > 1 {
		return 0
	}
	return w.counts[player]
}

// Total returns the tally across both players.
func (w *playerTally) Total() int {
	return w.counts[0] + w.counts[1]
}

// SpellsCastWatcher tracks spells cast by each player.
type SpellsCastWatcher struct{ *playerTally }

// NewSpellsCastWatcher creates a new spells cast watcher.
func NewSpellsCastWatcher() *SpellsCastWatcher {
	return &SpellsCastWatcher{newPlayerTally("SpellsCastWatcher", rules.EventSpellCast, false)}
}

// CreaturesDiedWatcher tracks creatures that went to the graveyard from the
// battlefield, by owner.
type CreaturesDiedWatcher struct{ *playerTally }

// NewCreaturesDiedWatcher creates a new creatures died watcher.
func NewCreaturesDiedWatcher() *CreaturesDiedWatcher {
	return &CreaturesDiedWatcher{newPlayerTally("CreaturesDiedWatcher", rules.EventPermanentDies, false)}
}

// CardsDrawnWatcher tracks cards drawn by players.
type CardsDrawnWatcher struct{ *playerTally }

// NewCardsDrawnWatcher creates a new cards drawn watcher.
func NewCardsDrawnWatcher() *CardsDrawnWatcher {
	return &CardsDrawnWatcher{newPlayerTally("CardsDrawnWatcher", rules.EventCardDrawn, false)}
}

// DamageTakenWatcher sums damage dealt to each player.
type DamageTakenWatcher struct{ *playerTally }

// NewDamageTakenWatcher creates a new damage watcher.
func NewDamageTakenWatcher() *DamageTakenWatcher {
	return &DamageTakenWatcher{newPlayerTally("DamageTakenWatcher", rules.EventDamagedPlayer, true)}
}

// LifeGainedWatcher sums life gained by each player.
type LifeGainedWatcher struct{ *playerTally }

// NewLifeGainedWatcher creates a new life gain watcher.
func NewLifeGainedWatcher() *LifeGainedWatcher {
	return &LifeGainedWatcher{newPlayerTally("LifeGainedWatcher", rules.EventGainedLife, true)}
}

// AttacksWatcher counts attacking creatures declared by each player this turn.
type AttacksWatcher struct{ *playerTally }

// NewAttacksWatcher creates a turn-scoped attackers watcher.
func NewAttacksWatcher() *AttacksWatcher {
	t := newPlayerTally("AttacksWatcher", rules.EventAttackerDeclared, false)
	t.BaseWatcher = rules.NewBaseWatcher(rules.WatcherScopeTurn, "AttacksWatcher")
	return &AttacksWatcher{t}
}

// Stats is the set of watchers a match records.
type Stats struct {
	SpellsCast    *SpellsCastWatcher
	CreaturesDied *CreaturesDiedWatcher
	CardsDrawn    *CardsDrawnWatcher
	DamageTaken   *DamageTakenWatcher
	LifeGained    *LifeGainedWatcher
	Attacks       *AttacksWatcher
}

// NewStats creates every watcher and registers them with reg.
func NewStats(reg *rules.WatcherRegistry) *Stats {
	s := &Stats{
		SpellsCast:    NewSpellsCastWatcher(),
		CreaturesDied: NewCreaturesDiedWatcher(),
		CardsDrawn:    NewCardsDrawnWatcher(),
		DamageTaken:   NewDamageTakenWatcher(),
		LifeGained:    NewLifeGainedWatcher(),
		Attacks:       NewAttacksWatcher(),
	}
	for _, w := range []rules.Watcher{s.SpellsCast, s.CreaturesDied, s.CardsDrawn, s.DamageTaken, s.LifeGained, s.Attacks} {
		reg.AddWatcher(w)
	}
	return s
}
