package game

import (
	"github.com/Casiics/MagiCore/internal/game/rules"
)

// lethal is the destruction predicate of the state-based check.
func lethal(c *Card) bool {
	t := c.Toughness()
	return t <= 0 || c.Damage >= t
}

func (gs *GameState) firstLethalCreature() *Card {
	for _, p := range gs.Players {
		for _, c := range gs.lookup(p.Battlefield) {
			if c.IsCreature() && lethal(c) {
				return c
			}
		}
	}
	return nil
}

// CheckStateBasedActions destroys creatures with zero toughness or lethal
// damage until a full scan finds none, restarting the scan after every
// destruction. It then marks players at zero life, and players who drew from
// an empty library when EmptyLibraryLoses is set, as lost. It returns the ids
// destroyed, in order.
func (gs *GameState) CheckStateBasedActions() []string {
	var destroyed []string
	for {
		c := gs.firstLethalCreature()
		if c == nil {
			break
		}
		gs.moveCard(c, ZoneGraveyard)
		destroyed = append(destroyed, c.ID)
		gs.emit(rules.NewEvent(rules.EventPermanentDies, c.Owner, c.ID, ""))
	}

	for _, p := range gs.Players {
		if p.Lost {
			continue
		}
		if p.Life <= 0 || (gs.EmptyLibraryLoses && p.DrewFromEmpty) {
			p.Lost = true
			gs.emit(rules.NewEvent(rules.EventPlayerLost, p.Index, "", ""))
		}
	}

	if len(destroyed) > 0 {
		evt := rules.NewEventWithAmount(rules.EventStateBasedActions, gs.Turn.ActivePlayer(), "", "", len(destroyed))
		gs.emit(evt)
	}
	return destroyed
}
