package game

import (
	"github.com/Casiics/MagiCore/internal/game/effects"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"go.uber.org/zap"
)

// SpellEffect applies a spell's effect to its target. It returns false when
// the spell fizzles.
type SpellEffect func(gs *GameState, spell, target *Card) bool

type spellDef struct {
	needsTarget bool
	resolve     SpellEffect
}

// spellRegistry holds the spells with an effect beyond entering the battlefield.
var spellRegistry = map[string]spellDef{
	"Giant Growth": {needsTarget: true, resolve: pumpTarget(3, 3)},
}

// pumpTarget gives the target creature +p/+t until end of turn.
func pumpTarget(p, t int) SpellEffect {
	return func(gs *GameState, spell, target *Card) bool {
		if target == nil || target.Zone != ZoneBattlefield || !target.IsCreature() {
			return false
		}
		target.AddEffect(effects.NewPowerToughness(spell.ID, p, t, effects.DurationEndOfTurn))
		return true
	}
}

// NeedsTarget reports whether the named spell takes a creature target.
func NeedsTarget(name string) bool {
	return spellRegistry[name].needsTarget
}

// ResolveTopItem pops and resolves the top of the stack. Permanent spells
// enter their owner's battlefield, creatures summoning sick. Instants and
// sorceries go to the graveyard whether they resolved or fizzled. It returns
// false on an empty stack.
func (gs *GameState) ResolveTopItem() bool {
	item, err := gs.Stack.Pop()
	if err != nil {
		return false
	}
	spell := gs.cards[item.SourceID]
	if spell == nil {
		return true
	}

	resolved := true
	if def, ok := spellRegistry[spell.Name()]; ok && def.resolve != nil {
		resolved = def.resolve(gs, spell, gs.cards[item.TargetID])
	}
	if resolved {
		gs.emit(rules.NewEvent(rules.EventSpellResolved, item.Controller, spell.ID, item.TargetID))
	} else {
		gs.emit(rules.NewEvent(rules.EventSpellFizzled, item.Controller, spell.ID, item.TargetID))
	}

	if spell.Static.IsPermanent() {
		gs.moveCard(spell, ZoneBattlefield)
		if spell.IsCreature() {
			spell.SummoningSick = true
		}
		gs.emit(rules.NewEvent(rules.EventEnteredBattlefield, spell.Owner, spell.ID, ""))
	} else {
		gs.moveCard(spell, ZoneGraveyard)
	}
	return true
}

// ResolveTopItem resolves the top of the stack and logs the result.
func (e *Engine) ResolveTopItem() bool {
	top, ok := e.state.Stack.Peek()
	if !ok {
		return false
	}
	e.state.ResolveTopItem()
	e.logger.Debug("resolved stack item",
		zap.String("card_id", top.SourceID),
		zap.String("description", top.Description),
		zap.Int("remaining", e.state.Stack.Len()),
	)
	return true
}
