package game

import (
	"fmt"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game/rules"
)

// AttackCandidates returns the creatures player could declare as attackers,
// in battlefield order.
func (gs *GameState) AttackCandidates(player int) []*Card {
	var out []*Card
	for _, c := range gs.Battlefield(player) {
		if c.CanAttack() && !c.Attacking {
			out = append(out, c)
		}
	}
	return out
}

// DeclareAttackers marks ids as attacking for the active player and taps each
// one that lacks vigilance. Either every id is declared or none is.
func (gs *GameState) DeclareAttackers(ids []string) error {
	active := gs.Turn.ActivePlayer()
	attackers := make([]*Card, 0, len(ids))
	for _, id := range ids {
		c := gs.cards[id]
		switch {
		case c == nil:
			return fmt.Errorf("%w: %s", ErrUnknownCard, id)
		case c.Owner != active || c.Zone != ZoneBattlefield:
			return fmt.Errorf("%w: %s is not on the active player's battlefield", ErrIllegalAction, c.Name())
		case c.Attacking:
			return fmt.Errorf("%w: %s is already attacking", ErrIllegalAction, c.Name())
		case !c.CanAttack():
			return fmt.Errorf("%w: %s cannot attack", ErrIllegalAction, c.Name())
		}
		attackers = append(attackers, c)
	}
	for _, c := range attackers {
		c.Attacking = true
		if !c.HasKeyword(carddb.KeywordVigilance) {
			c.Tapped = true
		}
		gs.emit(rules.NewEvent(rules.EventAttackerDeclared, active, c.ID, ""))
	}
	return nil
}

// AssignBlocker blocks attacker with blocker. The blocking rules are enforced
// here, so an illegal block cannot be represented.
func (gs *GameState) AssignBlocker(attackerID, blockerID string) error {
	attacker, blocker := gs.cards[attackerID], gs.cards[blockerID]
	if attacker == nil || blocker == nil {
		return fmt.Errorf("%w: %s blocking %s", ErrUnknownCard, blockerID, attackerID)
	}
	defender := gs.Turn.DefendingPlayer()
	switch {
	case !attacker.Attacking:
		return fmt.Errorf("%w: %s is not attacking", ErrIllegalBlock, attacker.Name())
	case attacker.BlockedBy != "":
		return fmt.Errorf("%w: %s is already blocked", ErrIllegalBlock, attacker.Name())
	case blocker.Owner != defender || blocker.Zone != ZoneBattlefield || !blocker.IsCreature():
		return fmt.Errorf("%w: %s is not a defending creature", ErrIllegalBlock, blocker.Name())
	}
	if err := rules.CanBlock(attacker, blocker).Err(ErrIllegalBlock); err != nil {
		return err
	}
	attacker.BlockedBy = blocker.ID
	blocker.Blocking = true
	gs.emit(rules.NewEvent(rules.EventBlockerDeclared, defender, blocker.ID, attacker.ID))
	return nil
}

// BlockerOf returns the creature blocking attacker while it is still on the
// battlefield.
func (gs *GameState) BlockerOf(attacker *Card) *Card {
	if attacker.BlockedBy == "" {
		return nil
	}
	if b := gs.cards[attacker.BlockedBy]; b != nil && b.Zone == ZoneBattlefield {
		return b
	}
	return nil
}

// dealsDamageIn reports whether c deals combat damage in the first strike
// segment (firstStrike) or the regular one.
func dealsDamageIn(c *Card, firstStrike bool) bool {
	fs := c.HasKeyword(carddb.KeywordFirstStrike)
	ds := c.HasKeyword(carddb.KeywordDoubleStrike)
	if firstStrike {
		return fs || ds
	}
	return !fs
}

// damageTo is the damage source deals to a creature it fights.
func damageTo(source, target *Card) int {
	if source.HasKeyword(carddb.KeywordDeathtouch) {
		return target.RemainingLethal()
	}
	return source.Power()
}

// ResolveCombatDamage deals combat damage for one segment. Attackers are
// processed in battlefield order; a blocker strikes back under the same
// segment rule. A blocked attacker whose blocker has left deals no damage
// unless it has trample.
func (gs *GameState) ResolveCombatDamage(firstStrike bool) {
	defender := gs.Turn.DefendingPlayer()
	for _, attacker := range gs.Attackers() {
		blocker := gs.BlockerOf(attacker)
		dealt := 0

		if dealsDamageIn(attacker, firstStrike) && attacker.Power() > 0 {
			power := attacker.Power()
			switch {
			case blocker != nil:
				toBlocker := damageTo(attacker, blocker)
				if attacker.HasKeyword(carddb.KeywordTrample) {
					toBlocker = min(toBlocker, blocker.RemainingLethal())
					if excess := power - toBlocker; excess > 0 {
						gs.damagePlayer(attacker, defender, excess)
						dealt += excess
					}
				}
				gs.damageCreature(attacker, blocker, toBlocker)
				dealt += toBlocker
			case attacker.BlockedBy == "" || attacker.HasKeyword(carddb.KeywordTrample):
				gs.damagePlayer(attacker, defender, power)
				dealt += power
			}
			gs.applyLifelink(attacker, dealt)
		}

		if blocker != nil && dealsDamageIn(blocker, firstStrike) && blocker.Power() > 0 {
			back := damageTo(blocker, attacker)
			gs.damageCreature(blocker, attacker, back)
			gs.applyLifelink(blocker, back)
		}
	}
}

func (gs *GameState) damageCreature(source, target *Card, amount int) {
	if amount <= 0 {
		return
	}
	target.Damage += amount
	gs.emit(rules.NewEventWithAmount(rules.EventDamagedCreature, target.Owner, source.ID, target.ID, amount))
}

func (gs *GameState) damagePlayer(source *Card, player, amount int) {
	if amount <= 0 {
		return
	}
	gs.Players[player].Life -= amount
	gs.emit(rules.NewEventWithAmount(rules.EventDamagedPlayer, player, source.ID, "", amount))
}

func (gs *GameState) applyLifelink(source *Card, dealt int) {
	if dealt <= 0 || !source.HasKeyword(carddb.KeywordLifelink) {
		return
	}
	gs.Players[source.Owner].Life += dealt
	gs.emit(rules.NewEventWithAmount(rules.EventGainedLife, source.Owner, source.ID, "", dealt))
}

// EndCombat clears every attacking, blocked-by and blocking marker.
func (gs *GameState) EndCombat() {
	for _, p := range gs.Players {
		for _, c := range gs.lookup(p.Battlefield) {
			c.clearCombat()
		}
	}
	gs.emit(rules.NewEvent(rules.EventCombatEnded, gs.Turn.ActivePlayer(), "", ""))
}
