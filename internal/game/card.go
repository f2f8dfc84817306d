package game

import (
	"strings"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game/effects"
	"github.com/Casiics/MagiCore/internal/game/mana"
	"github.com/Casiics/MagiCore/internal/game/rules"
)

// Zone identifies where a card instance is.
type Zone int

const (
	ZoneLibrary Zone = iota
	ZoneHand
	ZoneBattlefield
	ZoneGraveyard
	ZoneExile
	ZoneStack
)

var zoneNames = map[Zone]string{
	ZoneLibrary:     "LIBRARY",
	ZoneHand:        "HAND",
	ZoneBattlefield: "BATTLEFIELD",
	ZoneGraveyard:   "GRAVEYARD",
	ZoneExile:       "EXILE",
	ZoneStack:       "STACK",
}

func (z Zone) String() string {
	if name, ok := zoneNames[z]; ok {
		return name
	}
	return "UNKNOWN"
}

// Card is one instance of a static card in a game. Static is shared between
// instances and clones and is never mutated.
type Card struct {
	ID     string
	Static *carddb.Card
	Owner  int
	Zone   Zone

	Tapped        bool
	Attacking     bool
	BlockedBy     string // blocker instance id, set on attackers
	Blocking      bool   // consumed as a blocker this combat
	SummoningSick bool
	Damage        int
	Effects       []effects.Effect
	Target        string // stack target instance id while on the stack
}

// Card implements both the payment and blocking views.
var (
	_ mana.Source     = (*Card)(nil)
	_ rules.Combatant = (*Card)(nil)
)

// NewCard creates an instance of static owned by owner, in its owner's library.
func NewCard(id string, static *carddb.Card, owner int) *Card {
	return &Card{ID: id, Static: static, Owner: owner, Zone: ZoneLibrary}
}

// Name returns the card name.
func (c *Card) Name() string { return c.Static.Name }

// Power is base power plus every active modifier.
func (c *Card) Power() int {
	p, _ := effects.Deltas(c.Effects)
	return c.Static.BasePower() + p
}

// Toughness is base toughness plus every active modifier.
func (c *Card) Toughness() int {
	_, t := effects.Deltas(c.Effects)
	return c.Static.BaseToughness() + t
}

// Value is the heuristic size of a creature.
func (c *Card) Value() int {
	return c.Power() + c.Toughness()
}

// RemainingLethal is the damage still needed to destroy the creature.
func (c *Card) RemainingLethal() int {
	return max(0, c.Toughness()-c.Damage)
}

// HasManaCost reports whether the card prints a mana cost. "{0}" counts.
func (c *Card) HasManaCost() bool { return strings.TrimSpace(c.Static.ManaCost) != "" }

func (c *Card) HasKeyword(keyword string) bool { return c.Static.HasKeyword(keyword) }
func (c *Card) HasColor(code string) bool { return c.Static.HasColor(code) }
func (c *Card) IsArtifact() bool { return c.Static.IsArtifact() }
func (c *Card) IsCreature() bool { return c.Static.IsCreature() }
func (c *Card) IsLand() bool { return c.Static.IsLand() }
func (c *Card) IsTapped() bool { return c.Tapped }
func (c *Card) SetTapped(tapped bool) { c.Tapped = tapped }
func (c *Card) IsBlocking() bool { return c.Blocking }

// ProducedColor is the color the card makes when tapped for mana. Lands use
// the basic land mapping; other permanents use their oracle text.
func (c *Card) ProducedColor() mana.Color {
	if c.IsLand() {
		return mana.LandColor(c.Name())
	}
	if ability, ok := rules.ParseManaAbility(c.Static.OracleText); ok {
		if color, ok := mana.ParseColor(ability.Symbol); ok {
			return color
		}
	}
	return mana.Colorless
}

// HasManaAbility reports whether the card can be tapped for mana.
func (c *Card) HasManaAbility() bool {
	if c.IsLand() {
		return true
	}
	_, ok := rules.ParseManaAbility(c.Static.OracleText)
	return ok
}

// CanAttack reports whether an untapped creature is free of summoning sickness
// or has haste.
func (c *Card) CanAttack() bool {
	return c.Zone == ZoneBattlefield && c.IsCreature() && !c.Tapped &&
		(!c.SummoningSick || c.HasKeyword(carddb.KeywordHaste))
}

// AddEffect attaches a modifier.
func (c *Card) AddEffect(effect effects.Effect) {
	c.Effects = append(c.Effects, effect)
}

// clearCombat drops every combat marker.
func (c *Card) clearCombat() {
	c.Attacking = false
	c.BlockedBy = ""
	c.Blocking = false
}

// leavePlay resets everything that does not survive a zone change.
func (c *Card) leavePlay() {
	c.clearCombat()
	c.Tapped = false
	c.SummoningSick = false
	c.Damage = 0
	c.Effects = nil
	c.Target = ""
}

// Clone returns an independent copy sharing the static record.
func (c *Card) Clone() *Card {
	cpy := *c
	if c.Effects != nil {
		cpy.Effects = append([]effects.Effect(nil), c.Effects...)
	}
	return &cpy
}
