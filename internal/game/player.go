package game

import (
	"slices"

	"github.com/Casiics/MagiCore/internal/game/mana"
)

// Player holds a player's life, pool and zones. Zones are ordered lists of
// card instance ids; index 0 of Library is the top.
type Player struct {
	Index         int
	Life          int
	Pool          mana.Pool
	Hand          []string
	Library       []string
	Graveyard     []string
	Exile         []string
	Battlefield   []string
	LandsPlayed   int
	Lost          bool
	DrewFromEmpty bool
}

// NewPlayer creates a player with an empty board.
func NewPlayer(index, life int) *Player {
	return &Player{Index: index, Life: life}
}

// DrawCard moves the top card of the library to the hand and returns its id.
// On an empty library nothing moves and the attempt is recorded.
func (p *Player) DrawCard() (string, error) {
	if len(p.Library) == 0 {
		p.DrewFromEmpty = true
		return "", ErrEmptyLibrary
	}
	id := p.Library[0]
	p.Library = p.Library[1:]
	p.Hand = append(p.Hand, id)
	return id, nil
}

// zone returns a pointer to the id list for z, or nil for the stack.
func (p *Player) zone(z Zone) *[]string {
	switch z {
	case ZoneLibrary:
		return &p.Library
	case ZoneHand:
		return &p.Hand
	case ZoneBattlefield:
		return &p.Battlefield
	case ZoneGraveyard:
		return &p.Graveyard
	case ZoneExile:
		return &p.Exile
	}
	return nil
}

// Zone returns a copy of the ids in z.
func (p *Player) Zone(z Zone) []string {
	if ids := p.zone(z); ids != nil {
		return slices.Clone(*ids)
	}
	return nil
}

func (p *Player) remove(z Zone, id string) bool {
	ids := p.zone(z)
	if ids == nil {
		return false
	}
	i := slices.Index(*ids, id)
	if i < 0 {
		return false
	}
	*ids = slices.Delete(*ids, i, i+1)
	return true
}

// Clone returns an independent copy.
func (p *Player) Clone() *Player {
	cpy := *p
	cpy.Hand = slices.Clone(p.Hand)
	cpy.Library = slices.Clone(p.Library)
	cpy.Graveyard = slices.Clone(p.Graveyard)
	cpy.Exile = slices.Clone(p.Exile)
	cpy.Battlefield = slices.Clone(p.Battlefield)
	return &cpy
}
