package game

import (
	"fmt"
	"slices"

	"github.com/Casiics/MagiCore/internal/game/rules"
)

// GameState is the authoritative state of one two-player game. It has no
// locks; one goroutine owns it.
type GameState struct {
	Players        [2]*Player
	Turn           rules.TurnManager
	Priority       rules.Priority
	Stack          rules.Stack
	StartingPlayer int

	// EmptyLibraryLoses makes a draw from an empty library a loss at the next
	// state-based check.
	EmptyLibraryLoses bool

	cards map[string]*Card
	sink  rules.Sink
}

// NewGameState creates an empty game. A nil sink discards events.
func NewGameState(startingLife int, sink rules.Sink) *GameState {
	if sink == nil {
		sink = rules.Discard
	}
	return &GameState{
		Players:           [2]*Player{NewPlayer(0, startingLife), NewPlayer(1, startingLife)},
		Turn:              rules.NewTurnManager(0),
		EmptyLibraryLoses: true,
		cards:             make(map[string]*Card),
		sink:              sink,
	}
}

// Player returns the player at index 0 or 1.
func (gs *GameState) Player(index int) *Player {
	return gs.Players[index]
}

// ActivePlayer returns the player whose turn it is.
func (gs *GameState) ActivePlayer() *Player {
	return gs.Players[gs.Turn.ActivePlayer()]
}

// Card returns the instance with id, or nil.
func (gs *GameState) Card(id string) *Card {
	return gs.cards[id]
}

// AddCard registers c and places it at the bottom of its owner's zone.
func (gs *GameState) AddCard(c *Card, zone Zone) {
	gs.cards[c.ID] = c
	c.Zone = zone
	if ids := gs.Players[c.Owner].zone(zone); ids != nil {
		*ids = append(*ids, c.ID)
	}
}

// CardCount returns the number of card instances in the game.
func (gs *GameState) CardCount() int {
	return len(gs.cards)
}

func (gs *GameState) lookup(ids []string) []*Card {
	out := make([]*Card, 0, len(ids))
	for _, id := range ids {
		if c := gs.cards[id]; c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Battlefield returns a player's permanents in battlefield order.
func (gs *GameState) Battlefield(player int) []*Card {
	return gs.lookup(gs.Players[player].Battlefield)
}

// Creatures returns a player's creatures in battlefield order.
func (gs *GameState) Creatures(player int) []*Card {
	var out []*Card
	for _, c := range gs.Battlefield(player) {
		if c.IsCreature() {
			out = append(out, c)
		}
	}
	return out
}

// Hand returns a player's hand in order.
func (gs *GameState) Hand(player int) []*Card {
	return gs.lookup(gs.Players[player].Hand)
}

// Graveyard returns a player's graveyard in order.
func (gs *GameState) Graveyard(player int) []*Card {
	return gs.lookup(gs.Players[player].Graveyard)
}

// Attackers returns the active player's attacking creatures in battlefield order.
func (gs *GameState) Attackers() []*Card {
	var out []*Card
	for _, c := range gs.Battlefield(gs.Turn.ActivePlayer()) {
		if c.Attacking {
			out = append(out, c)
		}
	}
	return out
}

// moveCard moves c from its current zone to zone of its owner. Leaving the
// battlefield or the stack drops all in-play state.
func (gs *GameState) moveCard(c *Card, zone Zone) {
	owner := gs.Players[c.Owner]
	if c.Zone != ZoneStack {
		owner.remove(c.Zone, c.ID)
	}
	if c.Zone == ZoneBattlefield || c.Zone == ZoneStack {
		c.leavePlay()
	}
	c.Zone = zone
	if ids := owner.zone(zone); ids != nil {
		*ids = append(*ids, c.ID)
	}
}

// DrawCard draws for player. The empty-library attempt is recorded on the player.
func (gs *GameState) DrawCard(player int) (*Card, error) {
	id, err := gs.Players[player].DrawCard()
	if err != nil {
		gs.emit(rules.NewEvent(rules.EventEmptyLibraryDraw, player, "", ""))
		return nil, fmt.Errorf("player %d draw: %w", player, err)
	}
	c := gs.cards[id]
	c.Zone = ZoneHand
	gs.emit(rules.NewEvent(rules.EventCardDrawn, player, id, ""))
	return c, nil
}

// emit stamps the turn and step on event and publishes it.
func (gs *GameState) emit(event rules.Event) {
	event.Turn = gs.Turn.TurnNumber()
	event.Step = gs.Turn.CurrentStep().String()
	gs.sink.Publish(event)
}

// IsOver reports whether a player has lost.
func (gs *GameState) IsOver() bool {
	return gs.Players[0].Lost || gs.Players[1].Lost
}

// Winner returns the winning player index. It returns -1 and true for a draw
// and false while the game is still running.
func (gs *GameState) Winner() (int, bool) {
	lost0, lost1 := gs.Players[0].Lost, gs.Players[1].Lost
	switch {
	case lost0 && lost1:
		return -1, true
	case lost0:
		return 1, true
	case lost1:
		return 0, true
	}
	return -1, false
}

// Clone returns an independent deep copy. Static card records are shared.
// The clone publishes nowhere.
func (gs *GameState) Clone() *GameState {
	cpy := &GameState{
		Turn:              gs.Turn,
		Priority:          gs.Priority,
		Stack:             gs.Stack.Clone(),
		StartingPlayer:    gs.StartingPlayer,
		EmptyLibraryLoses: gs.EmptyLibraryLoses,
		cards:             make(map[string]*Card, len(gs.cards)),
		sink:              rules.Discard,
	}
	for i, p := range gs.Players {
		cpy.Players[i] = p.Clone()
	}
	for id, c := range gs.cards {
		cpy.cards[id] = c.Clone()
	}
	return cpy
}

// Snapshot is the mutable part of a GameState. The set of card instances is
// fixed once a game starts, so a snapshot only records their values.
type Snapshot struct {
	cards    map[string]Card
	players  [2]Player
	turn     rules.TurnManager
	priority rules.Priority
	stack    rules.Stack
}

// Snapshot captures the mutable state.
func (gs *GameState) Snapshot() *Snapshot {
	snap := &Snapshot{
		cards:    make(map[string]Card, len(gs.cards)),
		turn:     gs.Turn,
		priority: gs.Priority,
		stack:    gs.Stack.Clone(),
	}
	for i, p := range gs.Players {
		snap.players[i] = *p.Clone()
	}
	for id, c := range gs.cards {
		snap.cards[id] = *c.Clone()
	}
	return snap
}

// Restore returns the state to snap. Pointers to cards and players stay valid.
func (gs *GameState) Restore(snap *Snapshot) {
	for id, saved := range snap.cards {
		c := gs.cards[id]
		if c == nil {
			continue
		}
		*c = saved
		c.Effects = slices.Clone(saved.Effects)
	}
	for i := range gs.Players {
		*gs.Players[i] = *snap.players[i].Clone()
	}
	gs.Turn = snap.turn
	gs.Priority = snap.priority
	gs.Stack = snap.stack.Clone()
}
