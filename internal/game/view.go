package game

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/crypto/blake2b"
)

// CardView is the observable state of a card instance.
type CardView struct {
	ID            string       `json:"id"`
	OracleID      string       `json:"oracle_id"`
	Name          string       `json:"name"`
	Owner         int          `json:"owner"`
	Zone          string       `json:"zone"`
	Power         int          `json:"power"`
	Toughness     int          `json:"toughness"`
	Tapped        bool         `json:"tapped,omitempty"`
	Attacking     bool         `json:"attacking,omitempty"`
	BlockedBy     string       `json:"blocked_by,omitempty"`
	Blocking      bool         `json:"blocking,omitempty"`
	SummoningSick bool         `json:"summoning_sick,omitempty"`
	Damage        int          `json:"damage,omitempty"`
	Target        string       `json:"target,omitempty"`
	Effects       []EffectView `json:"effects,omitempty"`
}

// EffectView omits the effect id, which is not derived from the game seed.
type EffectView struct {
	Kind      string `json:"kind"`
	Duration  string `json:"duration"`
	SourceID  string `json:"source_id"`
	Power     int    `json:"power"`
	Toughness int    `json:"toughness"`
}

// PlayerView is the observable state of a player.
type PlayerView struct {
	Index         int            `json:"index"`
	Life          int            `json:"life"`
	Pool          map[string]int `json:"pool"`
	LandsPlayed   int            `json:"lands_played"`
	Lost          bool           `json:"lost,omitempty"`
	DrewFromEmpty bool           `json:"drew_from_empty,omitempty"`
	Library       []string       `json:"library,omitempty"`
	Hand          []CardView     `json:"hand,omitempty"`
	Battlefield   []CardView     `json:"battlefield,omitempty"`
	Graveyard     []CardView     `json:"graveyard,omitempty"`
	Exile         []CardView     `json:"exile,omitempty"`
}

// StackItemView is one pending spell.
type StackItemView struct {
	Controller int      `json:"controller"`
	Card       CardView `json:"card"`
	TargetID   string   `json:"target_id,omitempty"`
}

// GameView is the canonical, serializable view of a GameState. Zones appear
// in zone order, so two equal states always render the same view. Empty lists
// are omitted so a view survives a gob round trip with the same checksum.
type GameView struct {
	Turn            int             `json:"turn"`
	Phase           string          `json:"phase"`
	Step            string          `json:"step"`
	ActivePlayer    int             `json:"active_player"`
	PriorityHolder  int             `json:"priority_holder"`
	PriorityPasses  int             `json:"priority_passes"`
	StepActionsDone bool            `json:"step_actions_done"`
	Players         []PlayerView    `json:"players,omitempty"`
	Stack           []StackItemView `json:"stack,omitempty"`
}

func (gs *GameState) cardView(c *Card) CardView {
	v := CardView{
		ID:            c.ID,
		OracleID:      c.Static.OracleID,
		Name:          c.Name(),
		Owner:         c.Owner,
		Zone:          c.Zone.String(),
		Power:         c.Power(),
		Toughness:     c.Toughness(),
		Tapped:        c.Tapped,
		Attacking:     c.Attacking,
		BlockedBy:     c.BlockedBy,
		Blocking:      c.Blocking,
		SummoningSick: c.SummoningSick,
		Damage:        c.Damage,
		Target:        c.Target,
	}
	for _, e := range c.Effects {
		v.Effects = append(v.Effects, EffectView{
			Kind:      string(e.Kind),
			Duration:  string(e.Duration),
			SourceID:  e.SourceID,
			Power:     e.Power,
			Toughness: e.Toughness,
		})
	}
	return v
}

func (gs *GameState) cardViews(ids []string) []CardView {
	out := make([]CardView, 0, len(ids))
	for _, c := range gs.lookup(ids) {
		out = append(out, gs.cardView(c))
	}
	return out
}

// View renders the canonical view of the state.
func (gs *GameState) View() GameView {
	v := GameView{
		Turn:            gs.Turn.TurnNumber(),
		Phase:           gs.Turn.CurrentPhase().String(),
		Step:            gs.Turn.CurrentStep().String(),
		ActivePlayer:    gs.Turn.ActivePlayer(),
		PriorityHolder:  gs.Priority.Holder(),
		PriorityPasses:  gs.Priority.Passes(),
		StepActionsDone: gs.Turn.StepActionsDone(),
	}
	for _, p := range gs.Players {
		v.Players = append(v.Players, PlayerView{
			Index: p.Index,
			Life:  p.Life,
			Pool: map[string]int{
				"W": p.Pool.White, "U": p.Pool.Blue, "B": p.Pool.Black,
				"R": p.Pool.Red, "G": p.Pool.Green, "C": p.Pool.Colorless,
			},
			LandsPlayed:   p.LandsPlayed,
			Lost:          p.Lost,
			DrewFromEmpty: p.DrewFromEmpty,
			Library:       slices.Clone(p.Library),
			Hand:          gs.cardViews(p.Hand),
			Battlefield:   gs.cardViews(p.Battlefield),
			Graveyard:     gs.cardViews(p.Graveyard),
			Exile:         gs.cardViews(p.Exile),
		})
	}
	for _, item := range gs.Stack.Items() {
		sv := StackItemView{Controller: item.Controller, TargetID: item.TargetID}
		if c := gs.cards[item.SourceID]; c != nil {
			sv.Card = gs.cardView(c)
		}
		v.Stack = append(v.Stack, sv)
	}
	return v
}

// ChecksumView returns the hex blake2b-256 digest of the JSON encoding of v.
func ChecksumView(v GameView) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode view: %w", err)
	}
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Checksum digests the canonical view of the state. Equal states give equal
// checksums across clones, restores and replays.
func (gs *GameState) Checksum() string {
	sum, err := ChecksumView(gs.View())
	if err != nil {
		// A GameView holds only strings, ints, bools, slices and a string map.
		panic(err)
	}
	return sum
}
