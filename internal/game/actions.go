package game

import (
	"context"
	"fmt"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game/mana"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ActionKind names what a player does with priority.
type ActionKind string

const (
	ActionPass        ActionKind = "PASS"
	ActionPlayLand    ActionKind = "PLAY_LAND"
	ActionCastSpell   ActionKind = "CAST_SPELL"
	ActionManaAbility ActionKind = "ACTIVATE_MANA"
)

// Action is one choice available to the priority holder.
type Action struct {
	Kind     ActionKind
	Player   int
	CardID   string
	TargetID string
}

// Pass is the pass action for player.
func Pass(player int) Action {
	return Action{Kind: ActionPass, Player: player}
}

func (a Action) String() string {
	switch {
	case a.Kind == ActionPass:
		return fmt.Sprintf("%s(p%d)", a.Kind, a.Player)
	case a.TargetID != "":
		return fmt.Sprintf("%s(p%d, %s -> %s)", a.Kind, a.Player, a.CardID, a.TargetID)
	default:
		return fmt.Sprintf("%s(p%d, %s)", a.Kind, a.Player, a.CardID)
	}
}

// Window returns the timing context of player.
func (gs *GameState) Window(player int) rules.Window {
	return rules.Window{
		Player:       player,
		ActivePlayer: gs.Turn.ActivePlayer(),
		HasPriority:  gs.Priority.Holder() == player,
		MainPhase:    gs.Turn.IsMainPhase(),
		StackEmpty:   gs.Stack.IsEmpty(),
		LandsPlayed:  gs.Players[player].LandsPlayed,
	}
}

// inHand returns the card if player holds it.
func (gs *GameState) inHand(player int, cardID string) (*Card, error) {
	c := gs.cards[cardID]
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}
	if c.Owner != player || c.Zone != ZoneHand {
		return nil, fmt.Errorf("%w: %s is not in player %d's hand", ErrIllegalAction, c.Name(), player)
	}
	return c, nil
}

// PlayLand puts a land from hand onto the battlefield.
func (e *Engine) PlayLand(player int, cardID string) error {
	gs := e.state
	c, err := gs.inHand(player, cardID)
	if err != nil {
		return err
	}
	if !c.IsLand() {
		return fmt.Errorf("%w: %s is not a land", ErrIllegalAction, c.Name())
	}
	if err := rules.CheckTiming(rules.ActionPlayLand, gs.Window(player)).Err(ErrIllegalAction); err != nil {
		return err
	}
	gs.moveCard(c, ZoneBattlefield)
	gs.Players[player].LandsPlayed++
	gs.emit(rules.NewEvent(rules.EventLandPlayed, player, c.ID, ""))
	e.logger.Debug("land played", zap.Int("player", player), zap.String("card", c.Name()))
	return nil
}

func spellTiming(c *Card) rules.ActionType {
	return rules.SpellTiming(c.Static.TypeLine, c.HasKeyword(carddb.KeywordFlash))
}

// CastSpell pays for a spell from hand and puts it on the stack. Payment is
// all or nothing; on any error nothing has changed.
func (e *Engine) CastSpell(player int, cardID, targetID string) error {
	gs := e.state
	c, err := gs.inHand(player, cardID)
	if err != nil {
		return err
	}
	if c.IsLand() {
		return fmt.Errorf("%w: lands are played, not cast", ErrIllegalAction)
	}
	if !c.HasManaCost() {
		return fmt.Errorf("%w: %s has no mana cost", ErrIllegalAction, c.Name())
	}
	if err := rules.CheckTiming(spellTiming(c), gs.Window(player)).Err(ErrIllegalAction); err != nil {
		return err
	}
	cost, err := mana.ParseCost(c.Static.ManaCost)
	if err != nil {
		return fmt.Errorf("cast %s: %w", c.Name(), err)
	}

	p := gs.Players[player]
	tapped, err := mana.Pay(&p.Pool, cost, gs.Battlefield(player))
	if err != nil {
		gs.emit(rules.NewEvent(rules.EventPaymentFailed, player, c.ID, ""))
		return fmt.Errorf("cast %s: %w", c.Name(), err)
	}

	p.remove(ZoneHand, c.ID)
	c.Zone = ZoneStack
	c.Target = targetID
	gs.Stack.Push(rules.StackItem{
		ID:          uuid.NewString(),
		Controller:  player,
		Description: c.Name(),
		Kind:        rules.StackItemKindSpell,
		SourceID:    c.ID,
		TargetID:    targetID,
	})
	gs.emit(rules.NewEvent(rules.EventSpellCast, player, c.ID, targetID))
	e.logger.Debug("spell cast",
		zap.Int("player", player),
		zap.String("card", c.Name()),
		zap.String("cost", cost.String()),
		zap.Int("lands_tapped", len(tapped)),
		zap.String("target_id", targetID),
	)
	return nil
}

// ActivateManaAbility taps a permanent for one mana of its color.
func (e *Engine) ActivateManaAbility(player int, cardID string) error {
	gs := e.state
	c := gs.cards[cardID]
	if c == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCard, cardID)
	}
	if err := gs.canActivateMana(player, c); err != nil {
		return err
	}
	c.Tapped = true
	color := c.ProducedColor()
	gs.Players[player].Pool.Add(color, 1)
	gs.emit(rules.NewEventWithAmount(rules.EventManaAdded, player, c.ID, "", 1))
	e.logger.Debug("mana ability", zap.Int("player", player), zap.String("card", c.Name()), zap.String("color", string(color)))
	return nil
}

func (gs *GameState) canActivateMana(player int, c *Card) error {
	switch {
	case c.Owner != player || c.Zone != ZoneBattlefield:
		return fmt.Errorf("%w: %s is not on player %d's battlefield", ErrIllegalAction, c.Name(), player)
	case !c.HasManaAbility():
		return fmt.Errorf("%w: %s has no mana ability", ErrIllegalAction, c.Name())
	case c.Tapped:
		return fmt.Errorf("%w: %s is tapped", ErrIllegalAction, c.Name())
	case c.IsCreature() && c.SummoningSick && !c.HasKeyword(carddb.KeywordHaste):
		return fmt.Errorf("%w: %s has summoning sickness", ErrIllegalAction, c.Name())
	}
	return rules.CheckTiming(rules.ActionActivateMana, gs.Window(player)).Err(ErrIllegalAction)
}

// CanCast reports whether player could cast c now, timing and mana included.
func (gs *GameState) CanCast(player int, c *Card) bool {
	if c.Owner != player || c.Zone != ZoneHand || c.IsLand() || !c.HasManaCost() {
		return false
	}
	if !rules.CheckTiming(spellTiming(c), gs.Window(player)).Legal {
		return false
	}
	cost, err := mana.ParseCost(c.Static.ManaCost)
	if err != nil {
		return false
	}
	return mana.CanPay(gs.Players[player].Pool, cost, gs.Battlefield(player))
}

// LegalActions lists what player can do now: pass, then land plays, spells
// (one action per creature target for targeted spells) and mana abilities
// of non-land permanents. Lands are tapped by payment itself.
func (gs *GameState) LegalActions(player int) []Action {
	actions := []Action{Pass(player)}
	if gs.Priority.Holder() != player {
		return actions
	}
	window := gs.Window(player)
	hand := gs.Hand(player)

	if rules.CheckTiming(rules.ActionPlayLand, window).Legal {
		for _, c := range hand {
			if c.IsLand() {
				actions = append(actions, Action{Kind: ActionPlayLand, Player: player, CardID: c.ID})
			}
		}
	}

	for _, c := range hand {
		if !gs.CanCast(player, c) {
			continue
		}
		if !NeedsTarget(c.Name()) {
			actions = append(actions, Action{Kind: ActionCastSpell, Player: player, CardID: c.ID})
			continue
		}
		for _, owner := range []int{player, 1 - player} {
			for _, t := range gs.Creatures(owner) {
				actions = append(actions, Action{Kind: ActionCastSpell, Player: player, CardID: c.ID, TargetID: t.ID})
			}
		}
	}

	for _, c := range gs.Battlefield(player) {
		if !c.IsLand() && gs.canActivateMana(player, c) == nil {
			actions = append(actions, Action{Kind: ActionManaAbility, Player: player, CardID: c.ID})
		}
	}
	return actions
}

// Apply performs action for the priority holder. Any action other than a pass
// returns priority to the active player.
func (e *Engine) Apply(ctx context.Context, action Action) (PassOutcome, error) {
	if action.Kind == ActionPass {
		if holder := e.state.Priority.Holder(); action.Player != holder {
			return PassContinue, fmt.Errorf("%w: player %d passed without priority", ErrIllegalAction, action.Player)
		}
		return e.PassPriority(ctx), nil
	}

	var err error
	switch action.Kind {
	case ActionPlayLand:
		err = e.PlayLand(action.Player, action.CardID)
	case ActionCastSpell:
		err = e.CastSpell(action.Player, action.CardID, action.TargetID)
	case ActionManaAbility:
		err = e.ActivateManaAbility(action.Player, action.CardID)
	default:
		err = fmt.Errorf("%w: unknown action %q", ErrIllegalAction, action.Kind)
	}
	if err != nil {
		return PassContinue, err
	}
	e.GrantPriority(e.state.Turn.ActivePlayer())
	return PassContinue, nil
}
