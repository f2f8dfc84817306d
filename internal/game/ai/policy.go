package ai

import (
	"github.com/Casiics/MagiCore/internal/game"
	"github.com/Casiics/MagiCore/internal/game/mana"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"go.uber.org/zap"
)

// Policy chooses what a player does with priority. In order it plays a land,
// casts the most expensive creature it can afford at sorcery speed (tapping
// mana creatures first when their mana is needed), pumps its best attacker
// once blocks are known, and otherwise passes.
type Policy struct {
	logger *zap.Logger
}

// NewPolicy creates a priority policy.
func NewPolicy(logger *zap.Logger) *Policy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Policy{logger: logger}
}

// Choose returns one legal action for player.
func (p *Policy) Choose(gs *game.GameState, player int) game.Action {
	actions := gs.LegalActions(player)
	if len(actions) == 1 {
		return actions[0]
	}
	for _, a := range actions {
		if a.Kind == game.ActionPlayLand {
			return a
		}
	}
	if a, ok := p.creatureAction(gs, player, actions); ok {
		return a
	}
	if a, ok := p.pumpAction(gs, player, actions); ok {
		return a
	}
	return game.Pass(player)
}

// creatureAction casts the most expensive creature player can pay for with
// lands, floating mana and mana creatures. When the creature is not yet
// castable it returns the next mana ability to activate instead.
func (p *Policy) creatureAction(gs *game.GameState, player int, actions []game.Action) (game.Action, bool) {
	if !rules.CheckTiming(rules.ActionCastSorcery, gs.Window(player)).Legal {
		return game.Action{}, false
	}

	var manaActions []game.Action
	pool := gs.Player(player).Pool
	for _, a := range actions {
		if a.Kind == game.ActionManaAbility {
			manaActions = append(manaActions, a)
			pool.Add(gs.Card(a.CardID).ProducedColor(), 1)
		}
	}

	var best *game.Card
	bestCost := -1
	for _, c := range gs.Hand(player) {
		if !c.IsCreature() {
			continue
		}
		cost, err := mana.ParseCost(c.Static.ManaCost)
		if err != nil {
			continue
		}
		if cost.Total() > bestCost && mana.CanPay(pool, cost, gs.Battlefield(player)) {
			best, bestCost = c, cost.Total()
		}
	}
	if best == nil {
		return game.Action{}, false
	}

	cast := game.Action{Kind: game.ActionCastSpell, Player: player, CardID: best.ID}
	for _, a := range actions {
		if a == cast {
			return cast, true
		}
	}
	if len(manaActions) > 0 {
		p.logger.Debug("tapping mana creature",
			zap.Int("player", player),
			zap.String("for", best.Name()),
			zap.String("card_id", manaActions[0].CardID),
		)
		return manaActions[0], true
	}
	return game.Action{}, false
}

// pumpAction casts a targeted pump spell on player's most valuable attacker
// after blockers are declared.
func (p *Policy) pumpAction(gs *game.GameState, player int, actions []game.Action) (game.Action, bool) {
	if gs.Turn.CurrentStep() != rules.StepDeclareBlockers ||
		gs.Turn.ActivePlayer() != player || !gs.Stack.IsEmpty() {
		return game.Action{}, false
	}
	var target *game.Card
	for _, c := range gs.Attackers() {
		if target == nil || c.Value() > target.Value() {
			target = c
		}
	}
	if target == nil {
		return game.Action{}, false
	}
	for _, a := range actions {
		if a.Kind == game.ActionCastSpell && a.TargetID == target.ID {
			return a, true
		}
	}
	return game.Action{}, false
}
