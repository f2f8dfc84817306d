package game

import (
	"context"

	"github.com/Casiics/MagiCore/internal/game/effects"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"go.uber.org/zap"
)

// PassOutcome tells the caller what a priority pass led to.
type PassOutcome int

const (
	// PassContinue means the other player now holds priority.
	PassContinue PassOutcome = iota
	// PassResolved means both players passed and the top of the stack resolved.
	PassResolved
	// PassAdvanced means both players passed on an empty stack and the step advanced.
	PassAdvanced
)

func (o PassOutcome) String() string {
	switch o {
	case PassContinue:
		return "CONTINUE"
	case PassResolved:
		return "RESOLVED"
	case PassAdvanced:
		return "ADVANCED"
	default:
		return "UNKNOWN"
	}
}

// ExecuteCurrentStepActions runs the automatic action of the current step.
// It runs at most once per step visit.
func (e *Engine) ExecuteCurrentStepActions(ctx context.Context) {
	gs := e.state
	if gs.Turn.StepActionsDone() {
		return
	}
	gs.Turn.MarkStepActionsDone()

	step := gs.Turn.CurrentStep()
	active := gs.Turn.ActivePlayer()
	e.logger.Debug("step action",
		zap.Int("turn", gs.Turn.TurnNumber()),
		zap.String("step", step.String()),
		zap.Int("active_player", active),
	)

	switch step {
	case rules.StepUntap:
		gs.Untap(active)
	case rules.StepDraw:
		if gs.Turn.TurnNumber() == 1 && active == gs.StartingPlayer {
			return
		}
		if _, err := gs.DrawCard(active); err != nil {
			e.logger.Debug("draw failed", zap.Int("player", active), zap.Error(err))
		}
	case rules.StepDeclareAttackers:
		e.declareAttackers(ctx, active)
	case rules.StepDeclareBlockers:
		if e.block != nil && len(gs.Attackers()) > 0 {
			n := e.block.AssignBlocks(gs, gs.Turn.DefendingPlayer())
			e.logger.Debug("blockers declared", zap.Int("blocks", n))
		}
	case rules.StepFirstStrikeDamage:
		gs.ResolveCombatDamage(true)
	case rules.StepCombatDamage:
		gs.ResolveCombatDamage(false)
	case rules.StepEndCombat:
		gs.EndCombat()
	case rules.StepCleanup:
		gs.Cleanup()
	}
}

func (e *Engine) declareAttackers(ctx context.Context, active int) {
	if e.attack == nil {
		return
	}
	ids := e.attack.ChooseAttackers(ctx, e.state, active)
	if len(ids) == 0 {
		return
	}
	if err := e.state.DeclareAttackers(ids); err != nil {
		e.logger.Warn("attack rejected", zap.Int("player", active), zap.Error(err))
		return
	}
	e.logger.Debug("attackers declared", zap.Int("player", active), zap.Strings("attackers", ids))
}

// AdvanceToNextStep runs the current step's action if it has not run yet and
// moves to the next step, ending the turn after cleanup.
func (e *Engine) AdvanceToNextStep(ctx context.Context) {
	e.ExecuteCurrentStepActions(ctx)
	gs := e.state
	step, newTurn := gs.Turn.AdvanceStep()
	if newTurn {
		gs.emit(rules.NewEvent(rules.EventTurnStarted, gs.Turn.ActivePlayer(), "", ""))
		e.logger.Debug("turn started",
			zap.Int("turn", gs.Turn.TurnNumber()),
			zap.Int("active_player", gs.Turn.ActivePlayer()),
		)
	}
	evt := rules.NewEvent(rules.EventStepChanged, gs.Turn.ActivePlayer(), "", "")
	evt.Description = step.String()
	gs.emit(evt)
}

// GrantPriority gives player priority and resets the pass count.
func (e *Engine) GrantPriority(player int) {
	e.state.Priority.Grant(player)
	e.state.emit(rules.NewEvent(rules.EventPriorityGranted, player, "", ""))
}

// PassPriority passes for the current holder. After two passes in a row the
// top of the stack resolves and the active player gets priority, or on an
// empty stack the step advances.
func (e *Engine) PassPriority(ctx context.Context) PassOutcome {
	gs := e.state
	holder := gs.Priority.Holder()
	gs.emit(rules.NewEvent(rules.EventPriorityPassed, holder, "", ""))
	if !gs.Priority.Pass() {
		return PassContinue
	}
	if !gs.Stack.IsEmpty() {
		e.ResolveTopItem()
		e.GrantPriority(gs.Turn.ActivePlayer())
		return PassResolved
	}
	e.AdvanceToNextStep(ctx)
	return PassAdvanced
}

// Untap untaps player's permanents and clears their summoning sickness.
func (gs *GameState) Untap(player int) {
	for _, c := range gs.Battlefield(player) {
		c.Tapped = false
		c.SummoningSick = false
	}
}

// Cleanup removes until-end-of-turn effects and marked damage from every
// permanent, and resets lands played and mana pools.
func (gs *GameState) Cleanup() {
	expired := 0
	for _, p := range gs.Players {
		for _, c := range gs.lookup(p.Battlefield) {
			var n int
			c.Effects, n = effects.RemoveExpired(c.Effects, effects.DurationEndOfTurn)
			expired += n
			c.Damage = 0
		}
		p.LandsPlayed = 0
		p.Pool.Empty()
	}
	if expired > 0 {
		gs.emit(rules.NewEventWithAmount(rules.EventEffectsExpired, gs.Turn.ActivePlayer(), "", "", expired))
	}
}
