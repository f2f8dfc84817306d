// Package ai holds the heuristic players: an evaluation function, a greedy
// blocker, an attacker that searches attack subsets and a priority policy.
package ai

import (
	"context"
	"math"

	"github.com/Casiics/MagiCore/internal/game"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxExhaustiveAttackers is the candidate count above which the
// attacker stops enumerating every subset.
const DefaultMaxExhaustiveAttackers = 10

const tracerName = "github.com/Casiics/MagiCore/internal/game/ai"

// Attacker chooses attacks by simulating each candidate subset against the
// opponent's blocker AI and keeping the best scoring one.
type Attacker struct {
	logger        *zap.Logger
	blocker       game.BlockPlanner
	strategy      SearchStrategy
	maxExhaustive int
	tracer        trace.Tracer
}

var _ game.AttackPlanner = (*Attacker)(nil)

// NewAttacker creates an attacker that predicts blocks with blocker and
// searches exhaustively up to maxExhaustive candidates. A non-positive
// maxExhaustive uses DefaultMaxExhaustiveAttackers.
func NewAttacker(logger *zap.Logger, blocker game.BlockPlanner, maxExhaustive int) *Attacker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxExhaustive <= 0 {
		maxExhaustive = DefaultMaxExhaustiveAttackers
	}
	return &Attacker{
		logger:        logger,
		blocker:       blocker,
		strategy:      ExhaustiveSearch{},
		maxExhaustive: maxExhaustive,
		tracer:        otel.Tracer(tracerName),
	}
}

// SetStrategy replaces the search used up to the exhaustive limit.
func (a *Attacker) SetStrategy(s SearchStrategy) {
	a.strategy = s
}

// Strategy returns the search used up to the exhaustive limit.
func (a *Attacker) Strategy() SearchStrategy {
	return a.strategy
}

// strategyFor returns the search for n candidates.
func (a *Attacker) strategyFor(n int) SearchStrategy {
	if n > a.maxExhaustive {
		return GreedySearch{}
	}
	return a.strategy
}

// ChooseAttackers returns the ids of the attack that scores best for player,
// or nil when not attacking scores at least as well. gs is not modified.
func (a *Attacker) ChooseAttackers(ctx context.Context, gs *game.GameState, player int) []string {
	if gs.Turn.ActivePlayer() != player {
		return nil
	}
	candidates := gs.AttackCandidates(player)
	if len(candidates) == 0 {
		return nil
	}
	strategy := a.strategyFor(len(candidates))

	_, span := a.tracer.Start(ctx, "ai.attack_search",
		trace.WithAttributes(
			attribute.Int("ai.player", player),
			attribute.Int("ai.candidates", len(candidates)),
			attribute.String("ai.strategy", strategy.Name()),
		),
	)
	defer span.End()

	work := gs.Clone()
	snap := work.Snapshot()
	baseline := Evaluate(work, player)
	evaluated := 0

	score := func(subset []int) float64 {
		defer work.Restore(snap)
		evaluated++
		ids := make([]string, len(subset))
		for i, idx := range subset {
			ids[i] = candidates[idx].ID
		}
		if err := work.DeclareAttackers(ids); err != nil {
			return math.Inf(-1)
		}
		if a.blocker != nil {
			a.blocker.AssignBlocks(work, 1-player)
		}
		work.ResolveCombatDamage(true)
		work.CheckStateBasedActions()
		work.ResolveCombatDamage(false)
		work.CheckStateBasedActions()
		return Evaluate(work, player)
	}

	best, bestScore := strategy.Search(len(candidates), baseline, score)
	ids := make([]string, len(best))
	for i, idx := range best {
		ids[i] = candidates[idx].ID
	}

	span.SetAttributes(
		attribute.Int("ai.subsets_evaluated", evaluated),
		attribute.Int("ai.attackers", len(ids)),
		attribute.Float64("ai.score", bestScore),
	)
	a.logger.Debug("attack search",
		zap.Int("player", player),
		zap.String("strategy", strategy.Name()),
		zap.Int("candidates", len(candidates)),
		zap.Int("evaluated", evaluated),
		zap.Float64("baseline", baseline),
		zap.Float64("score", bestScore),
		zap.Strings("attackers", ids),
	)
	if len(ids) == 0 {
		return nil
	}
	return ids
}
