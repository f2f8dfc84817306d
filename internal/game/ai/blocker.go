package ai

import (
	"github.com/Casiics/MagiCore/internal/game"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"go.uber.org/zap"
)

// GreedyBlocker assigns at most one blocker per attacker, attacker by
// attacker, taking the best trade that beats letting the damage through.
type GreedyBlocker struct {
	logger *zap.Logger
}

var _ game.BlockPlanner = (*GreedyBlocker)(nil)

// NewGreedyBlocker creates a blocker AI.
func NewGreedyBlocker(logger *zap.Logger) *GreedyBlocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GreedyBlocker{logger: logger}
}

// tradeValue is what defender gains by blocking attacker with blocker: the
// attacker's value if it dies, less the blocker's value if it dies.
func tradeValue(attacker, blocker *game.Card) int {
	value := 0
	if blocker.Power() >= attacker.Toughness() {
		value += attacker.Value()
	}
	if attacker.Power() >= blocker.Toughness() {
		value -= blocker.Value()
	}
	return value
}

// AssignBlocks blocks the current attackers with defender's creatures and
// returns the number of blocks made.
func (b *GreedyBlocker) AssignBlocks(gs *game.GameState, defender int) int {
	creatures := gs.Creatures(defender)
	blocks := 0
	for _, attacker := range gs.Attackers() {
		best := -attacker.Power()
		var chosen *game.Card
		for _, blocker := range creatures {
			if !rules.CanBlock(attacker, blocker).Legal {
				continue
			}
			if v := tradeValue(attacker, blocker); v > best {
				best = v
				chosen = blocker
			}
		}
		if chosen == nil {
			continue
		}
		if err := gs.AssignBlocker(attacker.ID, chosen.ID); err != nil {
			b.logger.Warn("block rejected",
				zap.String("attacker", attacker.ID),
				zap.String("blocker", chosen.ID),
				zap.Error(err),
			)
			continue
		}
		blocks++
		b.logger.Debug("blocker assigned",
			zap.String("attacker", attacker.Name()),
			zap.String("blocker", chosen.Name()),
			zap.Int("trade_value", best),
		)
	}
	return blocks
}
