package ai

import "github.com/Casiics/MagiCore/internal/game"

// Evaluation weights.
const (
	lifeWeight = 1.5
	handWeight = 0.5
)

// Evaluate scores gs from player's point of view. Life difference weighs
// most, then board presence as the sum of creature power and toughness, then
// cards in hand. It does not modify gs.
func Evaluate(gs *game.GameState, player int) float64 {
	own, opp := gs.Player(player), gs.Player(1-player)

	score := lifeWeight * float64(own.Life-opp.Life)
	for _, c := range gs.Creatures(player) {
		score += float64(c.Value())
	}
	for _, c := range gs.Creatures(1 - player) {
		score -= float64(c.Value())
	}
	score += handWeight * float64(len(own.Hand)-len(opp.Hand))
	return score
}
