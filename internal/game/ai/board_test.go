package ai

import (
	"fmt"
	"testing"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// board builds positions on a fresh engine.
type board struct {
	t       *testing.T
	engine  *game.Engine
	gs      *game.GameState
	catalog *carddb.Catalog
	n       int
}

// newBoard starts at step of turn 2 with player 0 active and holding priority.
func newBoard(t *testing.T, step rules.Step) *board {
	t.Helper()
	engine := game.NewEngine(zaptest.NewLogger(t), game.DefaultOptions(), nil)
	b := &board{t: t, engine: engine, gs: engine.State(), catalog: carddb.Builtin()}
	b.gs.Turn = rules.RestoreTurnManager(2, 0, step, false)
	b.gs.Priority.Grant(0)
	return b
}

func (b *board) id(name string) string {
	b.n++
	return fmt.Sprintf("%s-%d", name, b.n)
}

func (b *board) add(owner int, name string, zone game.Zone) *game.Card {
	b.t.Helper()
	static, ok := b.catalog.FindByName(name)
	require.True(b.t, ok, "builtin card %q", name)
	c := game.NewCard(b.id(name), static, owner)
	b.gs.AddCard(c, zone)
	return c
}

func (b *board) creature(owner int, name string, power, toughness int, keywords ...string) *game.Card {
	static := &carddb.Card{
		OracleID:  "test-" + name,
		Name:      name,
		TypeLine:  "Creature — Test",
		Power:     &power,
		Toughness: &toughness,
		Keywords:  keywords,
	}
	c := game.NewCard(b.id(name), static, owner)
	b.gs.AddCard(c, game.ZoneBattlefield)
	return c
}

func (b *board) attack(cards ...*game.Card) {
	b.t.Helper()
	ids := make([]string, len(cards))
	for i, c := range cards {
		ids[i] = c.ID
	}
	require.NoError(b.t, b.gs.DeclareAttackers(ids))
}
