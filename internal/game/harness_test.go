package game

import (
	"fmt"
	"testing"

	"github.com/Casiics/MagiCore/internal/carddb"
	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// testHarness sets up boards directly on an engine's state.
type testHarness struct {
	t       *testing.T
	engine  *Engine
	state   *GameState
	events  *rules.Recorder
	catalog *carddb.Catalog
	nextID  int
}

// newHarness creates a game at player 0's first main phase with priority.
func newHarness(t *testing.T) *testHarness {
	t.Helper()
	events := &rules.Recorder{}
	engine := NewEngine(zaptest.NewLogger(t), DefaultOptions(), events)
	h := &testHarness{
		t:       t,
		engine:  engine,
		state:   engine.State(),
		events:  events,
		catalog: carddb.Builtin(),
	}
	h.setStep(rules.StepMain1, 0)
	return h
}

// setStep moves the game to step of turn 2 with active as the active player
// and gives them priority.
func (h *testHarness) setStep(step rules.Step, active int) {
	h.state.Turn = rules.RestoreTurnManager(2, active, step, false)
	h.state.Priority.Grant(active)
}

func (h *testHarness) newID(name string) string {
	h.nextID++
	return fmt.Sprintf("%s-%d", name, h.nextID)
}

// add puts a builtin card into owner's zone.
func (h *testHarness) add(owner int, name string, zone Zone) *Card {
	h.t.Helper()
	static, ok := h.catalog.FindByName(name)
	require.True(h.t, ok, "builtin card %q", name)
	c := NewCard(h.newID(name), static, owner)
	h.state.AddCard(c, zone)
	return c
}

// creatureSpec describes an ad hoc test creature.
type creatureSpec struct {
	Name      string
	Power     int
	Toughness int
	Keywords  []string
	Colors    []string
	Artifact  bool
	Sick      bool
	Tapped    bool
}

// createCreature puts a creature built from spec onto owner's battlefield.
func (h *testHarness) createCreature(owner int, spec creatureSpec) *Card {
	typeLine := "Creature — Test"
	if spec.Artifact {
		typeLine = "Artifact Creature — Test"
	}
	power, toughness := spec.Power, spec.Toughness
	static := &carddb.Card{
		OracleID:  "test-" + spec.Name,
		Name:      spec.Name,
		TypeLine:  typeLine,
		Power:     &power,
		Toughness: &toughness,
		Keywords:  spec.Keywords,
		Colors:    spec.Colors,
	}
	c := NewCard(h.newID(spec.Name), static, owner)
	h.state.AddCard(c, ZoneBattlefield)
	c.SummoningSick = spec.Sick
	c.Tapped = spec.Tapped
	return c
}

func (h *testHarness) creature(owner int, name string, power, toughness int, keywords ...string) *Card {
	return h.createCreature(owner, creatureSpec{Name: name, Power: power, Toughness: toughness, Keywords: keywords})
}

// attack declares attackers for the active player and fails the test on error.
func (h *testHarness) attack(attackers ...*Card) {
	h.t.Helper()
	ids := make([]string, len(attackers))
	for i, c := range attackers {
		ids[i] = c.ID
	}
	require.NoError(h.t, h.state.DeclareAttackers(ids))
}

func (h *testHarness) block(attacker, blocker *Card) {
	h.t.Helper()
	require.NoError(h.t, h.state.AssignBlocker(attacker.ID, blocker.ID))
}

// fight runs both damage segments with a state-based check after each.
func (h *testHarness) fight() {
	h.state.ResolveCombatDamage(true)
	h.state.CheckStateBasedActions()
	h.state.ResolveCombatDamage(false)
	h.state.CheckStateBasedActions()
}

func (h *testHarness) assertPlayerLife(player, expected int) {
	h.t.Helper()
	if got := h.state.Player(player).Life; got != expected {
		h.t.Errorf("player %d life: expected %d, got %d", player, expected, got)
	}
}

func (h *testHarness) assertCreatureDamage(c *Card, expected int) {
	h.t.Helper()
	if c.Damage != expected {
		h.t.Errorf("%s damage: expected %d, got %d", c.ID, expected, c.Damage)
	}
}

func (h *testHarness) assertCreatureDead(c *Card) {
	h.t.Helper()
	if c.Zone != ZoneGraveyard {
		h.t.Errorf("%s: expected graveyard, got %s", c.ID, c.Zone)
	}
}

func (h *testHarness) assertOnBattlefield(c *Card) {
	h.t.Helper()
	if c.Zone != ZoneBattlefield {
		h.t.Errorf("%s: expected battlefield, got %s", c.ID, c.Zone)
	}
}
