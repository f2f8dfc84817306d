package rules

import (
	"fmt"
)

// Phase groups steps of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepFirstStrikeDamage
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:             "UNTAP",
	StepUpkeep:            "UPKEEP",
	StepDraw:              "DRAW",
	StepMain1:             "MAIN1",
	StepBeginCombat:       "BEGIN_COMBAT",
	StepDeclareAttackers:  "DECLARE_ATTACKERS",
	StepDeclareBlockers:   "DECLARE_BLOCKERS",
	StepFirstStrikeDamage: "FIRST_STRIKE_DAMAGE",
	StepCombatDamage:      "COMBAT_DAMAGE",
	StepEndCombat:         "END_COMBAT",
	StepMain2:             "MAIN2",
	StepEnd:               "END",
	StepCleanup:           "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

type turnEntry struct {
	phase Phase
	step  Step
}

// turnSequence is fixed; the first strike damage step is always visited and
// simply deals nothing when no creature has first or double strike.
var turnSequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepBeginCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepFirstStrikeDamage},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// Steps returns the step order of a turn.
func Steps() []Step {
	out := make([]Step, len(turnSequence))
	for i, e := range turnSequence {
		out[i] = e.step
	}
	return out
}

// TurnManager tracks the active player, turn number and position in the
// step sequence. It is a plain value; copying it copies the whole state.
type TurnManager struct {
	orderIndex   int
	turnNumber   int
	activePlayer int
	actionsDone  bool
}

// NewTurnManager creates a turn manager at turn 1, untap step.
func NewTurnManager(activePlayer int) TurnManager {
	return TurnManager{
		turnNumber:   1,
		activePlayer: activePlayer,
	}
}

// RestoreTurnManager rebuilds a turn manager from its observable fields.
func RestoreTurnManager(turnNumber, activePlayer int, step Step, actionsDone bool) TurnManager {
	tm := TurnManager{turnNumber: turnNumber, activePlayer: activePlayer, actionsDone: actionsDone}
	for i, e := range turnSequence {
		if e.step == step {
			tm.orderIndex = i
		}
	}
	return tm
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return turnSequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return turnSequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() int {
	return tm.activePlayer
}

// DefendingPlayer returns the non-active player.
func (tm *TurnManager) DefendingPlayer() int {
	return 1 - tm.activePlayer
}

// IsMainPhase reports whether the current step is a main phase.
func (tm *TurnManager) IsMainPhase() bool {
	step := tm.CurrentStep()
	return step == StepMain1 || step == StepMain2
}

// StepActionsDone reports whether the current step's automatic action has run.
func (tm *TurnManager) StepActionsDone() bool {
	return tm.actionsDone
}

// MarkStepActionsDone records that the current step's automatic action ran.
func (tm *TurnManager) MarkStepActionsDone() {
	tm.actionsDone = true
}

// AdvanceStep moves to the next step. Past the last step the turn ends: the
// active player swaps and the turn number increments when player 0 becomes
// active again. It reports whether a new turn started.
func (tm *TurnManager) AdvanceStep() (Step, bool) {
	tm.actionsDone = false
	tm.orderIndex++
	if tm.orderIndex < len(turnSequence) {
		return tm.CurrentStep(), false
	}
	tm.orderIndex = 0
	tm.activePlayer = 1 - tm.activePlayer
	if tm.activePlayer == 0 {
		tm.turnNumber++
	}
	return tm.CurrentStep(), true
}
