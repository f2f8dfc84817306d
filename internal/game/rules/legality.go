package rules

import (
	"fmt"
	"strings"

	"github.com/Casiics/MagiCore/internal/carddb"
)

// LegalityResult represents the result of a legality check.
type LegalityResult struct {
	Legal  bool
	Reason string
}

// Err converts an illegal result into an error wrapping sentinel.
func (r LegalityResult) Err(sentinel error) error {
	if r.Legal {
		return nil
	}
	return fmt.Errorf("%w: %s", sentinel, r.Reason)
}

func legal() LegalityResult { return LegalityResult{Legal: true} }

func illegal(format string, args ...any) LegalityResult {
	return LegalityResult{Reason: fmt.Sprintf(format, args...)}
}

// Combatant is the view of a creature the blocking rules need.
type Combatant interface {
	HasKeyword(keyword string) bool
	HasColor(code string) bool
	IsArtifact() bool
	IsTapped() bool
	IsBlocking() bool
}

// CanBlock reports whether blocker may be assigned to attacker. A creature
// blocks at most one attacker per combat.
func CanBlock(attacker, blocker Combatant) LegalityResult {
	if blocker.IsTapped() {
		return illegal("tapped creatures cannot block")
	}
	if blocker.IsBlocking() {
		return illegal("creature is already blocking")
	}
	if attacker.HasKeyword(carddb.KeywordFlying) &&
		!blocker.HasKeyword(carddb.KeywordFlying) && !blocker.HasKeyword(carddb.KeywordReach) {
		return illegal("flying attacker needs a blocker with flying or reach")
	}
	if attacker.HasKeyword(carddb.KeywordFear) && !blocker.HasColor("B") && !blocker.IsArtifact() {
		return illegal("fear attacker can only be blocked by black or artifact creatures")
	}
	return legal()
}

// Window is the game context a timing check runs against.
type Window struct {
	Player       int
	ActivePlayer int
	HasPriority  bool
	MainPhase    bool
	StackEmpty   bool
	LandsPlayed  int
}

// ActionType names the player actions that have timing rules.
type ActionType string

const (
	ActionPlayLand     ActionType = "PLAY_LAND"
	ActionCastSorcery  ActionType = "CAST_SORCERY_SPEED"
	ActionCastInstant  ActionType = "CAST_INSTANT_SPEED"
	ActionActivateMana ActionType = "ACTIVATE_MANA"
)

// Restriction defines when an action can be taken.
type Restriction struct {
	RequiresMainPhase  bool
	RequiresEmptyStack bool
	RequiresOwnTurn    bool
	RequiresPriority   bool
	OncePerTurn        bool
}

// GetRestrictions returns the timing restrictions for an action type.
func GetRestrictions(action ActionType) Restriction {
	switch action {
	case ActionPlayLand:
		return Restriction{
			RequiresMainPhase:  true,
			RequiresEmptyStack: true,
			RequiresOwnTurn:    true,
			RequiresPriority:   true,
			OncePerTurn:        true,
		}
	case ActionCastSorcery:
		return Restriction{
			RequiresMainPhase:  true,
			RequiresEmptyStack: true,
			RequiresOwnTurn:    true,
			RequiresPriority:   true,
		}
	default:
		return Restriction{RequiresPriority: true}
	}
}

// CheckTiming validates an action against the window.
func CheckTiming(action ActionType, w Window) LegalityResult {
	r := GetRestrictions(action)
	switch {
	case r.RequiresPriority && !w.HasPriority:
		return illegal("player %d does not have priority", w.Player)
	case r.RequiresOwnTurn && w.Player != w.ActivePlayer:
		return illegal("%s only during your own turn", action)
	case r.RequiresMainPhase && !w.MainPhase:
		return illegal("%s only during a main phase", action)
	case r.RequiresEmptyStack && !w.StackEmpty:
		return illegal("%s only with an empty stack", action)
	case r.OncePerTurn && w.LandsPlayed > 0:
		return illegal("already played a land this turn")
	}
	return legal()
}

// SpellTiming picks the timing rule for a spell from its type line.
func SpellTiming(typeLine string, hasFlash bool) ActionType {
	if hasFlash || strings.Contains(strings.ToLower(typeLine), "instant") {
		return ActionCastInstant
	}
	return ActionCastSorcery
}
