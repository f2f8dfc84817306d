package game

import (
	"errors"

	"github.com/Casiics/MagiCore/internal/game/mana"
)

var (
	// ErrIllegalAction is returned when an action breaks a timing or zone rule.
	// The state is unchanged.
	ErrIllegalAction = errors.New("illegal action")

	// ErrEmptyLibrary is returned by a draw from an empty library.
	ErrEmptyLibrary = errors.New("library is empty")

	// ErrIllegalBlock is returned when a block assignment breaks an evasion or
	// availability rule.
	ErrIllegalBlock = errors.New("illegal block")

	// ErrInsufficientMana is returned when a cost cannot be paid.
	ErrInsufficientMana = mana.ErrInsufficientMana

	// ErrUnknownCard is returned for an instance id that is not in the game.
	ErrUnknownCard = errors.New("unknown card")
)
