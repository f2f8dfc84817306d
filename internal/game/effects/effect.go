// Package effects models modifier effects attached to permanents.
package effects

import "github.com/google/uuid"

// Duration represents how long an effect lasts
type Duration string

const (
	// DurationEndOfTurn - Effect expires in the cleanup step
	DurationEndOfTurn Duration = "EndOfTurn"

	// DurationPermanent - Effect lasts until the permanent leaves play
	DurationPermanent Duration = "Permanent"
)

// Kind tags the effect variant.
type Kind string

const (
	KindPowerToughness Kind = "PowerToughness"
)

// Effect is a modifier owned by the card it is attached to.
type Effect struct {
	ID        string
	Kind      Kind
	Duration  Duration
	SourceID  string
	Power     int
	Toughness int
}

// NewPowerToughness creates a +P/+T modifier.
func NewPowerToughness(sourceID string, power, toughness int, duration Duration) Effect {
	return Effect{
		ID:        uuid.NewString(),
		Kind:      KindPowerToughness,
		Duration:  duration,
		SourceID:  sourceID,
		Power:     power,
		Toughness: toughness,
	}
}

// Deltas sums the power and toughness modifiers in effs.
func Deltas(effs []Effect) (power, toughness int) {
	for _, e := range effs {
		if e.Kind != KindPowerToughness {
			continue
		}
		power += e.Power
		toughness += e.Toughness
	}
	return power, toughness
}

// RemoveExpired drops every effect with the given duration, keeping order.
// It returns the kept effects and the number removed.
func RemoveExpired(effs []Effect, duration Duration) ([]Effect, int) {
	kept := effs[:0:0]
	removed := 0
	for _, e := range effs {
		if e.Duration == duration {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) == 0 {
		return nil, removed
	}
	return kept, removed
}
