package rules

// Priority tracks who may act next and how many players have passed in a row.
type Priority struct {
	holder int
	passes int
}

// Grant gives priority to player and resets the pass counter.
func (p *Priority) Grant(player int) {
	p.holder = player
	p.passes = 0
}

// Pass records a pass by the holder and hands priority to the other player.
// It reports whether both players have now passed in succession.
func (p *Priority) Pass() bool {
	p.passes++
	p.holder = 1 - p.holder
	return p.passes >= 2
}

// Holder returns the player with priority.
func (p *Priority) Holder() int {
	return p.holder
}

// Passes returns the consecutive pass count.
func (p *Priority) Passes() int {
	return p.passes
}

// RestorePriority rebuilds a priority value from its observable fields.
func RestorePriority(holder, passes int) Priority {
	return Priority{holder: holder, passes: passes}
}
