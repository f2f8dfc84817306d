package mana

import "fmt"

// Color is a single mana symbol color. Colorless is included as its own color.
type Color string

const (
	White     Color = "W"
	Blue      Color = "U"
	Black     Color = "B"
	Red       Color = "R"
	Green     Color = "G"
	Colorless Color = "C"
)

// PaymentOrder is the fixed order in which the pool is drained for generic costs.
var PaymentOrder = []Color{White, Blue, Black, Red, Green, Colorless}

// ParseColor maps a single upper-case symbol to a color.
func ParseColor(symbol string) (Color, bool) {
	switch Color(symbol) {
	case White, Blue, Black, Red, Green, Colorless:
		return Color(symbol), true
	}
	return "", false
}

// Pool holds six independent non-negative counters.
type Pool struct {
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

func (p *Pool) counter(color Color) *int {
	switch color {
	case White:
		return &p.White
	case Blue:
		return &p.Blue
	case Black:
		return &p.Black
	case Red:
		return &p.Red
	case Green:
		return &p.Green
	case Colorless:
		return &p.Colorless
	}
	return nil
}

// Add adds mana of a color. Non-positive amounts are ignored.
func (p *Pool) Add(color Color, amount int) {
	if amount <= 0 {
		return
	}
	if c := p.counter(color); c != nil {
		*c += amount
	}
}

// Get returns the amount of a color in the pool.
func (p *Pool) Get(color Color) int {
	if c := p.counter(color); c != nil {
		return *c
	}
	return 0
}

// Spend removes mana of a color. It fails without change when the pool is short.
func (p *Pool) Spend(color Color, amount int) error {
	c := p.counter(color)
	if c == nil {
		return fmt.Errorf("unknown mana color: %s", color)
	}
	if *c < amount {
		return fmt.Errorf("%w: need %d %s, have %d", ErrInsufficientMana, amount, color, *c)
	}
	*c -= amount
	return nil
}

// Drain removes up to limit mana of a color and returns how much it took.
func (p *Pool) Drain(color Color, limit int) int {
	c := p.counter(color)
	if c == nil || limit <= 0 {
		return 0
	}
	take := min(limit, *c)
	*c -= take
	return take
}

// Total returns the sum of all counters.
func (p *Pool) Total() int {
	return p.White + p.Blue + p.Black + p.Red + p.Green + p.Colorless
}

// Empty resets every counter to zero.
func (p *Pool) Empty() {
	*p = Pool{}
}
