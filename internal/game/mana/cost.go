package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cost is a parsed mana cost.
type Cost struct {
	Generic   int
	White     int
	Blue      int
	Black     int
	Red       int
	Green     int
	Colorless int
}

var symbolPattern = regexp.MustCompile(`\{([^}]*)\}`)

// ParseCost parses a cost string such as "{2}{G}{G}". Numeric symbols add to
// the generic amount; W, U, B, R, G and C add one of that color, case-insensitively.
// Any other symbol (X, hybrid, phyrexian) is rejected.
func ParseCost(costStr string) (Cost, error) {
	var cost Cost
	for _, match := range symbolPattern.FindAllStringSubmatch(costStr, -1) {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		if c, ok := ParseColor(symbol); ok {
			cost.add(c, 1)
			continue
		}
		num, err := strconv.Atoi(symbol)
		if err != nil || num < 0 {
			return Cost{}, fmt.Errorf("unknown mana symbol: {%s}", symbol)
		}
		cost.Generic += num
	}
	return cost, nil
}

// MustParseCost is ParseCost for constant strings.
func MustParseCost(costStr string) Cost {
	c, err := ParseCost(costStr)
	if err != nil {
		panic(err)
	}
	return c
}

// SymbolCount returns the mana value a cost string spells out: each colored
// symbol counts one and each numeric symbol counts its number.
func SymbolCount(costStr string) (int, error) {
	n := 0
	for _, match := range symbolPattern.FindAllStringSubmatch(costStr, -1) {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		if _, ok := ParseColor(symbol); ok {
			n++
			continue
		}
		num, err := strconv.Atoi(symbol)
		if err != nil || num < 0 {
			return 0, fmt.Errorf("unknown mana symbol: {%s}", symbol)
		}
		n += num
	}
	return n, nil
}

func (c *Cost) add(color Color, n int) {
	switch color {
	case White:
		c.White += n
	case Blue:
		c.Blue += n
	case Black:
		c.Black += n
	case Red:
		c.Red += n
	case Green:
		c.Green += n
	case Colorless:
		c.Colorless += n
	}
}

// Amount returns the required amount of a specific color.
func (c Cost) Amount(color Color) int {
	switch color {
	case White:
		return c.White
	case Blue:
		return c.Blue
	case Black:
		return c.Black
	case Red:
		return c.Red
	case Green:
		return c.Green
	case Colorless:
		return c.Colorless
	}
	return 0
}

// Total returns the converted mana cost.
func (c Cost) Total() int {
	return c.Generic + c.White + c.Blue + c.Black + c.Red + c.Green + c.Colorless
}

// IsZero reports whether the cost is free.
func (c Cost) IsZero() bool {
	return c.Total() == 0
}

// String renders the cost back into brace notation.
func (c Cost) String() string {
	var b strings.Builder
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	for _, color := range PaymentOrder {
		for i := 0; i < c.Amount(color); i++ {
			fmt.Fprintf(&b, "{%s}", color)
		}
	}
	if b.Len() == 0 {
		return "{0}"
	}
	return b.String()
}
