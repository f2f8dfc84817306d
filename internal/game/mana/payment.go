package mana

import (
	"errors"
	"fmt"
)

// ErrInsufficientMana is returned when a cost cannot be paid. The payment has
// been rolled back by the time it is returned.
var ErrInsufficientMana = errors.New("insufficient mana")

// Source is a permanent that can be tapped to pay costs.
type Source interface {
	IsLand() bool
	IsTapped() bool
	SetTapped(tapped bool)
	ProducedColor() Color
}

var landColors = map[string]Color{
	"Plains":   White,
	"Island":   Blue,
	"Swamp":    Black,
	"Mountain": Red,
	"Forest":   Green,
}

// LandColor maps a land name to the color it produces. Unmapped lands make colorless.
func LandColor(name string) Color {
	if c, ok := landColors[name]; ok {
		return c
	}
	return Colorless
}

// Outstanding returns what is still needed after crediting the mana already in pool.
func (c Cost) Outstanding(pool Pool) Cost {
	var out Cost
	spare := 0
	for _, color := range PaymentOrder {
		have := pool.Get(color)
		need := c.Amount(color)
		if have >= need {
			spare += have - need
			continue
		}
		out.add(color, need-have)
	}
	out.Generic = max(0, c.Generic-spare)
	return out
}

// TapForCost taps untapped lands for cost in two greedy phases. Colored
// requirements are filled first from lands producing that color; the generic
// part is then filled from any remaining untapped land. Each tapped land adds
// its color to pool. The lands tapped are returned.
func TapForCost[S Source](pool *Pool, cost Cost, sources []S) []S {
	var tapped []S
	consumed := make([]bool, len(sources))

	for _, color := range PaymentOrder {
		need := cost.Amount(color)
		for i, src := range sources {
			if need == 0 {
				break
			}
			if consumed[i] || !src.IsLand() || src.IsTapped() || src.ProducedColor() != color {
				continue
			}
			src.SetTapped(true)
			consumed[i] = true
			pool.Add(color, 1)
			tapped = append(tapped, src)
			need--
		}
	}

	need := cost.Generic
	for i, src := range sources {
		if need == 0 {
			break
		}
		if consumed[i] || !src.IsLand() || src.IsTapped() {
			continue
		}
		src.SetTapped(true)
		consumed[i] = true
		pool.Add(src.ProducedColor(), 1)
		tapped = append(tapped, src)
		need--
	}
	return tapped
}

// Pay taps sources and spends the pool for cost as one transaction. Colored
// requirements are spent first, then generic drains the pool in PaymentOrder.
// On failure the pool and every land tapped here are restored.
func Pay[S Source](pool *Pool, cost Cost, sources []S) ([]S, error) {
	snapshot := *pool
	tapped := TapForCost(pool, cost.Outstanding(*pool), sources)

	rollback := func() {
		*pool = snapshot
		for _, src := range tapped {
			src.SetTapped(false)
		}
	}

	for _, color := range PaymentOrder {
		if err := pool.Spend(color, cost.Amount(color)); err != nil {
			rollback()
			return nil, err
		}
	}

	remaining := cost.Generic
	for _, color := range PaymentOrder {
		remaining -= pool.Drain(color, remaining)
	}
	if remaining > 0 {
		rollback()
		return nil, fmt.Errorf("%w: %d generic unpaid", ErrInsufficientMana, remaining)
	}
	return tapped, nil
}

// CanPay reports whether cost could be paid without changing anything.
func CanPay[S Source](pool Pool, cost Cost, sources []S) bool {
	out := cost.Outstanding(pool)
	avail := make(map[Color]int)
	free := 0
	for _, src := range sources {
		if src.IsLand() && !src.IsTapped() {
			avail[src.ProducedColor()]++
			free++
		}
	}
	for _, color := range PaymentOrder {
		need := out.Amount(color)
		if avail[color] < need {
			return false
		}
		free -= need
	}
	return free >= out.Generic
}
