package mana

import (
	"errors"
	"testing"
)

func TestPoolAddSpend(t *testing.T) {
	var pool Pool
	pool.Add(Green, 2)
	pool.Add(Red, 1)
	pool.Add(Blue, 0)
	pool.Add(Blue, -3)

	if pool.Total() != 3 {
		t.Fatalf("Total = %d, want 3", pool.Total())
	}
	if err := pool.Spend(Green, 1); err != nil {
		t.Fatalf("Spend: %v", err)
	}
	if pool.Get(Green) != 1 {
		t.Errorf("Green = %d, want 1", pool.Get(Green))
	}

	err := pool.Spend(Red, 2)
	if !errors.Is(err, ErrInsufficientMana) {
		t.Errorf("expected ErrInsufficientMana, got %v", err)
	}
	if pool.Red != 1 {
		t.Errorf("failed spend must not change the pool, Red = %d", pool.Red)
	}

	pool.Empty()
	if pool.Total() != 0 {
		t.Errorf("Empty left %d mana", pool.Total())
	}
}

func TestPoolDrain(t *testing.T) {
	pool := Pool{Green: 2, Red: 1}

	if got := pool.Drain(Green, 5); got != 2 {
		t.Errorf("Drain(Green, 5) = %d, want 2", got)
	}
	if got := pool.Drain(Red, 0); got != 0 || pool.Red != 1 {
		t.Errorf("Drain(Red, 0) = %d with Red = %d, want 0 and 1", got, pool.Red)
	}
	if got := pool.Drain(Red, 1); got != 1 {
		t.Errorf("Drain(Red, 1) = %d, want 1", got)
	}
	if got := pool.Drain(Color("X"), 3); got != 0 {
		t.Errorf("Drain of an unknown color = %d, want 0", got)
	}
	if pool.Total() != 0 {
		t.Errorf("pool should be empty, has %d", pool.Total())
	}
}

func TestParseColor(t *testing.T) {
	for _, s := range []string{"W", "U", "B", "R", "G", "C"} {
		if _, ok := ParseColor(s); !ok {
			t.Errorf("ParseColor(%s) failed", s)
		}
	}
	for _, s := range []string{"X", "w", "", "GG"} {
		if _, ok := ParseColor(s); ok {
			t.Errorf("ParseColor(%q) should fail", s)
		}
	}
}

func TestLandColor(t *testing.T) {
	tests := map[string]Color{
		"Forest":       Green,
		"Island":       Blue,
		"Swamp":        Black,
		"Mountain":     Red,
		"Plains":       White,
		"Wastes":       Colorless,
		"Ancient Tomb": Colorless,
	}
	for name, want := range tests {
		if got := LandColor(name); got != want {
			t.Errorf("LandColor(%s) = %s, want %s", name, got, want)
		}
	}
}
