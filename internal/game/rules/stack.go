package rules

import (
	"errors"
)

// ErrStackEmpty is returned when popping an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// StackItemKind describes the type of object on the stack.
type StackItemKind string

const (
	// StackItemKindSpell represents a spell cast by a player.
	StackItemKindSpell StackItemKind = "SPELL"
)

// StackItem represents a single object on the stack. The card itself is
// referenced by SourceID.
type StackItem struct {
	ID          string
	Controller  int
	Description string
	Kind        StackItemKind
	SourceID    string
	TargetID    string
}

// Stack is the LIFO list of pending spells, topmost last.
type Stack struct {
	items []StackItem
}

// Push adds an item to the top of the stack.
func (s *Stack) Push(item StackItem) {
	s.items = append(s.items, item)
}

// Pop removes the top item from the stack.
func (s *Stack) Pop() (StackItem, error) {
	if len(s.items) == 0 {
		return StackItem{}, ErrStackEmpty
	}
	idx := len(s.items) - 1
	item := s.items[idx]
	s.items = s.items[:idx]
	return item, nil
}

// Peek returns the top item without removing it.
func (s *Stack) Peek() (StackItem, bool) {
	if len(s.items) == 0 {
		return StackItem{}, false
	}
	return s.items[len(s.items)-1], true
}

// Items returns a copy of all stack items (topmost last).
func (s *Stack) Items() []StackItem {
	cpy := make([]StackItem, len(s.items))
	copy(cpy, s.items)
	return cpy
}

// Len returns the number of pending items.
func (s *Stack) Len() int {
	return len(s.items)
}

// IsEmpty returns whether the stack is empty.
func (s *Stack) IsEmpty() bool {
	return len(s.items) == 0
}

// Clone returns an independent copy.
func (s *Stack) Clone() Stack {
	return Stack{items: s.Items()}
}

// NewStack builds a stack from items, bottom first.
func NewStack(items []StackItem) Stack {
	return Stack{items: append([]StackItem(nil), items...)}
}
