package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType indicates the category of a rules event.
type EventType string

const (
	// Game/turn events
	EventGameStarted     EventType = "GAME_STARTED"
	EventTurnStarted     EventType = "TURN_STARTED"
	EventStepChanged     EventType = "STEP_CHANGED"
	EventPriorityGranted EventType = "PRIORITY_GRANTED"
	EventPriorityPassed  EventType = "PRIORITY_PASSED"
	EventGameOver        EventType = "GAME_OVER"

	// Zone change events
	EventCardDrawn          EventType = "CARD_DRAWN"
	EventEmptyLibraryDraw   EventType = "EMPTY_LIBRARY_DRAW"
	EventLandPlayed         EventType = "LAND_PLAYED"
	EventEnteredBattlefield EventType = "ENTERED_BATTLEFIELD"
	EventPermanentDies      EventType = "PERMANENT_DIES"

	// Spell events
	EventSpellCast     EventType = "SPELL_CAST"
	EventSpellResolved EventType = "SPELL_RESOLVED"
	EventSpellFizzled  EventType = "SPELL_FIZZLED"
	EventPaymentFailed EventType = "PAYMENT_FAILED"
	EventManaAdded     EventType = "MANA_ADDED"

	// Combat events
	EventAttackerDeclared EventType = "ATTACKER_DECLARED"
	EventBlockerDeclared  EventType = "BLOCKER_DECLARED"
	EventDamagedCreature  EventType = "DAMAGED_CREATURE"
	EventDamagedPlayer    EventType = "DAMAGED_PLAYER"
	EventGainedLife       EventType = "GAINED_LIFE"
	EventCombatEnded      EventType = "COMBAT_ENDED"

	// Rules maintenance
	EventStateBasedActions EventType = "STATE_BASED_ACTIONS"
	EventEffectsExpired    EventType = "EFFECTS_EXPIRED"
	EventPlayerLost        EventType = "PLAYER_LOST"
)

// Event is a structured record of something that happened in a game.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Turn        int       `json:"turn"`
	Step        string    `json:"step"`
	PlayerID    int       `json:"player"`
	SourceID    string    `json:"source_id,omitempty"`
	TargetID    string    `json:"target_id,omitempty"`
	Amount      int       `json:"amount,omitempty"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewEvent creates a new event with common fields populated.
func NewEvent(eventType EventType, playerID int, sourceID, targetID string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PlayerID:  playerID,
		SourceID:  sourceID,
		TargetID:  targetID,
		Timestamp: time.Now(),
	}
}

// NewEventWithAmount creates a new event with an amount value.
func NewEventWithAmount(eventType EventType, playerID int, sourceID, targetID string, amount int) Event {
	evt := NewEvent(eventType, playerID, sourceID, targetID)
	evt.Amount = amount
	return evt
}

// Sink receives engine events. The engine never writes output itself.
type Sink interface {
	Publish(event Event)
}

type discardSink struct{}

func (discardSink) Publish(Event) {}

// Discard is a Sink that drops every event.
var Discard Sink = discardSink{}

// Listener receives every published event.
type Listener func(Event)

type subscription struct {
	handle    int
	eventType EventType
	callback  Listener
}

// EventBus is a synchronous Sink that fans events out to subscribers in
// subscription order.
type EventBus struct {
	mu         sync.RWMutex
	subs       []subscription
	nextHandle int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.SubscribeTyped("", listener)
}

// SubscribeTyped registers a listener for a specific event type. An empty type
// matches every event.
func (bus *EventBus) SubscribeTyped(eventType EventType, callback Listener) int {
	if callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	handle := bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, subscription{handle: handle, eventType: eventType, callback: callback})
	return handle
}

// Unsubscribe removes the listener identified by the provided handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, s := range bus.subs {
		if s.handle == handle {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers the event to all matching listeners synchronously.
func (bus *EventBus) Publish(event Event) {
	bus.mu.RLock()
	subs := bus.subs
	bus.mu.RUnlock()

	for _, s := range subs {
		if s.eventType == "" || s.eventType == event.Type {
			s.callback(event)
		}
	}
}

// Recorder is a Sink that keeps every event in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Publish implements Sink.
func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns recorded events of one type.
func (r *Recorder) OfType(eventType EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
