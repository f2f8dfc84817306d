package rules

import (
	"testing"
)

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	spellCastCount := 0
	lifeGainCount := 0

	handle1 := bus.SubscribeTyped(EventSpellCast, func(e Event) {
		spellCastCount++
	})
	bus.SubscribeTyped(EventGainedLife, func(e Event) {
		lifeGainCount++
	})

	bus.Publish(NewEvent(EventSpellCast, 0, "card1", ""))
	if spellCastCount != 1 {
		t.Fatalf("expected spell cast count 1, got %d", spellCastCount)
	}
	if lifeGainCount != 0 {
		t.Fatalf("expected life gain count 0, got %d", lifeGainCount)
	}

	bus.Publish(NewEventWithAmount(EventGainedLife, 0, "source1", "", 5))
	if lifeGainCount != 1 {
		t.Fatalf("expected life gain count 1, got %d", lifeGainCount)
	}

	bus.Unsubscribe(handle1)
	bus.Publish(NewEvent(EventSpellCast, 0, "card2", ""))
	if spellCastCount != 1 {
		t.Fatalf("expected spell cast count still 1 after unsubscribe, got %d", spellCastCount)
	}
}

func TestEventBusOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int
	for i := 0; i < 5; i++ {
		bus.Subscribe(func(Event) { order = append(order, i) })
	}
	bus.Publish(NewEvent(EventStepChanged, 0, "", ""))
	for i, v := range order {
		if v != i {
			t.Fatalf("listeners ran out of order: %v", order)
		}
	}
	if bus.Subscribe(nil) != -1 {
		t.Fatal("nil listener should be rejected")
	}
}

func TestRecorder(t *testing.T) {
	var rec Recorder
	var sink Sink = &rec
	sink.Publish(NewEvent(EventCardDrawn, 1, "a", ""))
	sink.Publish(NewEventWithAmount(EventDamagedPlayer, 0, "b", "", 3))
	sink.Publish(NewEvent(EventCardDrawn, 1, "c", ""))

	if got := len(rec.Events()); got != 3 {
		t.Fatalf("recorded %d events, want 3", got)
	}
	drawn := rec.OfType(EventCardDrawn)
	if len(drawn) != 2 || drawn[1].SourceID != "c" {
		t.Fatalf("unexpected draw events: %+v", drawn)
	}
	if rec.OfType(EventDamagedPlayer)[0].Amount != 3 {
		t.Fatal("amount not kept")
	}

	Discard.Publish(NewEvent(EventGameOver, 0, "", ""))
}
