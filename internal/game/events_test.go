package game

import "testing"

func TestEventHub_DispatchOrder(t *testing.T) {
	hub := NewEventHub()
	var got []int
	hub.Subscribe("x", func(any) { got = append(got, 1) })
	hub.Subscribe("x", func(any) { got = append(got, 2) })
	hub.Subscribe("y", func(any) { got = append(got, 99) })

	hub.Publish("x", nil)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected handlers in subscription order [1 2], got %v", got)
	}
}

func TestEventHub_PayloadPassthrough(t *testing.T) {
	hub := NewEventHub()
	var seen PhaseChangeEvent
	hub.Subscribe(EventPhaseChange, func(p any) {
		seen = p.(PhaseChangeEvent)
	})
	hub.Publish(EventPhaseChange, PhaseChangeEvent{Turn: 7, NewPhase: "End"})
	if seen.Turn != 7 || seen.NewPhase != "End" {
		t.Fatalf("payload not delivered intact: %+v", seen)
	}
}

func TestEventHub_PanickingHandlerContained(t *testing.T) {
	hub := NewEventHub()
	reached := false
	hub.Subscribe("boom", func(any) { panic("bad listener") })
	hub.Subscribe("boom", func(any) { reached = true })

	hub.Publish("boom", nil) // must not panic out

	if !reached {
		t.Fatal("handler after a panicking one should still run")
	}
}

func TestEventHub_NoSubscribers(t *testing.T) {
	hub := NewEventHub()
	hub.Publish("nobody-listens", 42) // must be a no-op
}
