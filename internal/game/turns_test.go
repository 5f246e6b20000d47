package game

import (
	"testing"
	"time"
)

func newTestSequencer() (*TurnSequencer, *EventHub, *FakeClock) {
	hub := NewEventHub()
	clock := NewFakeClock()
	ts := NewTurnSequencer(hub)
	ts.now = clock.Now
	return ts, hub, clock
}

// --- SetPhase ---

func TestSetPhase_ChangesAndNotifiesOnce(t *testing.T) {
	ts, hub, _ := newTestSequencer()
	var events []PhaseChangeEvent
	hub.Subscribe(EventPhaseChange, func(p any) {
		events = append(events, p.(PhaseChangeEvent))
	})

	ts.SetPhase(PhasePlayerInput)
	ts.SetPhase(PhasePlayerInput)
	ts.SetPhase(PhasePlayerInput)

	if ts.CurrentPhase() != PhasePlayerInput {
		t.Fatalf("expected PlayerInput, got %s", ts.CurrentPhase())
	}
	if len(events) != 1 {
		t.Fatalf("repeated identical SetPhase should notify once, got %d events", len(events))
	}
	if events[0].PreviousPhase != "Start" || events[0].NewPhase != "PlayerInput" {
		t.Fatalf("unexpected payload: %+v", events[0])
	}
}

func TestSetPhase_RecordsPreviousAndTimestamp(t *testing.T) {
	ts, _, clock := newTestSequencer()
	ts.SetPhase(PhaseHazardRolls)
	clock.Advance(3 * time.Second)
	ts.SetPhase(PhaseTurnOrder)

	if ts.PreviousPhase() != PhaseHazardRolls {
		t.Fatalf("previous phase should be HazardRolls, got %s", ts.PreviousPhase())
	}
	if got := ts.PhaseStartTime(); !got.Equal(clock.Now()) {
		t.Fatalf("phase start should be stamped at transition time, got %v", got)
	}
	if ts.TimeInPhase() != 0 {
		t.Fatalf("time in phase should be 0 right after transition, got %v", ts.TimeInPhase())
	}
}

// --- ApplyState ---

func TestApplyState_MappedAndUnmapped(t *testing.T) {
	ts, _, _ := newTestSequencer()

	ts.ApplyState("executing")
	if ts.CurrentPhase() != PhaseExecution {
		t.Fatalf("expected Execution, got %s", ts.CurrentPhase())
	}

	// Unmapped names are silently ignored: phase stays unchanged.
	ts.ApplyState("noSuchState")
	ts.ApplyState("")
	if ts.CurrentPhase() != PhaseExecution {
		t.Fatalf("unmapped state should not change phase, got %s", ts.CurrentPhase())
	}
}

// --- AdvanceTurn ---

func TestAdvanceTurn_CounterAndHistory(t *testing.T) {
	ts, _, clock := newTestSequencer()

	const n = 5
	for i := 0; i < n; i++ {
		clock.Advance(time.Second)
		ts.AdvanceTurn()
	}
	if ts.CurrentTurn() != n {
		t.Fatalf("after %d advances expected turn %d, got %d", n, n, ts.CurrentTurn())
	}
	// First call has no prior turn to record.
	hist := ts.History()
	if len(hist) != n-1 {
		t.Fatalf("expected %d history records, got %d", n-1, len(hist))
	}
	for i, r := range hist {
		if r.TurnNumber != i+1 {
			t.Fatalf("history[%d] should record turn %d, got %d", i, i+1, r.TurnNumber)
		}
	}
}

func TestAdvanceTurn_Notifications(t *testing.T) {
	ts, hub, _ := newTestSequencer()
	var begins, ends int
	hub.Subscribe(EventTurnBegin, func(any) { begins++ })
	hub.Subscribe(EventTurnEnd, func(any) { ends++ })

	ts.AdvanceTurn()
	ts.AdvanceTurn()
	ts.AdvanceTurn()

	if begins != 3 {
		t.Fatalf("expected 3 turn-begin events, got %d", begins)
	}
	if ends != 2 {
		t.Fatalf("first advance has no turn to end; expected 2 turn-end events, got %d", ends)
	}
}

func TestAdvanceTurn_ResetsPhase(t *testing.T) {
	ts, _, _ := newTestSequencer()
	ts.SetPhase(PhaseEnd)
	ts.AdvanceTurn()
	if ts.CurrentPhase() != PhaseStart {
		t.Fatalf("new turn should open in Start, got %s", ts.CurrentPhase())
	}
}

// --- Phase time limit ---

func TestPhaseTimeLimit_FiresOnce(t *testing.T) {
	ts, hub, clock := newTestSequencer()
	var expired []PhaseTimeExpiredEvent
	hub.Subscribe(EventPhaseTimeExpired, func(p any) {
		expired = append(expired, p.(PhaseTimeExpiredEvent))
	})

	fired := 0
	ts.SetPhase(PhasePlayerInput)
	ts.SetPhaseTimeLimit(5*time.Second, func() { fired++ })

	clock.Advance(4 * time.Second)
	ts.Update()
	if fired != 0 {
		t.Fatal("deadline fired early")
	}

	clock.Advance(2 * time.Second)
	ts.Update()
	ts.Update()
	ts.Update()
	if fired != 1 {
		t.Fatalf("deadline should fire exactly once, fired %d times", fired)
	}
	if len(expired) != 1 || expired[0].Phase != "PlayerInput" || expired[0].Limit != 5*time.Second {
		t.Fatalf("unexpected expiry events: %+v", expired)
	}
}

func TestPhaseTimeLimit_ReplacedByNewer(t *testing.T) {
	ts, _, clock := newTestSequencer()
	var firedA, firedB bool
	ts.SetPhaseTimeLimit(time.Second, func() { firedA = true })
	ts.SetPhaseTimeLimit(10*time.Second, func() { firedB = true })

	clock.Advance(2 * time.Second)
	ts.Update()
	if firedA {
		t.Fatal("replaced deadline must not fire")
	}
	clock.Advance(9 * time.Second)
	ts.Update()
	if !firedB {
		t.Fatal("replacement deadline should fire")
	}
}

func TestPhaseTimeLimit_CancelledByTransition(t *testing.T) {
	ts, _, clock := newTestSequencer()
	fired := false
	ts.SetPhase(PhasePlayerInput)
	ts.SetPhaseTimeLimit(time.Second, func() { fired = true })

	ts.SetPhase(PhaseHazardRolls)
	clock.Advance(5 * time.Second)
	ts.Update()
	if fired {
		t.Fatal("phase transition should cancel the pending deadline")
	}
	if _, ok := ts.HasPhaseTimeLimit(); ok {
		t.Fatal("no deadline should be pending after transition")
	}
}

func TestPhaseTimeLimit_NilCallback(t *testing.T) {
	ts, hub, clock := newTestSequencer()
	count := 0
	hub.Subscribe(EventPhaseTimeExpired, func(any) { count++ })
	ts.SetPhaseTimeLimit(time.Second, nil)
	clock.Advance(2 * time.Second)
	ts.Update()
	if count != 1 {
		t.Fatalf("expiry event should still publish with nil callback, got %d", count)
	}
}
