package game

import (
	"reflect"
	"testing"
	"time"
)

func TestSaveData_RoundTrip(t *testing.T) {
	ts, _, clock := newTestSequencer()
	for i := 0; i < 4; i++ {
		clock.Advance(time.Minute)
		ts.AdvanceTurn()
	}
	ts.SetPhase(PhaseExecution)

	data, err := MarshalSave(ts.SaveData())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	sd, err := UnmarshalSave(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	restored, _, _ := newTestSequencer()
	if err := restored.LoadSaveData(sd); err != nil {
		t.Fatalf("load: %v", err)
	}

	if restored.CurrentTurn() != ts.CurrentTurn() {
		t.Fatalf("turn mismatch: %d vs %d", restored.CurrentTurn(), ts.CurrentTurn())
	}
	if restored.CurrentPhase() != ts.CurrentPhase() {
		t.Fatalf("phase mismatch: %s vs %s", restored.CurrentPhase(), ts.CurrentPhase())
	}
	if !reflect.DeepEqual(restored.History(), ts.History()) {
		t.Fatalf("history mismatch:\n%v\nvs\n%v", restored.History(), ts.History())
	}
}

func TestLoadSaveData_RejectsUnknownPhase(t *testing.T) {
	ts, _, _ := newTestSequencer()
	err := ts.LoadSaveData(SaveData{CurrentTurn: 3, CurrentPhase: "Nonsense"})
	if err == nil {
		t.Fatal("unknown phase name should be rejected")
	}
	if ts.CurrentTurn() != 0 {
		t.Fatal("failed load must not mutate the sequencer")
	}
}

func TestLoadSaveData_CancelsPendingDeadline(t *testing.T) {
	ts, _, clock := newTestSequencer()
	fired := false
	ts.SetPhaseTimeLimit(time.Second, func() { fired = true })

	if err := ts.LoadSaveData(SaveData{CurrentPhase: "Execution"}); err != nil {
		t.Fatalf("load: %v", err)
	}
	clock.Advance(5 * time.Second)
	ts.Update()
	if fired {
		t.Fatal("restore should drop the pending deadline")
	}
}

func TestUnmarshalSave_BadJSON(t *testing.T) {
	if _, err := UnmarshalSave([]byte("{nope")); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
