package game

import "time"

// TurnRecord is one completed turn, appended to history exactly once and
// never mutated afterwards.
type TurnRecord struct {
	TurnNumber int       `json:"turnNumber"`
	EndTime    time.Time `json:"endTime"`
}

// TurnSequencer tracks the turn counter and the active phase as a projection
// of the host's coarse state machine. It never drives the game itself: the
// host pushes state names in, the sequencer counts turns, timestamps phase
// transitions, and publishes notifications on the bus.
//
// Everything is synchronous and runs on the game loop. The phase deadline is
// cooperative: it fires from Update, not from a goroutine.
type TurnSequencer struct {
	bus Bus
	now func() time.Time

	currentTurn    int
	currentPhase   Phase
	previousPhase  Phase
	phaseStartTime time.Time
	history        []TurnRecord

	// Pending one-shot phase deadline. Zero deadline means none.
	deadline   time.Time
	deadlineFn func()
	limit      time.Duration
}

// NewTurnSequencer creates a sequencer at turn 0 (setup), phase Start.
func NewTurnSequencer(bus Bus) *TurnSequencer {
	ts := &TurnSequencer{
		bus: bus,
		now: time.Now,
	}
	ts.phaseStartTime = ts.now()
	return ts
}

func (ts *TurnSequencer) CurrentTurn() int          { return ts.currentTurn }
func (ts *TurnSequencer) CurrentPhase() Phase       { return ts.currentPhase }
func (ts *TurnSequencer) PreviousPhase() Phase      { return ts.previousPhase }
func (ts *TurnSequencer) PhaseStartTime() time.Time { return ts.phaseStartTime }

// TimeInPhase reports how long the current phase has been active.
func (ts *TurnSequencer) TimeInPhase() time.Duration {
	return ts.now().Sub(ts.phaseStartTime)
}

// History returns a copy of the completed-turn records, oldest first.
func (ts *TurnSequencer) History() []TurnRecord {
	out := make([]TurnRecord, len(ts.history))
	copy(out, ts.history)
	return out
}

// AdvanceTurn increments the turn counter and announces the new turn.
// The just-completed turn is recorded to history first; the very first call
// has no prior turn to record (turn 0 is setup, not a played turn).
func (ts *TurnSequencer) AdvanceTurn() {
	now := ts.now()
	if ts.currentTurn > 0 {
		ts.history = append(ts.history, TurnRecord{TurnNumber: ts.currentTurn, EndTime: now})
		ts.bus.Publish(EventTurnEnd, TurnEndEvent{Turn: ts.currentTurn, EndTime: now})
	}
	ts.currentTurn++
	ts.SetPhase(PhaseStart)
	ts.bus.Publish(EventTurnBegin, TurnBeginEvent{Turn: ts.currentTurn, Timestamp: now})
}

// SetPhase switches the active phase. Setting the current phase again is a
// no-op: no timestamp update, no event. An effective transition cancels any
// pending phase deadline.
func (ts *TurnSequencer) SetPhase(p Phase) {
	if p == ts.currentPhase {
		return
	}
	ts.clearDeadline()
	ts.previousPhase = ts.currentPhase
	ts.currentPhase = p
	ts.phaseStartTime = ts.now()
	ts.bus.Publish(EventPhaseChange, PhaseChangeEvent{
		Turn:          ts.currentTurn,
		PreviousPhase: ts.previousPhase.String(),
		NewPhase:      ts.currentPhase.String(),
		Timestamp:     ts.phaseStartTime,
	})
}

// ApplyState maps a coarse game-state name to a phase and applies it.
// Unmapped names leave the phase unchanged.
func (ts *TurnSequencer) ApplyState(name string) {
	if p, ok := statePhases[name]; ok {
		ts.SetPhase(p)
	}
}

// SetPhaseTimeLimit arms a one-shot deadline for the current phase. At most
// one deadline is pending at a time; arming a new one replaces the prior.
// When it fires (from Update), a PhaseTimeExpired event is published and then
// fn is invoked.
func (ts *TurnSequencer) SetPhaseTimeLimit(d time.Duration, fn func()) {
	ts.deadline = ts.now().Add(d)
	ts.deadlineFn = fn
	ts.limit = d
}

// HasPhaseTimeLimit reports whether a deadline is pending, and the time left.
func (ts *TurnSequencer) HasPhaseTimeLimit() (time.Duration, bool) {
	if ts.deadline.IsZero() {
		return 0, false
	}
	return ts.deadline.Sub(ts.now()), true
}

// Update fires the pending phase deadline once it is due. Call once per tick.
func (ts *TurnSequencer) Update() {
	if ts.deadline.IsZero() || ts.now().Before(ts.deadline) {
		return
	}
	fn := ts.deadlineFn
	limit := ts.limit
	ts.clearDeadline()
	ts.bus.Publish(EventPhaseTimeExpired, PhaseTimeExpiredEvent{
		Turn:      ts.currentTurn,
		Phase:     ts.currentPhase.String(),
		Limit:     limit,
		Timestamp: ts.now(),
	})
	if fn != nil {
		fn()
	}
}

func (ts *TurnSequencer) clearDeadline() {
	ts.deadline = time.Time{}
	ts.deadlineFn = nil
	ts.limit = 0
}
