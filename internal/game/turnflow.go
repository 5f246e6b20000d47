package game

import (
	"fmt"
	"strings"
	"time"
)

// TurnFlow drives one full turn cycle through the sequencer's phases. It is
// the single coarse state machine feeding ApplyState; the windowed Game and
// the headless TestSim both run on it so their behaviour cannot drift apart.
type TurnFlow struct {
	Seq   *TurnSequencer
	Board *Board
	Log   *SimLog

	tick       int
	inputDone  bool
	inputLimit time.Duration
}

// NewTurnFlow wires a flow over an existing sequencer and board.
// inputLimit caps the PlayerInput phase; zero disables the deadline.
func NewTurnFlow(seq *TurnSequencer, board *Board, log *SimLog, inputLimit time.Duration) *TurnFlow {
	return &TurnFlow{Seq: seq, Board: board, Log: log, inputLimit: inputLimit}
}

// Tick returns the number of flow ticks run so far.
func (f *TurnFlow) Ticks() int { return f.tick }

// EndInput marks player input finished; the flow moves on next tick.
// Also used as the PlayerInput deadline callback.
func (f *TurnFlow) EndInput() { f.inputDone = true }

// Step runs one cooperative tick of the turn cycle.
func (f *TurnFlow) Step() {
	f.tick++
	f.Seq.Update()

	switch f.Seq.CurrentPhase() {
	case PhaseStart:
		f.inputDone = false
		f.Seq.ApplyState("playerInput")
		if f.inputLimit > 0 {
			f.Seq.SetPhaseTimeLimit(f.inputLimit, f.EndInput)
		}

	case PhasePlayerInput:
		if f.inputDone {
			f.Seq.ApplyState("hazardRolls")
		}

	case PhaseHazardRolls:
		f.Board.RollHazards(f.tick, f.Log)
		f.Seq.ApplyState("initiative")

	case PhaseTurnOrder:
		order := f.Board.BuildTurnOrder()
		if f.Log != nil {
			labels := make([]string, len(order))
			for i, u := range order {
				labels[i] = u.Label
			}
			f.Log.Add(f.tick, "seq", "turn", "order", strings.Join(labels, " "), float64(len(order)))
		}
		f.Seq.ApplyState("executing")

	case PhaseExecution:
		if !f.Board.StepExecution(f.tick, f.Log) {
			f.Seq.ApplyState("turnEnd")
		}

	case PhaseEnd:
		f.Seq.AdvanceTurn()
	}
}

// logBusEvents subscribes sl to every sequencer event so headless runs keep
// a machine-readable trace. The tick recorded is the flow's tick counter at
// delivery time.
func logBusEvents(bus Bus, f *TurnFlow, sl *SimLog) {
	bus.Subscribe(EventPhaseChange, func(payload any) {
		if e, ok := payload.(PhaseChangeEvent); ok {
			sl.Add(f.tick, "seq", "phase", "change",
				fmt.Sprintf("%s → %s", e.PreviousPhase, e.NewPhase), float64(e.Turn))
		}
	})
	bus.Subscribe(EventTurnBegin, func(payload any) {
		if e, ok := payload.(TurnBeginEvent); ok {
			sl.Add(f.tick, "seq", "turn", "begin", fmt.Sprintf("turn %d", e.Turn), float64(e.Turn))
		}
	})
	bus.Subscribe(EventTurnEnd, func(payload any) {
		if e, ok := payload.(TurnEndEvent); ok {
			sl.Add(f.tick, "seq", "turn", "end", fmt.Sprintf("turn %d", e.Turn), float64(e.Turn))
		}
	})
	bus.Subscribe(EventPhaseTimeExpired, func(payload any) {
		if e, ok := payload.(PhaseTimeExpiredEvent); ok {
			sl.Add(f.tick, "seq", "timer", "expired",
				fmt.Sprintf("%s after %s", e.Phase, e.Limit), float64(e.Turn))
		}
	})
}
