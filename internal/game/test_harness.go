package game

import "time"

// FakeClock is a manually-advanced clock for deterministic runs.
type FakeClock struct {
	t time.Time
}

// NewFakeClock starts a clock at a fixed, arbitrary instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now returns the current fake instant.
func (c *FakeClock) Now() time.Time { return c.t }

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// TestSim is a headless turn-cycle harness used exclusively by tests and the
// report CLI. It mirrors the windowed Game's per-frame update but has no
// Ebiten dependency and runs on a fake clock.
type TestSim struct {
	Seq    *TurnSequencer
	Board  *Board
	Flow   *TurnFlow
	Bus    *EventHub
	SimLog *SimLog
	Clock  *FakeClock

	tickDur    time.Duration
	inputLimit time.Duration
	seed       int64
	cols, rows int
	verbose    bool
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra simOptionKind = iota // grid size, seed, timing, verbose — applied first
	simOptUnit                       // add units — applied after the board exists
)

// SimOption is a builder function applied to a TestSim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*TestSim)
}

// WithGridSize sets the board dimensions in cells.
func WithGridSize(cols, rows int) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.cols, ts.rows = cols, rows
	}}
}

// WithSeed sets the hazard RNG seed for deterministic runs.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.seed = seed
	}}
}

// WithVerbose enables per-tick verbose logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.verbose = v
	}}
}

// WithTickDuration sets how much fake time each tick advances.
func WithTickDuration(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.tickDur = d
	}}
}

// WithInputLimit caps the PlayerInput phase with a deadline.
func WithInputLimit(d time.Duration) SimOption {
	return SimOption{simOptInfra, func(ts *TestSim) {
		ts.inputLimit = d
	}}
}

// WithRedUnit adds a red unit at (col,row) with the given initiative.
func WithRedUnit(id, col, row, initiative int) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.Board.AddUnit(NewUnit(id, TeamRed, col, row, initiative))
	}}
}

// WithBlueUnit adds a blue unit at (col,row) with the given initiative.
func WithBlueUnit(id, col, row, initiative int) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.Board.AddUnit(NewUnit(id, TeamBlue, col, row, initiative))
	}}
}

// WithHazard marks a cell hazardous.
func WithHazard(col, row int) SimOption {
	return SimOption{simOptUnit, func(ts *TestSim) {
		ts.Board.AddHazard(col, row)
	}}
}

// NewTestSim constructs a harness from the given options in two ordered
// passes: infrastructure first, then units and hazards. The sequencer starts
// at turn 1, phase Start, with the fake clock injected.
func NewTestSim(opts ...SimOption) *TestSim {
	ts := &TestSim{
		cols:    12,
		rows:    8,
		seed:    1,
		tickDur: 16 * time.Millisecond, // ~60 TPS
	}
	for _, o := range opts {
		if o.kind == simOptInfra {
			o.fn(ts)
		}
	}

	ts.Clock = NewFakeClock()
	ts.Bus = NewEventHub()
	ts.SimLog = NewSimLog(ts.verbose)
	ts.Seq = NewTurnSequencer(ts.Bus)
	ts.Seq.now = ts.Clock.Now
	ts.Board = NewBoard(ts.cols, ts.rows, ts.seed)
	ts.Flow = NewTurnFlow(ts.Seq, ts.Board, ts.SimLog, ts.inputLimit)
	logBusEvents(ts.Bus, ts.Flow, ts.SimLog)

	for _, o := range opts {
		if o.kind == simOptUnit {
			o.fn(ts)
		}
	}

	ts.Seq.AdvanceTurn()
	return ts
}

// EndInput marks the current PlayerInput phase finished.
func (ts *TestSim) EndInput() { ts.Flow.EndInput() }

// Step advances the fake clock and runs n flow ticks.
func (ts *TestSim) Step(n int) {
	for i := 0; i < n; i++ {
		ts.Clock.Advance(ts.tickDur)
		ts.Flow.Step()
	}
}

// Unit returns the unit with the given label, or nil.
func (ts *TestSim) Unit(label string) *Unit {
	for _, u := range ts.Board.Units {
		if u.Label == label {
			return u
		}
	}
	return nil
}
