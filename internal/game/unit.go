package game

import (
	"fmt"
	"math/rand"
	"sort"
)

// Team identifies which side a unit fights for.
type Team int

const (
	TeamRed Team = iota
	TeamBlue
)

func (t Team) String() string {
	if t == TeamRed {
		return "red"
	}
	return "blue"
}

// unitMaxHP is the starting hit-point pool for every unit.
const unitMaxHP = 10

// hazardDamage is the damage dealt by a failed hazard roll.
const hazardDamage = 2

// Order is a queued movement order, set during PlayerInput and consumed one
// grid step at a time during Execution.
type Order struct {
	TargetCol int
	TargetRow int
	Active    bool
}

// Unit is one piece on the grid.
type Unit struct {
	ID         int
	Label      string // e.g. "R0", "B3"
	Team       Team
	Col, Row   int
	Initiative int
	HP         int
	order      Order
}

// NewUnit creates a unit at the given cell with full HP.
func NewUnit(id int, team Team, col, row, initiative int) *Unit {
	prefix := "R"
	if team == TeamBlue {
		prefix = "B"
	}
	return &Unit{
		ID:         id,
		Label:      fmt.Sprintf("%s%d", prefix, id),
		Team:       team,
		Col:        col,
		Row:        row,
		Initiative: initiative,
		HP:         unitMaxHP,
	}
}

// Alive reports whether the unit is still on the board.
func (u *Unit) Alive() bool { return u.HP > 0 }

// SetOrder queues a movement order toward the given cell.
func (u *Unit) SetOrder(col, row int) {
	u.order = Order{TargetCol: col, TargetRow: row, Active: true}
}

// HasOrder reports whether an unconsumed order is queued.
func (u *Unit) HasOrder() bool { return u.order.Active }

// Order returns the queued order (zero value when none is active).
func (u *Unit) Order() Order { return u.order }

// step advances the unit one grid cell toward its order target, clamped to
// the board. Returns true while the order is still being worked.
func (u *Unit) step(cols, rows int) bool {
	if !u.order.Active || !u.Alive() {
		u.order.Active = false
		return false
	}
	u.Col += sign(u.order.TargetCol - u.Col)
	u.Row += sign(u.order.TargetRow - u.Row)
	u.Col = clampInt(u.Col, 0, cols-1)
	u.Row = clampInt(u.Row, 0, rows-1)
	if u.Col == u.order.TargetCol && u.Row == u.order.TargetRow {
		u.order.Active = false
	}
	return u.order.Active
}

// Board is the thin tactics layer the sequencer's phases act on: a grid of
// cells, a set of units, and a set of hazard cells.
type Board struct {
	Cols, Rows int
	Units      []*Unit
	Hazards    map[[2]int]bool
	rng        *rand.Rand

	// Execution order for the current turn, rebuilt during TurnOrder.
	acting []*Unit
}

// NewBoard creates an empty board. The seed drives hazard rolls only.
func NewBoard(cols, rows int, seed int64) *Board {
	return &Board{
		Cols:    cols,
		Rows:    rows,
		Hazards: map[[2]int]bool{},
		rng:     rand.New(rand.NewSource(seed)), // #nosec G404 -- game rolls, not crypto
	}
}

// AddUnit places a unit on the board.
func (b *Board) AddUnit(u *Unit) {
	b.Units = append(b.Units, u)
}

// AddHazard marks a cell as hazardous.
func (b *Board) AddHazard(col, row int) {
	b.Hazards[[2]int{col, row}] = true
}

// UnitAt returns the first living unit on a cell, or nil.
func (b *Board) UnitAt(col, row int) *Unit {
	for _, u := range b.Units {
		if u.Alive() && u.Col == col && u.Row == row {
			return u
		}
	}
	return nil
}

// RollHazards rolls once for every living unit standing on a hazard cell.
// A roll under 0.5 deals hazardDamage. Results are logged to sl when non-nil.
func (b *Board) RollHazards(tick int, sl *SimLog) {
	for _, u := range b.Units {
		if !u.Alive() || !b.Hazards[[2]int{u.Col, u.Row}] {
			continue
		}
		roll := b.rng.Float64()
		hit := roll < 0.5
		if hit {
			u.HP -= hazardDamage
			if u.HP < 0 {
				u.HP = 0
			}
		}
		if sl != nil {
			sl.Add(tick, u.Label, "hazard", "roll",
				fmt.Sprintf("roll=%.2f hit=%v hp=%d", roll, hit, u.HP), roll)
		}
	}
}

// BuildTurnOrder sorts living units by descending initiative (stable, label
// tiebreak) and stores the result as this turn's acting order.
func (b *Board) BuildTurnOrder() []*Unit {
	acting := make([]*Unit, 0, len(b.Units))
	for _, u := range b.Units {
		if u.Alive() {
			acting = append(acting, u)
		}
	}
	sort.SliceStable(acting, func(i, j int) bool {
		if acting[i].Initiative != acting[j].Initiative {
			return acting[i].Initiative > acting[j].Initiative
		}
		return acting[i].Label < acting[j].Label
	})
	b.acting = acting
	return acting
}

// StepExecution advances every acting unit one grid step in initiative
// order. Returns true while at least one order remains unconsumed.
func (b *Board) StepExecution(tick int, sl *SimLog) bool {
	busy := false
	for _, u := range b.acting {
		if u.step(b.Cols, b.Rows) {
			busy = true
		}
		if sl != nil && u.Alive() {
			sl.AddVerbose(tick, u.Label, "unit", "position",
				fmt.Sprintf("(%d,%d)", u.Col, u.Row), 0)
		}
	}
	return busy
}

// AliveCount returns living unit counts per team.
func (b *Board) AliveCount() (red, blue int) {
	for _, u := range b.Units {
		if !u.Alive() {
			continue
		}
		if u.Team == TeamRed {
			red++
		} else {
			blue++
		}
	}
	return red, blue
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
