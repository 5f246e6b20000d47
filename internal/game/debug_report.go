package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// DebugReport builds a plain-text snapshot of the sequencer, the animated
// hazard texture, and every unit. Pasteable into a bug report as-is.
func (g *Game) DebugReport() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- Skirmish debug report ---\n")
	fmt.Fprintf(&b, "turn=%d phase=%s time_in_phase=%s\n",
		g.seq.CurrentTurn(), g.seq.CurrentPhase(), g.seq.TimeInPhase().Round(10*time.Millisecond))
	if left, ok := g.seq.HasPhaseTimeLimit(); ok {
		fmt.Fprintf(&b, "phase_deadline_in=%s\n", left.Round(10*time.Millisecond))
	}

	fmt.Fprintf(&b, "\n== turn history (%d) ==\n", len(g.seq.History()))
	for _, r := range g.seq.History() {
		fmt.Fprintf(&b, "turn %d ended %s\n", r.TurnNumber, r.EndTime.Format("15:04:05.000"))
	}

	fmt.Fprintf(&b, "\n== hazard animation ==\n")
	if g.hazardPlayer.Loaded() {
		w, h := g.hazardPlayer.Size()
		fmt.Fprintf(&b, "loaded %dx%d frames=%d frame=%d playing=%v loop=%v speed=%.2f one_pass=%s\n",
			w, h, g.hazardPlayer.FrameCount(), g.hazardPlayer.FrameIndex(),
			g.hazardPlayer.Playing(), g.hazardPlayer.Loop(), g.hazardPlayer.Speed(),
			g.hazardPlayer.Duration())
	} else {
		b.WriteString("not loaded\n")
	}

	fmt.Fprintf(&b, "\n== units (%d) ==\n", len(g.board.Units))
	for _, u := range g.board.Units {
		order := "-"
		if u.HasOrder() {
			o := u.Order()
			order = fmt.Sprintf("(%d,%d)", o.TargetCol, o.TargetRow)
		}
		fmt.Fprintf(&b, "%-4s %-5s cell=(%2d,%2d) init=%d hp=%2d order=%s\n",
			u.Label, u.Team, u.Col, u.Row, u.Initiative, u.HP, order)
	}
	return b.String()
}

// CopyDebugReport puts the report on the system clipboard.
func (g *Game) CopyDebugReport() error {
	return clipboard.WriteAll(g.DebugReport())
}
