package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	eventPanelWidth = 320
	panelMaxEntries = 48
	panelLineHeight = 12
)

// PanelEntry is a single line in the event panel.
type PanelEntry struct {
	Turn    int
	Message string
}

// EventPanel is a ring buffer of recent bus events rendered on-screen. It is
// the on-screen counterpart of SimLog: bounded, human-readable, disposable.
type EventPanel struct {
	entries []PanelEntry
	head    int
	count   int
}

// NewEventPanel creates a panel with a fixed capacity.
func NewEventPanel() *EventPanel {
	return &EventPanel{
		entries: make([]PanelEntry, panelMaxEntries),
	}
}

// Add appends an entry to the panel.
func (ep *EventPanel) Add(turn int, msg string) {
	ep.entries[ep.head] = PanelEntry{Turn: turn, Message: msg}
	ep.head = (ep.head + 1) % panelMaxEntries
	if ep.count < panelMaxEntries {
		ep.count++
	}
}

// Recent returns entries in chronological order (oldest first).
func (ep *EventPanel) Recent() []PanelEntry {
	result := make([]PanelEntry, ep.count)
	for i := 0; i < ep.count; i++ {
		idx := (ep.head - ep.count + i + panelMaxEntries) % panelMaxEntries
		result[i] = ep.entries[idx]
	}
	return result
}

// Watch subscribes the panel to every sequencer event on the bus.
func (ep *EventPanel) Watch(bus Bus) {
	bus.Subscribe(EventPhaseChange, func(payload any) {
		if e, ok := payload.(PhaseChangeEvent); ok {
			ep.Add(e.Turn, fmt.Sprintf("phase %s > %s", e.PreviousPhase, e.NewPhase))
		}
	})
	bus.Subscribe(EventTurnBegin, func(payload any) {
		if e, ok := payload.(TurnBeginEvent); ok {
			ep.Add(e.Turn, "turn begins")
		}
	})
	bus.Subscribe(EventTurnEnd, func(payload any) {
		if e, ok := payload.(TurnEndEvent); ok {
			ep.Add(e.Turn, "turn ends")
		}
	})
	bus.Subscribe(EventPhaseTimeExpired, func(payload any) {
		if e, ok := payload.(PhaseTimeExpiredEvent); ok {
			ep.Add(e.Turn, fmt.Sprintf("time up in %s (%s)", e.Phase, e.Limit))
		}
	})
}

// Draw renders the panel on the right side of the screen.
func (ep *EventPanel) Draw(screen *ebiten.Image, panelX int, panelH int) {
	// Panel background.
	vector.FillRect(screen, float32(panelX), 0, float32(eventPanelWidth), float32(panelH), color.RGBA{R: 10, G: 12, B: 10, A: 248}, false)
	// Left separator line.
	vector.StrokeLine(screen, float32(panelX), 0, float32(panelX), float32(panelH), 1.0, color.RGBA{R: 50, G: 70, B: 50, A: 255}, false)

	// Title bar.
	vector.FillRect(screen, float32(panelX), 0, float32(eventPanelWidth), 16, color.RGBA{R: 20, G: 30, B: 20, A: 255}, false)
	ebitenutil.DebugPrintAt(screen, "EVENT LOG", panelX+8, 2)
	vector.StrokeLine(screen, float32(panelX), 16, float32(panelX+eventPanelWidth), 16, 1.0, color.RGBA{R: 50, G: 80, B: 50, A: 200}, false)

	// Draw from bottom up so newest is at the bottom.
	entries := ep.Recent()
	y := panelH - panelLineHeight - 4
	for i := len(entries) - 1; i >= 0 && y > 20; i-- {
		e := entries[i]
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("[T%02d] %s", e.Turn, e.Message), panelX+6, y)
		y -= panelLineHeight
	}
}
