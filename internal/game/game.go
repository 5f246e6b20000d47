package game

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/hexforge/skirmish/internal/anim"
)

// borderWidth is the pixel gap between the window edge and the board.
const borderWidth = 24

// cellSize is the pixel size of one board cell.
const cellSize = 64

// hudScale is the integer upscale factor applied to all HUD text.
const hudScale = 2

// playerInputLimit caps the PlayerInput phase before it auto-ends.
const playerInputLimit = 20 * time.Second

// hazardAsset is the looping hazard animation rendered on hazard cells.
const hazardAsset = "assets/hazard.gif"

var teamColors = map[Team]color.RGBA{
	TeamRed:  {R: 220, G: 60, B: 50, A: 255},
	TeamBlue: {R: 60, G: 120, B: 230, A: 255},
}

// Game is the application root. It owns every component's lifecycle and
// wires them by injection: the bus, the sequencer, the board, the animated
// hazard texture, and the debug surfaces.
type Game struct {
	width  int
	height int
	offX   int // pixel offset from window left to board left
	offY   int

	bus   *EventHub
	seq   *TurnSequencer
	board *Board
	flow  *TurnFlow

	hazardPlayer *anim.Player
	hazardTex    *ebiten.Image

	eventPanel *EventPanel
	inspector  Inspector
	showPanel  bool
	showHUD    bool
	saveSlot   []byte

	prevKeys map[ebiten.Key]bool
	prevMice map[ebiten.MouseButton]bool

	// Offscreen buffer for HUD text — rendered at 1x then blitted at hudScale.
	hudBuf *ebiten.Image
}

func New() *Game {
	board := NewBoard(12, 8, time.Now().UnixNano())
	board.AddUnit(NewUnit(0, TeamRed, 1, 1, 7))
	board.AddUnit(NewUnit(1, TeamRed, 1, 3, 5))
	board.AddUnit(NewUnit(2, TeamRed, 1, 5, 3))
	board.AddUnit(NewUnit(0, TeamBlue, 10, 2, 6))
	board.AddUnit(NewUnit(1, TeamBlue, 10, 4, 4))
	board.AddUnit(NewUnit(2, TeamBlue, 10, 6, 8))
	board.AddHazard(5, 3)
	board.AddHazard(6, 4)
	board.AddHazard(5, 5)

	boardW := board.Cols * cellSize
	boardH := board.Rows * cellSize

	g := &Game{
		width:      borderWidth + boardW + borderWidth + eventPanelWidth,
		height:     borderWidth + boardH + borderWidth,
		offX:       borderWidth,
		offY:       borderWidth,
		bus:        NewEventHub(),
		board:      board,
		eventPanel: NewEventPanel(),
		showPanel:  true,
		showHUD:    true,
		prevKeys:   make(map[ebiten.Key]bool),
		prevMice:   make(map[ebiten.MouseButton]bool),
	}
	g.seq = NewTurnSequencer(g.bus)
	g.flow = NewTurnFlow(g.seq, g.board, nil, playerInputLimit)
	g.eventPanel.Watch(g.bus)

	g.hazardPlayer = anim.NewPlayer(anim.NewResolverFetcher(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := g.hazardPlayer.Load(ctx, hazardAsset); err != nil {
		// Terminal for this player; hazard cells fall back to a flat fill.
		log.Printf("hazard animation unavailable: %v", err)
	} else {
		w, h := g.hazardPlayer.Size()
		g.hazardTex = ebiten.NewImage(w, h)
		g.hazardPlayer.AttachSurface(g.hazardTex)
	}

	g.hudBuf = ebiten.NewImage(g.width/hudScale, g.height/hudScale)
	g.seq.AdvanceTurn()
	return g
}

func (g *Game) Update() error {
	g.handleInput()
	// Contained per tick: one bad frame must not take down the render loop.
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("tick recovered: %v", r)
			}
		}()
		g.flow.Step()
		g.hazardPlayer.Update()
	}()
	return nil
}

// handleInput processes edge-triggered keys and mouse clicks.
func (g *Game) handleInput() {
	currentKeys := map[ebiten.Key]bool{}
	pressed := func(k ebiten.Key) bool {
		currentKeys[k] = ebiten.IsKeyPressed(k)
		return currentKeys[k] && !g.prevKeys[k]
	}

	// Space: end player input.
	if pressed(ebiten.KeySpace) && g.seq.CurrentPhase() == PhasePlayerInput {
		g.flow.EndInput()
	}

	// Animation controls: P pause/play, [ ] speed, L loop.
	if pressed(ebiten.KeyP) {
		if g.hazardPlayer.Playing() {
			g.hazardPlayer.Pause()
		} else {
			g.hazardPlayer.Play()
		}
	}
	if pressed(ebiten.KeyBracketLeft) {
		g.hazardPlayer.SetSpeed(g.hazardPlayer.Speed() * 0.5)
	}
	if pressed(ebiten.KeyBracketRight) {
		g.hazardPlayer.SetSpeed(g.hazardPlayer.Speed() * 2.0)
	}
	if pressed(ebiten.KeyL) {
		g.hazardPlayer.SetLoop(!g.hazardPlayer.Loop())
	}

	// F5/F9: save and restore sequencer state.
	if pressed(ebiten.KeyF5) {
		data, err := MarshalSave(g.seq.SaveData())
		if err != nil {
			log.Printf("save failed: %v", err)
		} else {
			g.saveSlot = data
		}
	}
	if pressed(ebiten.KeyF9) && g.saveSlot != nil {
		sd, err := UnmarshalSave(g.saveSlot)
		if err == nil {
			err = g.seq.LoadSaveData(sd)
		}
		if err != nil {
			log.Printf("restore failed: %v", err)
		}
	}

	// F7: copy debug report to clipboard.
	if pressed(ebiten.KeyF7) {
		if err := g.CopyDebugReport(); err != nil {
			log.Printf("copy debug report: %v", err)
		}
	}

	// E: toggle event panel. H: toggle HUD. I: toggle inspector raw view.
	if pressed(ebiten.KeyE) {
		g.showPanel = !g.showPanel
	}
	if pressed(ebiten.KeyH) {
		g.showHUD = !g.showHUD
	}
	if pressed(ebiten.KeyI) {
		g.inspector.rawView = !g.inspector.rawView
	}

	// Left click: select a unit, or order the selected unit during input.
	leftNow := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if leftNow && !g.prevMice[ebiten.MouseButtonLeft] {
		mx, my := ebiten.CursorPosition()
		g.handleClick(mx, my)
	}
	g.prevMice[ebiten.MouseButtonLeft] = leftNow

	g.prevKeys = currentKeys
}

// handleClick selects a unit under the cursor; clicking an empty cell while
// a unit is selected queues a move order during PlayerInput.
func (g *Game) handleClick(mx, my int) {
	col := (mx - g.offX) / cellSize
	row := (my - g.offY) / cellSize
	if col < 0 || col >= g.board.Cols || row < 0 || row >= g.board.Rows {
		return
	}
	if u := g.board.UnitAt(col, row); u != nil {
		g.inspector.selected = u
		return
	}
	if g.inspector.selected != nil && g.seq.CurrentPhase() == PhasePlayerInput {
		g.inspector.selected.SetOrder(col, row)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 16, G: 20, B: 16, A: 255})
	g.drawBoard(screen)
	g.drawUnits(screen)
	if g.showPanel {
		g.eventPanel.Draw(screen, g.width-eventPanelWidth, g.height)
	}
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.drawInspector(screen)
}

func (g *Game) drawBoard(screen *ebiten.Image) {
	boardW := float32(g.board.Cols * cellSize)
	boardH := float32(g.board.Rows * cellSize)
	ox := float32(g.offX)
	oy := float32(g.offY)

	vector.FillRect(screen, ox, oy, boardW, boardH, color.RGBA{R: 34, G: 48, B: 34, A: 255}, false)

	// Hazard cells: animated texture when loaded, flat amber otherwise.
	for cell := range g.board.Hazards {
		cx := g.offX + cell[0]*cellSize
		cy := g.offY + cell[1]*cellSize
		if g.hazardTex != nil {
			op := &ebiten.DrawImageOptions{}
			w, h := g.hazardPlayer.Size()
			op.GeoM.Scale(float64(cellSize)/float64(w), float64(cellSize)/float64(h))
			op.GeoM.Translate(float64(cx), float64(cy))
			screen.DrawImage(g.hazardTex, op)
		} else {
			vector.FillRect(screen, float32(cx), float32(cy), cellSize, cellSize,
				color.RGBA{R: 160, G: 120, B: 20, A: 255}, false)
		}
	}

	// Grid lines.
	lineCol := color.RGBA{R: 60, G: 80, B: 60, A: 255}
	for c := 0; c <= g.board.Cols; c++ {
		x := ox + float32(c*cellSize)
		vector.StrokeLine(screen, x, oy, x, oy+boardH, 1.0, lineCol, false)
	}
	for r := 0; r <= g.board.Rows; r++ {
		y := oy + float32(r*cellSize)
		vector.StrokeLine(screen, ox, y, ox+boardW, y, 1.0, lineCol, false)
	}
}

func (g *Game) drawUnits(screen *ebiten.Image) {
	for _, u := range g.board.Units {
		if !u.Alive() {
			continue
		}
		cx := float32(g.offX + u.Col*cellSize + cellSize/2)
		cy := float32(g.offY + u.Row*cellSize + cellSize/2)
		vector.FillCircle(screen, cx, cy, cellSize/2-8, teamColors[u.Team], false)
		if u == g.inspector.selected {
			vector.StrokeCircle(screen, cx, cy, cellSize/2-4, 2.0, color.RGBA{R: 255, G: 255, B: 120, A: 255}, false)
		}
		// Queued order marker.
		if u.HasOrder() {
			o := u.Order()
			tx := float32(g.offX + o.TargetCol*cellSize + cellSize/2)
			ty := float32(g.offY + o.TargetRow*cellSize + cellSize/2)
			vector.StrokeLine(screen, cx, cy, tx, ty, 1.0, color.RGBA{R: 230, G: 230, B: 230, A: 120}, false)
		}
		ebitenutil.DebugPrintAt(screen, u.Label, int(cx)-8, int(cy)-8)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	g.hudBuf.Clear()

	red, blue := g.board.AliveCount()
	ebitenutil.DebugPrintAt(g.hudBuf,
		fmt.Sprintf("TURN %d  PHASE %s  (%.1fs)", g.seq.CurrentTurn(), g.seq.CurrentPhase(), g.seq.TimeInPhase().Seconds()),
		4, 0)
	line2 := fmt.Sprintf("red %d  blue %d  anim x%.2f", red, blue, g.hazardPlayer.Speed())
	if left, ok := g.seq.HasPhaseTimeLimit(); ok {
		line2 += fmt.Sprintf("  input ends in %.0fs", left.Seconds())
	}
	ebitenutil.DebugPrintAt(g.hudBuf, line2, 4, 12)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(hudScale, hudScale)
	op.GeoM.Translate(0, float64(g.height-56))
	screen.DrawImage(g.hudBuf, op)
}

func (g *Game) Layout(_, _ int) (int, int) {
	return g.width, g.height
}
