package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Inspector panel — rendered into an offscreen buffer at 1× then blitted at inspScale.
const (
	inspScale = 2   // scale factor for inspector text rendering
	inspBufW  = 200 // buffer width in pixels
	inspBufH  = 120 // buffer height in pixels
	inspPad   = 4   // padding in buffer-space pixels
	inspLineH = 13  // line height in buffer-space pixels
)

// Inspector holds the selected unit and view toggle state.
type Inspector struct {
	selected *Unit
	rawView  bool // false = curated, true = raw dump

	buf *ebiten.Image
}

// drawInspector renders the panel for the selected unit in the top-left
// corner of the board area.
func (g *Game) drawInspector(screen *ebiten.Image) {
	u := g.inspector.selected
	if u == nil {
		return
	}
	if g.inspector.buf == nil {
		g.inspector.buf = ebiten.NewImage(inspBufW, inspBufH)
	}
	buf := g.inspector.buf
	buf.Fill(color.RGBA{R: 8, G: 10, B: 8, A: 240})

	y := inspPad
	line := func(s string) {
		ebitenutil.DebugPrintAt(buf, s, inspPad, y)
		y += inspLineH
	}

	if g.inspector.rawView {
		line(fmt.Sprintf("%+v", *u))
	} else {
		line(fmt.Sprintf("%s  team=%s", u.Label, u.Team))
		line(fmt.Sprintf("cell=(%d,%d) init=%d", u.Col, u.Row, u.Initiative))
		line(fmt.Sprintf("hp=%d/%d alive=%v", u.HP, unitMaxHP, u.Alive()))
		if u.HasOrder() {
			o := u.Order()
			line(fmt.Sprintf("order -> (%d,%d)", o.TargetCol, o.TargetRow))
		} else {
			line("order: none")
		}
		line(fmt.Sprintf("phase=%s turn=%d", g.seq.CurrentPhase(), g.seq.CurrentTurn()))
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(inspScale, inspScale)
	op.GeoM.Translate(float64(g.offX+4), float64(g.offY+4))
	screen.DrawImage(buf, op)
	vector.StrokeRect(screen, float32(g.offX+4), float32(g.offY+4),
		inspBufW*inspScale, inspBufH*inspScale, 1.0, color.RGBA{R: 70, G: 100, B: 70, A: 255}, false)
}
