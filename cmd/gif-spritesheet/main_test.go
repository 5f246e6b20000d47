package main

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexforge/skirmish/internal/anim"
)

func TestGridSize(t *testing.T) {
	cases := []struct {
		n, cols, rows int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 1},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
		{16, 4, 4},
		{17, 5, 4},
	}
	for _, c := range cases {
		cols, rows := GridSize(c.n)
		assert.Equal(t, c.cols, cols, "cols for n=%d", c.n)
		assert.Equal(t, c.rows, rows, "rows for n=%d", c.n)
		if c.n > 0 {
			assert.GreaterOrEqual(t, cols*rows, c.n, "grid must hold all frames")
		}
	}
}

func testAnimation(t *testing.T, colors ...color.RGBA) *anim.Animation {
	t.Helper()
	g := &gif.GIF{Config: image.Config{Width: 2, Height: 2}}
	for _, c := range colors {
		pal := color.Palette{color.RGBA{}, c}
		img := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
		for i := range img.Pix {
			img.Pix[i] = 1
		}
		g.Image = append(g.Image, img)
		g.Delay = append(g.Delay, 10)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	require.NoError(t, gif.EncodeAll(&buf, g))
	a, err := anim.DecodeAnimation(buf.Bytes())
	require.NoError(t, err)
	return a
}

func TestBuildSheet_LaysFramesOnGrid(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	green := color.RGBA{G: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	a := testAnimation(t, red, green, blue)

	sheet := BuildSheet(a, 1)

	// 3 frames → 2x2 grid of 2x2 cells.
	assert.Equal(t, image.Rect(0, 0, 4, 4), sheet.Bounds())
	assert.Equal(t, red, sheet.RGBAAt(0, 0))
	assert.Equal(t, green, sheet.RGBAAt(2, 0))
	assert.Equal(t, blue, sheet.RGBAAt(0, 2))
	// The fourth cell is empty.
	assert.Equal(t, color.RGBA{}, sheet.RGBAAt(2, 2))
}

func TestBuildSheet_ScaleUpscalesCells(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	a := testAnimation(t, red)

	sheet := BuildSheet(a, 3)
	assert.Equal(t, image.Rect(0, 0, 6, 6), sheet.Bounds())
	assert.Equal(t, red, sheet.RGBAAt(5, 5))
}
