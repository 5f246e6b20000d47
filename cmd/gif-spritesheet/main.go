// gif-spritesheet converts GIF animations into PNG spritesheets. Frames are
// composited in playback order (honouring disposal, so partial-update GIFs
// come out coalesced) and laid on a near-square grid.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/hexforge/skirmish/internal/anim"
)

func main() {
	var outDir string
	var scale int

	flag.StringVar(&outDir, "o", "", "directory to save spritesheets (default: alongside each GIF)")
	flag.IntVar(&scale, "scale", 1, "integer upscale factor applied to each cell")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: gif-spritesheet [-o outdir] [-scale n] <dir>")
		os.Exit(1)
	}
	if scale < 1 {
		fmt.Fprintln(os.Stderr, "error: -scale must be >= 1")
		os.Exit(1)
	}

	dir := flag.Arg(0)
	entries, err := os.ReadDir(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	processed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".gif") {
			continue
		}
		gifPath := filepath.Join(dir, e.Name())
		out, err := convert(gifPath, outDir, scale)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error processing %s: %v\n", e.Name(), err)
			continue
		}
		fmt.Printf("created spritesheet: %s\n", out)
		processed++
	}
	fmt.Printf("processed %d GIF files\n", processed)
}

// convert writes <name>_spritesheet.png for one GIF and returns its path.
func convert(gifPath, outDir string, scale int) (string, error) {
	data, err := os.ReadFile(gifPath)
	if err != nil {
		return "", err
	}
	a, err := anim.DecodeAnimation(data)
	if err != nil {
		return "", err
	}

	sheet := BuildSheet(a, scale)

	if outDir == "" {
		outDir = filepath.Dir(gifPath)
	}
	base := strings.TrimSuffix(filepath.Base(gifPath), filepath.Ext(gifPath))
	outPath := filepath.Join(outDir, base+"_spritesheet.png")

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, sheet); err != nil {
		return "", err
	}
	return outPath, nil
}

// GridSize returns the near-square column/row layout for n frames.
func GridSize(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = 1
	for cols*cols < n {
		cols++
	}
	rows = (n + cols - 1) / cols
	return cols, rows
}

// BuildSheet composites every frame of a in playback order and pastes the
// coalesced results onto a grid, upscaled by scale with nearest-neighbour.
func BuildSheet(a *anim.Animation, scale int) *image.RGBA {
	cols, rows := GridSize(len(a.Frames))
	cellW, cellH := a.Width*scale, a.Height*scale
	sheet := image.NewRGBA(image.Rect(0, 0, cols*cellW, rows*cellH))

	canvas := image.NewRGBA(image.Rect(0, 0, a.Width, a.Height))
	for i := range a.Frames {
		a.Composite(canvas, i)
		x := (i % cols) * cellW
		y := (i / cols) * cellH
		cell := image.Rect(x, y, x+cellW, y+cellH)
		xdraw.NearestNeighbor.Scale(sheet, cell, canvas, canvas.Bounds(), xdraw.Src, nil)
	}
	return sheet
}
