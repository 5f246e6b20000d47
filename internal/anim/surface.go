// Package anim decodes GIF animations and plays them back into a texture
// surface at per-frame variable delay. It deliberately has no rendering
// dependency: the boundary is a 2D pixel surface that gets its pixels
// rewritten after each frame swap.
package anim

// Surface is the texture boundary. *ebiten.Image satisfies it, so a player
// can drive a live material texture directly; tests use MemorySurface.
// Pixels are RGBA, premultiplied-alpha-agnostic, full-canvas writes only.
type Surface interface {
	WritePixels(pix []byte)
}

// Deallocator is an optional Surface extension released on Dispose.
// *ebiten.Image implements it.
type Deallocator interface {
	Deallocate()
}

// MemorySurface records pixel writes. Used by tests and the headless
// diagnostics harness.
type MemorySurface struct {
	Pix    []byte
	Writes int
}

// WritePixels stores a copy of pix and counts the write.
func (m *MemorySurface) WritePixels(pix []byte) {
	m.Pix = append(m.Pix[:0], pix...)
	m.Writes++
}
