package anim

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/gif"
	"log"
	"time"
)

var (
	// ErrNotLoaded is returned or logged when playback operations are
	// attempted before a successful Load.
	ErrNotLoaded = errors.New("anim: not loaded")
	// ErrAlreadyLoaded is returned when Load is called twice on one player.
	ErrAlreadyLoaded = errors.New("anim: already loaded")
	// ErrLoadFailed is returned by Load calls after a prior load failure.
	// Load failure is terminal per instance: construct a new player to retry.
	ErrLoadFailed = errors.New("anim: previous load failed")
)

// zeroDelay is substituted for zero-delay frames; browsers render those at
// 100ms and the original renderer inherited that.
const zeroDelay = 100 * time.Millisecond

// Frame is one decoded raster in the sequence. Immutable once decoded.
type Frame struct {
	Patch    *image.Paletted // pixel patch, bounds = offset within the canvas
	Delay    time.Duration
	Disposal byte // raw disposal byte from the GIF stream
}

// Animation is a decoded frame set plus its canvas dimensions. Owned by one
// player; safe to share read-only with tools like the spritesheet writer.
type Animation struct {
	Frames []Frame
	Width  int
	Height int
}

// DecodeAnimation decodes GIF bytes into an Animation.
func DecodeAnimation(data []byte) (*Animation, error) {
	g, err := gif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode gif: %w", err)
	}
	if len(g.Image) == 0 {
		return nil, errors.New("decode gif: no frames")
	}
	w, h := g.Config.Width, g.Config.Height
	if w == 0 || h == 0 {
		b := g.Image[0].Bounds()
		w, h = b.Max.X, b.Max.Y
	}
	a := &Animation{Width: w, Height: h}
	for i, patch := range g.Image {
		delay := time.Duration(g.Delay[i]) * 10 * time.Millisecond
		if delay <= 0 {
			delay = zeroDelay
		}
		a.Frames = append(a.Frames, Frame{
			Patch:    patch,
			Delay:    delay,
			Disposal: g.Disposal[i],
		})
	}
	return a, nil
}

// Duration is the total one-pass playback time at speed 1.
func (a *Animation) Duration() time.Duration {
	var total time.Duration
	for _, f := range a.Frames {
		total += f.Delay
	}
	return total
}

// Composite draws frame i onto dst. Disposal value 2 ("restore to
// background") clears the canvas before painting; every other value paints
// over whatever the previous frames left, accumulating state. This mirrors
// the raster format's compositing model and must not be "corrected".
func (a *Animation) Composite(dst *image.RGBA, i int) {
	f := a.Frames[i]
	if f.Disposal == gif.DisposalBackground {
		draw.Draw(dst, dst.Bounds(), image.Transparent, image.Point{}, draw.Src)
	}
	draw.Draw(dst, f.Patch.Bounds(), f.Patch, f.Patch.Bounds().Min, draw.Over)
}

// Player owns one decoded animation and advances it through a Surface at
// per-frame variable delay. All methods run on the game loop; nothing here
// is safe for concurrent use and nothing needs to be.
type Player struct {
	fetcher Fetcher
	surface Surface
	now     func() time.Time

	anim   *Animation
	canvas *image.RGBA

	idx     int
	last    time.Time // timestamp of the current frame's swap-in
	playing bool
	loaded  bool
	failed  bool
	loop    bool
	speed   float64
}

// NewPlayer creates an unloaded player. The surface may be nil for headless
// use; pixels then stay on the internal canvas only.
func NewPlayer(fetcher Fetcher, surface Surface) *Player {
	return &Player{
		fetcher: fetcher,
		surface: surface,
		now:     time.Now,
		loop:    true,
		speed:   1.0,
	}
}

// SetClock overrides the wall clock. Tests drive playback deterministically
// through this.
func (p *Player) SetClock(now func() time.Time) { p.now = now }

// AttachSurface binds (or replaces) the output surface and pushes the
// current canvas to it. Callers that only learn the texture size after
// decoding attach here post-Load.
func (p *Player) AttachSurface(s Surface) {
	p.surface = s
	if p.loaded && s != nil {
		s.WritePixels(p.canvas.Pix)
	}
}

// Load fetches and decodes the animation, draws frame 0, and starts
// playback. Failure is terminal for this instance.
func (p *Player) Load(ctx context.Context, url string) error {
	if p.loaded {
		return ErrAlreadyLoaded
	}
	if p.failed {
		return ErrLoadFailed
	}
	data, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		p.failed = true
		return fmt.Errorf("load %s: %w", url, err)
	}
	a, err := DecodeAnimation(data)
	if err != nil {
		p.failed = true
		return fmt.Errorf("load %s: %w", url, err)
	}
	p.anim = a
	p.canvas = image.NewRGBA(image.Rect(0, 0, a.Width, a.Height))
	p.loaded = true
	p.idx = 0
	p.drawFrame(0)
	p.last = p.now()
	p.playing = true
	return nil
}

// Update advances playback. Call once per render tick. Elapsed time is
// consumed against speed-scaled per-frame delays, so a long tick can swap
// several frames. With looping off, playback halts on the final frame.
func (p *Player) Update() {
	if !p.loaded || !p.playing {
		return
	}
	now := p.now()
	for {
		delay := p.scaledDelay(p.anim.Frames[p.idx].Delay)
		if now.Sub(p.last) < delay {
			return
		}
		next := p.idx + 1
		if next >= len(p.anim.Frames) {
			if !p.loop {
				p.playing = false
				return
			}
			next = 0
		}
		p.last = p.last.Add(delay)
		p.idx = next
		p.drawFrame(next)
	}
}

// Play resumes playback. Warns and no-ops when nothing is loaded.
func (p *Player) Play() {
	if !p.loaded {
		log.Printf("anim: Play before load ignored (%v)", ErrNotLoaded)
		return
	}
	if !p.playing {
		p.playing = true
		p.last = p.now()
	}
}

// Pause stops playback on the current frame.
func (p *Player) Pause() { p.playing = false }

// SetSpeed sets the playback speed multiplier. Non-positive values are
// rejected with a warning.
func (p *Player) SetSpeed(mul float64) {
	if mul <= 0 {
		log.Printf("anim: SetSpeed(%v) ignored, multiplier must be > 0", mul)
		return
	}
	p.speed = mul
}

// SetLoop controls whether playback wraps past the last frame.
func (p *Player) SetLoop(loop bool) { p.loop = loop }

// SetFrame jumps playback to frame i immediately. Out-of-range indexes are
// rejected with a warning and leave state unchanged.
func (p *Player) SetFrame(i int) {
	if !p.loaded {
		log.Printf("anim: SetFrame before load ignored (%v)", ErrNotLoaded)
		return
	}
	if i < 0 || i >= len(p.anim.Frames) {
		log.Printf("anim: SetFrame(%d) out of range [0,%d)", i, len(p.anim.Frames))
		return
	}
	p.idx = i
	p.drawFrame(i)
	p.last = p.now()
}

// Dispose releases the decoded frames, the canvas, and the surface when it
// supports deallocation. Idempotent.
func (p *Player) Dispose() {
	if p.anim == nil && !p.loaded {
		p.playing = false
		return
	}
	p.anim = nil
	p.canvas = nil
	p.loaded = false
	p.playing = false
	if d, ok := p.surface.(Deallocator); ok {
		d.Deallocate()
	}
	p.surface = nil
}

// Loaded reports whether a Load has completed successfully.
func (p *Player) Loaded() bool { return p.loaded }

// Playing reports whether playback is advancing.
func (p *Player) Playing() bool { return p.playing }

// Speed returns the current speed multiplier.
func (p *Player) Speed() float64 { return p.speed }

// Loop returns the loop flag.
func (p *Player) Loop() bool { return p.loop }

// FrameIndex returns the currently displayed frame.
func (p *Player) FrameIndex() int { return p.idx }

// FrameCount returns the number of decoded frames (0 before load).
func (p *Player) FrameCount() int {
	if !p.loaded {
		return 0
	}
	return len(p.anim.Frames)
}

// Size returns the canvas dimensions (0,0 before load).
func (p *Player) Size() (w, h int) {
	if !p.loaded {
		return 0, 0
	}
	return p.anim.Width, p.anim.Height
}

// Duration returns the total one-pass playback time at speed 1.
func (p *Player) Duration() time.Duration {
	if !p.loaded {
		return 0
	}
	return p.anim.Duration()
}

// Canvas exposes the current composited pixels. Read-only for callers.
func (p *Player) Canvas() *image.RGBA { return p.canvas }

func (p *Player) scaledDelay(d time.Duration) time.Duration {
	return time.Duration(float64(d) / p.speed)
}

// drawFrame composites frame i and pushes the canvas to the surface — the
// "mark dirty" of the texture contract.
func (p *Player) drawFrame(i int) {
	p.anim.Composite(p.canvas, i)
	if p.surface != nil {
		p.surface.WritePixels(p.canvas.Pix)
	}
}
