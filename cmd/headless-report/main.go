package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"time"

	"github.com/hexforge/skirmish/internal/anim"
	"github.com/hexforge/skirmish/internal/game"
)

type runStats struct {
	runIndex int
	seed     int64

	turnsCompleted int
	phaseChanges   int
	timerExpiries  int
	hazardRolls    int
	hazardHits     int
	redAlive       int
	blueAlive      int
}

func main() {
	var runs int
	var ticks int
	var seedBase int64
	var seedStep int64
	var scenario string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of headless simulation runs")
	flag.IntVar(&ticks, "ticks", 2400, "ticks per run")
	flag.Int64Var(&seedBase, "seed-base", 42, "base RNG seed for run 1")
	flag.Int64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.StringVar(&scenario, "scenario", "hazard-crossing", "scenario name")
	flag.BoolVar(&verbose, "v", false, "dump the full sim log after each run")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		return
	}
	if ticks <= 0 {
		fmt.Println("error: -ticks must be > 0")
		return
	}
	if scenario != "hazard-crossing" {
		fmt.Printf("error: unsupported scenario %q (supported: hazard-crossing)\n", scenario)
		return
	}

	fmt.Printf("=== Headless Turn-Cycle Report ===\n")
	fmt.Printf("scenario=%s runs=%d ticks=%d seed_base=%d seed_step=%d\n\n", scenario, runs, ticks, seedBase, seedStep)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + int64(i)*seedStep
		stats := runScenarioHazardCrossing(i+1, seed, ticks, verbose)
		all = append(all, stats)
		printRun(stats)
	}
	printAggregate(all)

	fmt.Printf("\n=== Animated Texture Playback Checks ===\n")
	runPlaybackChecks()
}

// runScenarioHazardCrossing marches both teams back and forth across a
// hazard belt in the middle of the board, two cells per turn so units
// regularly end their movement standing on hazard cells. Every PlayerInput
// phase issues fresh orders and ends input immediately.
func runScenarioHazardCrossing(runIndex int, seed int64, ticks int, verbose bool) runStats {
	ts := game.NewTestSim(
		game.WithGridSize(12, 8),
		game.WithSeed(seed),
		game.WithVerbose(verbose),
		game.WithRedUnit(0, 0, 1, 7),
		game.WithRedUnit(1, 0, 3, 5),
		game.WithRedUnit(2, 0, 5, 3),
		game.WithBlueUnit(0, 11, 2, 6),
		game.WithBlueUnit(1, 11, 4, 4),
		game.WithBlueUnit(2, 11, 6, 8),
		game.WithHazard(5, 3),
		game.WithHazard(6, 3),
		game.WithHazard(5, 4),
		game.WithHazard(6, 4),
	)

	dir := map[string]int{}
	for _, u := range ts.Board.Units {
		dir[u.Label] = 1
		if u.Team == game.TeamBlue {
			dir[u.Label] = -1
		}
	}

	for i := 0; i < ticks; i++ {
		if ts.Seq.CurrentPhase() == game.PhasePlayerInput {
			for _, u := range ts.Board.Units {
				if !u.Alive() {
					continue
				}
				next := clamp(u.Col+2*dir[u.Label], 0, ts.Board.Cols-1)
				if next == u.Col { // board edge: turn around
					dir[u.Label] = -dir[u.Label]
					next = clamp(u.Col+2*dir[u.Label], 0, ts.Board.Cols-1)
				}
				u.SetOrder(next, u.Row)
			}
			ts.EndInput()
		}
		ts.Step(1)
	}

	if verbose {
		fmt.Print(ts.SimLog.Dump())
	}

	stats := runStats{runIndex: runIndex, seed: seed}
	stats.turnsCompleted = len(ts.Seq.History())
	stats.phaseChanges = ts.SimLog.CountCategory("phase", "change")
	stats.timerExpiries = ts.SimLog.CountCategory("timer", "expired")
	stats.hazardRolls = ts.SimLog.CountCategory("hazard", "roll")
	for _, e := range ts.SimLog.Filter("hazard", "roll") {
		if e.NumVal < 0.5 {
			stats.hazardHits++
		}
	}
	stats.redAlive, stats.blueAlive = ts.Board.AliveCount()
	return stats
}

func printRun(s runStats) {
	fmt.Printf("--- run %d (seed %d) ---\n", s.runIndex, s.seed)
	fmt.Printf("turns_completed=%d phase_changes=%d timer_expiries=%d\n",
		s.turnsCompleted, s.phaseChanges, s.timerExpiries)
	fmt.Printf("hazard_rolls=%d hazard_hits=%d red_alive=%d blue_alive=%d\n\n",
		s.hazardRolls, s.hazardHits, s.redAlive, s.blueAlive)
}

func printAggregate(all []runStats) {
	var turns, changes, rolls, hits int
	for _, s := range all {
		turns += s.turnsCompleted
		changes += s.phaseChanges
		rolls += s.hazardRolls
		hits += s.hazardHits
	}
	n := float64(len(all))
	fmt.Printf("=== aggregate over %d runs ===\n", len(all))
	fmt.Printf("avg_turns=%.1f avg_phase_changes=%.1f avg_hazard_rolls=%.1f avg_hazard_hits=%.1f\n",
		float64(turns)/n, float64(changes)/n, float64(rolls)/n, float64(hits)/n)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// memFetcher serves one in-memory asset regardless of URL.
type memFetcher struct{ data []byte }

func (m memFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	return m.data, nil
}

// runPlaybackChecks probes the animated-texture player against a synthetic
// four-frame GIF and prints PASS/FAIL per check.
func runPlaybackChecks() {
	data := syntheticGIF(4, 10) // 4 frames, 100ms each
	surface := &anim.MemorySurface{}
	p := anim.NewPlayer(memFetcher{data: data}, surface)

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	p.SetClock(func() time.Time { return clock })

	check := func(name string, ok bool) {
		status := "PASS"
		if !ok {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s\n", status, name)
	}

	err := p.Load(context.Background(), "mem://hazard")
	check("load 4-frame animation", err == nil && p.Loaded() && p.FrameCount() == 4)
	check("frame 0 drawn on load", p.FrameIndex() == 0 && surface.Writes == 1)

	clock = clock.Add(250 * time.Millisecond)
	p.Update()
	check("250ms elapsed lands on frame 2", p.FrameIndex() == 2)

	p.SetLoop(false)
	clock = clock.Add(10 * time.Second)
	p.Update()
	check("loop off halts on last frame", p.FrameIndex() == 3 && !p.Playing())

	p.SetFrame(99)
	check("out-of-range SetFrame ignored", p.FrameIndex() == 3)

	p.Dispose()
	p.Dispose()
	check("dispose is idempotent", !p.Loaded())
}

// syntheticGIF builds an n-frame GIF, each frame a different solid colour
// with the given delay in 100ths of a second.
func syntheticGIF(n, delay int) []byte {
	g := &gif.GIF{}
	for i := 0; i < n; i++ {
		pal := color.Palette{color.RGBA{A: 0}, color.RGBA{R: uint8(40 * i), G: 80, B: 120, A: 255}}
		frame := image.NewPaletted(image.Rect(0, 0, 8, 8), pal)
		for p := range frame.Pix {
			frame.Pix[p] = 1
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, gif.DisposalNone)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
