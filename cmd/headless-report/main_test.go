package main

import "testing"

func TestRunScenario_DeterministicPerSeed(t *testing.T) {
	a := runScenarioHazardCrossing(1, 42, 600, false)
	b := runScenarioHazardCrossing(2, 42, 600, false)

	if a.turnsCompleted != b.turnsCompleted || a.hazardHits != b.hazardHits ||
		a.redAlive != b.redAlive || a.blueAlive != b.blueAlive {
		t.Fatalf("same seed should reproduce the run exactly:\n%+v\nvs\n%+v", a, b)
	}
}

func TestRunScenario_MakesProgress(t *testing.T) {
	s := runScenarioHazardCrossing(1, 7, 600, false)
	if s.turnsCompleted == 0 {
		t.Fatal("no turns completed in 600 ticks")
	}
	if s.phaseChanges == 0 {
		t.Fatal("no phase changes recorded")
	}
	if s.hazardRolls == 0 {
		t.Fatal("units crossing the hazard belt should get rolled against")
	}
}

func TestSyntheticGIF_RoundTrips(t *testing.T) {
	data := syntheticGIF(4, 10)
	if len(data) == 0 {
		t.Fatal("empty GIF")
	}
	// The playback checks in main decode this; here it only needs to be
	// non-trivially sized for 4 frames.
	if len(data) < 100 {
		t.Fatalf("suspiciously small 4-frame GIF: %d bytes", len(data))
	}
}
