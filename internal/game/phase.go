package game

import "fmt"

// Phase is a named sub-step within a turn.
type Phase int

const (
	PhaseStart Phase = iota
	PhasePlayerInput
	PhaseHazardRolls
	PhaseTurnOrder
	PhaseExecution
	PhaseEnd

	phaseCount
)

var phaseNames = [phaseCount]string{
	PhaseStart:       "Start",
	PhasePlayerInput: "PlayerInput",
	PhaseHazardRolls: "HazardRolls",
	PhaseTurnOrder:   "TurnOrder",
	PhaseExecution:   "Execution",
	PhaseEnd:         "End",
}

func (p Phase) String() string {
	if p < 0 || p >= phaseCount {
		return "Unknown"
	}
	return phaseNames[p]
}

// ParsePhase maps a phase name back to its value. Used when restoring saves.
func ParsePhase(name string) (Phase, error) {
	for p, n := range phaseNames {
		if n == name {
			return Phase(p), nil
		}
	}
	return 0, fmt.Errorf("unknown phase name %q", name)
}

// statePhases maps the host's coarse game-state names to phases.
// Names not present here are silently ignored: the sequencer is a derived
// projection, not a validator, so nothing prevents the host skipping phases.
var statePhases = map[string]Phase{
	"turnStart":   PhaseStart,
	"playerInput": PhasePlayerInput,
	"hazardRolls": PhaseHazardRolls,
	"initiative":  PhaseTurnOrder,
	"executing":   PhaseExecution,
	"turnEnd":     PhaseEnd,
}
