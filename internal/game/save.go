package game

import (
	"encoding/json"
	"fmt"
	"time"
)

// SaveData is the plain serialized form of a TurnSequencer. There is no
// version field and no migration: the shape is the contract.
type SaveData struct {
	CurrentTurn    int          `json:"currentTurn"`
	CurrentPhase   string       `json:"currentPhase"`
	PhaseStartTime time.Time    `json:"phaseStartTime"`
	TurnHistory    []TurnRecord `json:"turnHistory"`
}

// SaveData snapshots the sequencer. The pending phase deadline is transient
// and not captured.
func (ts *TurnSequencer) SaveData() SaveData {
	return SaveData{
		CurrentTurn:    ts.currentTurn,
		CurrentPhase:   ts.currentPhase.String(),
		PhaseStartTime: ts.phaseStartTime,
		TurnHistory:    ts.History(),
	}
}

// LoadSaveData restores the sequencer from a snapshot. No events are
// published: a restore is not a transition. The phase name is the one input
// that gets validated, since an unknown name would leave the sequencer
// pointing at a phase that does not exist.
func (ts *TurnSequencer) LoadSaveData(sd SaveData) error {
	p, err := ParsePhase(sd.CurrentPhase)
	if err != nil {
		return fmt.Errorf("load save: %w", err)
	}
	ts.clearDeadline()
	ts.currentTurn = sd.CurrentTurn
	ts.currentPhase = p
	ts.previousPhase = p
	ts.phaseStartTime = sd.PhaseStartTime
	ts.history = make([]TurnRecord, len(sd.TurnHistory))
	copy(ts.history, sd.TurnHistory)
	return nil
}

// MarshalSave encodes a snapshot as JSON.
func MarshalSave(sd SaveData) ([]byte, error) {
	return json.Marshal(sd)
}

// UnmarshalSave decodes a JSON snapshot.
func UnmarshalSave(data []byte) (SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return SaveData{}, fmt.Errorf("unmarshal save: %w", err)
	}
	return sd, nil
}
