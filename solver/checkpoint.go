package solver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/lox/spingosolver/game"
	"github.com/lox/spingosolver/internal/fileutil"
)

const checkpointFileVersion = 2

type checkpointSnapshot struct {
	Version   int                       `json:"version"`
	Iteration int64                     `json:"iteration"`
	RNGSeed   int64                     `json:"rng_seed"`
	Training  TrainingConfig            `json:"training"`
	Regrets   map[string]regretSnapshot `json:"regrets"`
	Stats     TraversalStats            `json:"stats"`
}

type regretSnapshot struct {
	Key         InfoSetKey    `json:"key"`
	Actions     []game.Action `json:"actions"`
	RegretSum   []float64     `json:"regret_sum"`
	StrategySum []float64     `json:"strategy_sum"`
	UpdateCount int           `json:"update_count"`
}

func (e *RegretEntry) snapshot() regretSnapshot {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return regretSnapshot{
		Key:         e.Key,
		Actions:     append([]game.Action(nil), e.Actions...),
		RegretSum:   append([]float64(nil), e.RegretSum...),
		StrategySum: append([]float64(nil), e.StrategySum...),
		UpdateCount: e.UpdateCount,
	}
}

func newRegretEntryFromSnapshot(snap regretSnapshot) *RegretEntry {
	return &RegretEntry{
		Key:         snap.Key,
		Actions:     append([]game.Action(nil), snap.Actions...),
		RegretSum:   append([]float64(nil), snap.RegretSum...),
		StrategySum: append([]float64(nil), snap.StrategySum...),
		UpdateCount: snap.UpdateCount,
	}
}

// SaveCheckpoint writes an atomic snapshot of the trainer's progress to
// path: the completed iteration count, the RNG seed, and every information
// set accumulated so far.
func (t *Trainer) SaveCheckpoint(path string) error {
	snap := checkpointSnapshot{
		Version:   checkpointFileVersion,
		Iteration: t.iteration.Load(),
		RNGSeed:   t.rngSeed,
		Training:  t.cfg,
		Regrets:   make(map[string]regretSnapshot),
		Stats:     t.Stats(),
	}
	for key, entry := range t.regrets.Entries() {
		snap.Regrets[key] = entry.snapshot()
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	return fileutil.WriteFileAtomic(path, data, 0o644)
}

// LoadTrainerFromCheckpoint restores a trainer from a previously saved
// checkpoint, ready to resume Run from where it left off.
func LoadTrainerFromCheckpoint(path string) (*Trainer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var snap checkpointSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode checkpoint: %w", err)
	}
	if snap.Version != checkpointFileVersion {
		return nil, errors.New("solver: unsupported checkpoint version")
	}
	if err := snap.Training.Validate(); err != nil {
		return nil, fmt.Errorf("checkpoint training config invalid: %w", err)
	}

	trainer, err := NewTrainer(snap.Training)
	if err != nil {
		return nil, err
	}
	trainer.iteration.Store(snap.Iteration)
	trainer.rngSeed = snap.RNGSeed
	trainer.rng = rand.New(rand.NewSource(snap.RNGSeed))
	trainer.setStats(snap.Stats)
	trainer.regrets = restoreRegretTable(snap.Regrets)
	return trainer, nil
}

func restoreRegretTable(snaps map[string]regretSnapshot) *RegretTable {
	table := NewRegretTable()
	for key, snap := range snaps {
		table.Put(key, newRegretEntryFromSnapshot(snap))
	}
	return table
}
