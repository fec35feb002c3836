package solver

import (
	"errors"
	"time"
)

// TrainingConfig controls one MCCFR training run. The abstraction itself
// (3 seats, 15 BB stacks, the fixed bet-size ladder, the nine preflop fold
// tables) is not configurable — it lives in the game package as the fixed
// Spin & Go betting abstraction the spec mandates. What is configurable is
// the run: how long to train, how many workers traverse concurrently, and
// how often to checkpoint.
type TrainingConfig struct {
	// Iterations is the total number of MCCFR iterations to run (one
	// iteration = one traversal per seat, each on a fresh deal).
	Iterations int

	// Workers is the number of goroutines traversing iterations
	// concurrently against the shared RegretTable. Per spec.md §5,
	// parallelism is across iterations, not within one.
	Workers int

	// Seed seeds the worker RNGs deterministically. Zero draws from the
	// wall clock.
	Seed int64

	// CheckpointPath, if non-empty, enables periodic checkpointing.
	CheckpointPath string

	// CheckpointEvery checkpoints every N completed iterations. Zero
	// disables iteration-based checkpointing.
	CheckpointEvery int

	// CheckpointInterval checkpoints every time this much wall-clock time
	// elapses, using the trainer's Clock (a quartz.Clock in production, a
	// quartz.Mock in tests). Zero disables time-based checkpointing.
	CheckpointInterval time.Duration

	// ProgressEvery reports Progress every N completed iterations. Zero
	// disables progress reporting.
	ProgressEvery int

	// BucketTablePath, if non-empty, is loaded at trainer construction and
	// used to resolve postflop buckets. Empty means every postflop texture
	// is treated as a fresh, unbucketed information set (MissingBucket
	// handling, per spec.md §4.5/§7).
	BucketTablePath string
}

// Validate ensures the training parameters are usable.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("solver: iterations must be > 0")
	}
	if c.Workers < 0 {
		return errors.New("solver: workers cannot be negative")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("solver: checkpoint-every cannot be negative")
	}
	if c.CheckpointInterval < 0 {
		return errors.New("solver: checkpoint-interval cannot be negative")
	}
	if c.ProgressEvery < 0 {
		return errors.New("solver: progress-every cannot be negative")
	}
	return nil
}

// DefaultTrainingConfig returns sane defaults for local experimentation: one
// worker per available core minus one (per spec.md §5), a million
// iterations, and no checkpointing.
func DefaultTrainingConfig(cores int) TrainingConfig {
	workers := cores - 1
	if workers < 1 {
		workers = 1
	}
	return TrainingConfig{
		Iterations:    1_000_000,
		Workers:       workers,
		ProgressEvery: 1000,
	}
}
