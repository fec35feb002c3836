package solver

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// RunConfig is the declarative, file-based counterpart to the CLI flags:
// a single HCL document describing the abstraction and the training run,
// so a blueprint run is reproducible without a long flag line. Mirrors the
// block-tag style of the teacher's server configuration file.
type RunConfig struct {
	Abstraction AbstractionSettings `hcl:"abstraction,block"`
	Training    TrainingSettings    `hcl:"training,block"`
}

// AbstractionSettings controls the clustering pipeline that builds the
// postflop BucketTable consumed by Trainer.
type AbstractionSettings struct {
	PostflopBuckets int    `hcl:"postflop_buckets,optional"`
	EquityTrials    int    `hcl:"equity_trials,optional"`
	BucketTablePath string `hcl:"bucket_table_path,optional"`
}

// TrainingSettings mirrors TrainingConfig, minus the fields (Iterations
// aside) that make more sense as CLI flags than as committed config.
type TrainingSettings struct {
	Iterations            int    `hcl:"iterations,optional"`
	Workers               int    `hcl:"workers,optional"`
	Seed                  int64  `hcl:"seed,optional"`
	CheckpointPath        string `hcl:"checkpoint_path,optional"`
	CheckpointEvery       int    `hcl:"checkpoint_every,optional"`
	CheckpointIntervalSec int    `hcl:"checkpoint_interval_seconds,optional"`
	ProgressEvery         int    `hcl:"progress_every,optional"`
}

// DefaultRunConfig mirrors DefaultTrainingConfig's defaults, plus
// reasonable abstraction defaults for a from-scratch clustering pass.
func DefaultRunConfig(cores int) RunConfig {
	def := DefaultTrainingConfig(cores)
	return RunConfig{
		Abstraction: AbstractionSettings{
			PostflopBuckets: 200,
			EquityTrials:    1000,
		},
		Training: TrainingSettings{
			Iterations:    def.Iterations,
			Workers:       def.Workers,
			ProgressEvery: def.ProgressEvery,
		},
	}
}

// LoadRunConfig reads an HCL run-configuration file, falling back to
// DefaultRunConfig when path does not exist.
func LoadRunConfig(path string, cores int) (RunConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultRunConfig(cores), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return RunConfig{}, fmt.Errorf("solver: parse run config: %s", diags.Error())
	}

	cfg := DefaultRunConfig(cores)
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return RunConfig{}, fmt.Errorf("solver: decode run config: %s", diags.Error())
	}
	return cfg, nil
}

// TrainingConfig converts the HCL training block into a TrainingConfig,
// applying bucketTablePath (from the CLI flag or the abstraction block) and
// checkpointPath overrides when non-empty.
func (c RunConfig) TrainingConfig(bucketTablePath string) TrainingConfig {
	path := bucketTablePath
	if path == "" {
		path = c.Abstraction.BucketTablePath
	}
	return TrainingConfig{
		Iterations:         c.Training.Iterations,
		Workers:            c.Training.Workers,
		Seed:               c.Training.Seed,
		CheckpointPath:     c.Training.CheckpointPath,
		CheckpointEvery:    c.Training.CheckpointEvery,
		CheckpointInterval: time.Duration(c.Training.CheckpointIntervalSec) * time.Second,
		ProgressEvery:      c.Training.ProgressEvery,
		BucketTablePath:    path,
	}
}
