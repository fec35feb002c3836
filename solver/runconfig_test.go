package solver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRunConfigMissingFileReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadRunConfig(filepath.Join(t.TempDir(), "missing.hcl"), 4)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Training.Workers != 3 {
		t.Fatalf("expected default workers 3, got %d", cfg.Training.Workers)
	}
	if cfg.Abstraction.PostflopBuckets != 200 {
		t.Fatalf("expected default postflop buckets 200, got %d", cfg.Abstraction.PostflopBuckets)
	}
}

func TestLoadRunConfigParsesHCL(t *testing.T) {
	t.Parallel()

	const doc = `
abstraction {
  postflop_buckets = 50
  equity_trials    = 2000
}

training {
  iterations                  = 10000
  workers                     = 2
  seed                        = 7
  checkpoint_path             = "checkpoint.json"
  checkpoint_every            = 500
  checkpoint_interval_seconds = 60
  progress_every              = 100
}
`
	path := filepath.Join(t.TempDir(), "run.hcl")
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadRunConfig(path, 4)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Abstraction.PostflopBuckets != 50 || cfg.Abstraction.EquityTrials != 2000 {
		t.Fatalf("unexpected abstraction settings: %+v", cfg.Abstraction)
	}
	if cfg.Training.Iterations != 10000 || cfg.Training.Workers != 2 || cfg.Training.Seed != 7 {
		t.Fatalf("unexpected training settings: %+v", cfg.Training)
	}

	trainCfg := cfg.TrainingConfig("")
	if trainCfg.CheckpointInterval.Seconds() != 60 {
		t.Fatalf("expected checkpoint interval 60s, got %v", trainCfg.CheckpointInterval)
	}
	if trainCfg.BucketTablePath != "" {
		t.Fatalf("expected empty bucket table path, got %q", trainCfg.BucketTablePath)
	}
}

func TestTrainingConfigPrefersExplicitBucketTablePath(t *testing.T) {
	t.Parallel()

	cfg := DefaultRunConfig(2)
	cfg.Abstraction.BucketTablePath = "from-config.csv"

	trainCfg := cfg.TrainingConfig("from-flag.csv")
	if trainCfg.BucketTablePath != "from-flag.csv" {
		t.Fatalf("expected explicit flag path to win, got %q", trainCfg.BucketTablePath)
	}

	trainCfg = cfg.TrainingConfig("")
	if trainCfg.BucketTablePath != "from-config.csv" {
		t.Fatalf("expected config path fallback, got %q", trainCfg.BucketTablePath)
	}
}
