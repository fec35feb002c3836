package main

import (
	"fmt"
	"runtime"
	"time"

	"github.com/lox/spingosolver/cmd/spingosolver/shared"
	"github.com/lox/spingosolver/solver"
)

// TrainCmd runs external-sampling MCCFR against the fixed three-seat Spin &
// Go abstraction and exports the resulting average strategy. Flags override
// whatever Config supplies, letting a committed HCL run-configuration carry
// the reproducible defaults for a blueprint run while leaving room for
// one-off experiments from the command line.
type TrainCmd struct {
	Config             string `kong:"help='HCL run-configuration file (optional; flags below override its values)'"`
	Iterations         int    `kong:"help='Total MCCFR iterations (overrides config)'"`
	Workers            int    `kong:"help='Concurrent traversal workers (overrides config)'"`
	Seed               int64  `kong:"help='RNG seed (overrides config; 0 draws from the wall clock)'"`
	BucketTable        string `kong:"help='Postflop bucket table CSV (overrides config); omit to train on raw textures'"`
	Output             string `kong:"required,help='Strategy CSV output path'"`
	CheckpointPath     string `kong:"help='Checkpoint file path (overrides config)'"`
	CheckpointEvery    int    `kong:"help='Checkpoint every N completed iterations (overrides config)'"`
	CheckpointInterval int    `kong:"help='Checkpoint every N seconds of wall-clock time (overrides config)'"`
	ProgressEvery      int    `kong:"help='Log progress every N completed iterations (overrides config)'"`
	ResumeFrom         string `kong:"help='Resume training from a previously saved checkpoint file, ignoring every other training flag'"`
}

func (c *TrainCmd) Run(cli *CLI) error {
	logger := shared.NewLogger(cli.LogLevel)
	ctx := shared.SetupSignalHandler(logger)

	var trainer *solver.Trainer
	var err error

	if c.ResumeFrom != "" {
		trainer, err = solver.LoadTrainerFromCheckpoint(c.ResumeFrom)
		if err != nil {
			return fmt.Errorf("train: resume from checkpoint: %w", err)
		}
		logger.Info().
			Str("checkpoint", c.ResumeFrom).
			Int64("resume_iteration", trainer.Iteration()).
			Msg("resumed training run")
	} else {
		runCfg, loadErr := solver.LoadRunConfig(c.Config, runtime.NumCPU())
		if loadErr != nil {
			return fmt.Errorf("train: load run config: %w", loadErr)
		}

		trainCfg := runCfg.TrainingConfig(c.BucketTable)
		if c.Iterations > 0 {
			trainCfg.Iterations = c.Iterations
		}
		if c.Workers > 0 {
			trainCfg.Workers = c.Workers
		}
		if c.Seed != 0 {
			trainCfg.Seed = c.Seed
		}
		if c.CheckpointPath != "" {
			trainCfg.CheckpointPath = c.CheckpointPath
		}
		if c.CheckpointEvery > 0 {
			trainCfg.CheckpointEvery = c.CheckpointEvery
		}
		if c.CheckpointInterval > 0 {
			trainCfg.CheckpointInterval = time.Duration(c.CheckpointInterval) * time.Second
		}
		if c.ProgressEvery > 0 {
			trainCfg.ProgressEvery = c.ProgressEvery
		}

		trainer, err = solver.NewTrainer(trainCfg)
		if err != nil {
			return fmt.Errorf("train: new trainer: %w", err)
		}
		logger.Info().
			Int("iterations", trainCfg.Iterations).
			Int("workers", trainCfg.Workers).
			Str("bucket_table", trainCfg.BucketTablePath).
			Msg("starting training run")
	}

	start := time.Now()
	progress := func(p solver.Progress) {
		logger.Info().
			Int("iteration", p.Iteration).
			Int("infosets", p.RegretTableSize).
			Dur("iter_time", p.Stats.IterationTime).
			Msg("progress")
	}

	runErr := trainer.Run(ctx, progress)
	if runErr != nil && ctx.Err() == nil {
		return fmt.Errorf("train: run: %w", runErr)
	}

	logger.Info().
		Dur("duration", time.Since(start)).
		Int("infosets", trainer.RegretTableSize()).
		Int64("iteration", trainer.Iteration()).
		Msg("training run complete")

	if err := trainer.ExportStrategy(c.Output); err != nil {
		return fmt.Errorf("train: export strategy: %w", err)
	}
	logger.Info().Str("output", c.Output).Msg("strategy exported")
	return nil
}
