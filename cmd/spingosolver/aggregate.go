package main

import (
	"fmt"

	"github.com/lox/spingosolver/cmd/spingosolver/shared"
	"github.com/lox/spingosolver/solver"
)

// AggregateCmd merges N strategy CSVs (e.g. from N independent training
// runs) into one, weighting each info set's strategy by the run's recorded
// StrategyUpdateCount for that info set.
type AggregateCmd struct {
	Output string   `kong:"required,help='Output path for the merged strategy CSV'"`
	Inputs []string `kong:"arg,required,help='Strategy CSV files to merge'"`
}

func (c *AggregateCmd) Run(cli *CLI) error {
	logger := shared.NewLogger(cli.LogLevel)

	if err := solver.AggregateFiles(c.Output, c.Inputs); err != nil {
		return fmt.Errorf("aggregate: %w", err)
	}

	logger.Info().Str("output", c.Output).Int("inputs", len(c.Inputs)).Msg("aggregation complete")
	return nil
}
