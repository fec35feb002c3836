package main

import (
	"fmt"

	"github.com/lox/spingosolver/abstraction"
	"github.com/lox/spingosolver/cmd/spingosolver/shared"
	"github.com/lox/spingosolver/solver"
)

// EvalCmd self-plays a trained strategy against itself for Hands deals,
// reporting each seat's average win rate in big blinds per hand — the
// standard sanity check that a blueprint is at least internally consistent
// (zero-sum, no seat systematically losing to its own strategy) before it
// is shipped.
type EvalCmd struct {
	Strategy    string `kong:"required,help='Strategy CSV to evaluate, as written by the train command'"`
	BucketTable string `kong:"help='Postflop bucket table CSV used while training Strategy, if any'"`
	Hands       int    `kong:"default='100000',help='Number of hands to self-play'"`
	Seed        int64  `kong:"help='RNG seed (0 for random)'"`
}

func (c *EvalCmd) Run(cli *CLI) error {
	logger := shared.NewLogger(cli.LogLevel)

	records, err := solver.ReadStrategyCSV(c.Strategy)
	if err != nil {
		return fmt.Errorf("eval: read strategy: %w", err)
	}

	var buckets *abstraction.BucketTable
	if c.BucketTable != "" {
		buckets, err = abstraction.LoadBucketTable(c.BucketTable)
		if err != nil {
			return fmt.Errorf("eval: load bucket table: %w", err)
		}
	}

	logger.Info().Int("infosets", len(records)).Int("hands", c.Hands).Msg("starting self-play evaluation")

	result := solver.EvaluateStrategy(records, buckets, c.Hands, c.Seed)

	for seat := 0; seat < 3; seat++ {
		stats := result.SeatStats[seat]
		lo, hi := stats.ConfidenceInterval95()
		logger.Info().
			Int("seat", seat).
			Int64("net_chips_units", result.NetChips[seat]).
			Float64("bb_per_hand", result.BBPerHand[seat]).
			Float64("stddev_bb", stats.StdDev()).
			Float64("ci95_low", lo).
			Float64("ci95_high", hi).
			Int64("infoset_hits", result.InfoSetHit[seat]).
			Int64("infoset_misses", result.InfoSetNew[seat]).
			Msg("seat summary")
	}
	return nil
}
