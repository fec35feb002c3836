// Command spingosolver runs every stage of the Spin & Go MCCFR pipeline:
// canonical hand enumeration, equity sampling, bucket clustering, MCCFR
// training, blueprint self-play evaluation, and strategy aggregation.
package main

import (
	"github.com/alecthomas/kong"
)

// CLI is the top-level command tree, shared by every subcommand's Run
// method so each can build its own logger at the requested verbosity.
type CLI struct {
	LogLevel string `kong:"default='info',enum='debug,info,warn,error',help='Log verbosity (debug, info, warn, error)'"`

	Enumerate    EnumerateCmd    `kong:"cmd,help='Enumerate canonical hole+board configurations for a round'"`
	SampleEquity SampleEquityCmd `kong:"cmd,help='Monte Carlo equity estimation over a canonical-configuration list'"`
	Cluster      ClusterCmd      `kong:"cmd,help='Build a postflop bucket table via k-means++ clustering'"`
	Train        TrainCmd        `kong:"cmd,help='Run MCCFR training and export an average-strategy CSV'"`
	Eval         EvalCmd         `kong:"cmd,help='Self-play evaluation of a trained strategy'"`
	Aggregate    AggregateCmd    `kong:"cmd,help='Merge strategy CSVs via visit-weighted averaging'"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("spingosolver"),
		kong.Description("MCCFR solver for three-player Spin & Go no-limit hold'em"),
		kong.UsageOnError(),
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
