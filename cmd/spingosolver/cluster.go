package main

import (
	"fmt"
	"math/rand"

	"github.com/lox/spingosolver/abstraction"
	"github.com/lox/spingosolver/cluster"
	"github.com/lox/spingosolver/cmd/spingosolver/shared"
	"github.com/lox/spingosolver/equity"
	"github.com/lox/spingosolver/poker"
)

// ClusterCmd builds the postflop BucketTable for one round: it enumerates
// canonical hole+board configurations, estimates each one's equity against
// four opponent-range profiles (tight, medium, loose, random) plus the
// board's texture score as a five-dimensional feature vector, clusters
// those vectors with k-means++, and persists the resulting (round,
// rank_pattern, suit_pattern) -> bucket mapping.
type ClusterCmd struct {
	Round   string `kong:"default='flop',enum='flop,turn,river',help='Round to build buckets for'"`
	Buckets int    `kong:"default='200',help='Number of k-means buckets'"`
	Trials  int    `kong:"default='300',help='Equity-estimation trials per opponent range per hand'"`
	Runs    int    `kong:"default='5',help='Independent k-means restarts'"`
	Seed    int64  `kong:"help='RNG seed (0 for random)'"`
	Output  string `kong:"required,help='Output path for the persisted bucket table (CSV)'"`
}

var clusterRanges = []equity.Range{
	equity.TightRange{},
	equity.MediumRange{},
	equity.LooseRange{},
	equity.RandomRange{},
}

func (c *ClusterCmd) Run(cli *CLI) error {
	logger := shared.NewLogger(cli.LogLevel)

	boardCards, err := boardCardsForRound(c.Round)
	if err != nil {
		return err
	}
	if boardCards < 3 {
		return fmt.Errorf("cluster: round %q has no postflop buckets", c.Round)
	}

	seed := c.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	enumerator := poker.NewEnumerator(2, boardCards, nil)

	type sample struct {
		rankPattern, suitPattern string
		features                 []float64
	}

	keysSeen := make(map[string]struct{})
	var samples []sample

	enumerator.Enumerate(func(canonical string) {
		hole, board, err := parseCanonical(canonical)
		if err != nil {
			return
		}
		rankPattern, suitPattern := abstraction.PostflopKey(poker.NewHand(hole...) | poker.NewHand(board...))
		key := rankPattern + "|" + suitPattern
		if _, ok := keysSeen[key]; ok {
			return
		}
		keysSeen[key] = struct{}{}

		features := make([]float64, len(clusterRanges)+1)
		for i, r := range clusterRanges {
			res := equity.Estimate(hole, board, r, c.Trials, rng)
			features[i] = res.Equity()
		}
		features[len(clusterRanges)] = abstraction.BoardTexture(poker.NewHand(board...))
		samples = append(samples, sample{rankPattern: rankPattern, suitPattern: suitPattern, features: features})
	})

	if len(samples) == 0 {
		return fmt.Errorf("cluster: no canonical configurations enumerated for round %q", c.Round)
	}

	logger.Info().Int("distinct_textures", len(samples)).Msg("enumerated postflop textures")

	vectors := make([][]float64, len(samples))
	for i, s := range samples {
		vectors[i] = s.features
	}

	k := c.Buckets
	if k > len(vectors) {
		k = len(vectors)
	}
	cfg := cluster.DefaultConfig()
	if c.Runs > 0 {
		cfg.Runs = c.Runs
	}
	result := cluster.KMeans(vectors, k, cfg, rng)

	table := abstraction.NewBucketTable()
	for i, s := range samples {
		table.Set(c.Round, s.rankPattern, s.suitPattern, result.Assignments[i])
	}
	if err := table.Build(); err != nil {
		return fmt.Errorf("cluster: build bucket index: %w", err)
	}
	if err := table.Save(c.Output); err != nil {
		return fmt.Errorf("cluster: save bucket table: %w", err)
	}

	logger.Info().
		Int("buckets", k).
		Float64("mean_intra_cluster_distance", result.MeanDist).
		Str("output", c.Output).
		Msg("clustering complete")
	return nil
}
