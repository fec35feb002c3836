// Package equity estimates a hand's win probability via Monte Carlo
// simulation against a sampled opponent range, dispatching to a sequential
// or errgroup-parallel code path depending on trial count.
package equity

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/lox/spingosolver/poker"
)

// parallelThreshold is the trial count at or above which Estimate dispatches to
// the errgroup worker pool instead of running sequentially.
const parallelThreshold = 500

// Result summarizes a completed Monte Carlo equity run.
type Result struct {
	Wins             uint32
	Ties             uint32
	TotalSimulations uint32
}

// WinRate returns the fraction of simulations hero outright won.
func (r Result) WinRate() float64 {
	if r.TotalSimulations == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.TotalSimulations)
}

// TieRate returns the fraction of simulations that tied.
func (r Result) TieRate() float64 {
	if r.TotalSimulations == 0 {
		return 0
	}
	return float64(r.Ties) / float64(r.TotalSimulations)
}

// Equity returns overall equity, with ties counted as half a win.
func (r Result) Equity() float64 {
	if r.TotalSimulations == 0 {
		return 0
	}
	return (float64(r.Wins) + float64(r.Ties)*0.5) / float64(r.TotalSimulations)
}

// ConfidenceInterval returns the 95% binomial-proportion confidence
// interval (±1.96·SE) around Equity.
func (r Result) ConfidenceInterval() (lower, upper float64) {
	eq := r.Equity()
	n := float64(r.TotalSimulations)
	if n == 0 {
		return 0, 0
	}
	se := math.Sqrt((eq * (1 - eq)) / n)
	margin := 1.96 * se
	return math.Max(0, eq-margin), math.Min(1, eq+margin)
}

type workerResult struct {
	wins, ties, valid int
}

var boardCandidatesPool = sync.Pool{
	New: func() any { return make([]poker.Card, 0, 52) },
}

// Estimate runs a Monte Carlo equity simulation for hero's hole cards
// against a single opponent sampled from r, given a (possibly partial)
// board. It dispatches to the parallel path once trials reaches
// parallelThreshold.
func Estimate(hole []poker.Card, board []poker.Card, r Range, trials int, rng *rand.Rand) Result {
	if len(hole) != 2 || len(board) > 5 {
		return Result{}
	}
	if trials >= parallelThreshold {
		return estimateParallel(hole, board, r, trials, rng)
	}
	return estimateSequential(hole, board, r, trials, rng)
}

func availableCards(hole, board []poker.Card) []poker.Card {
	var used poker.Hand
	for _, c := range hole {
		used.AddCard(c)
	}
	for _, c := range board {
		used.AddCard(c)
	}

	cards := make([]poker.Card, 0, 52-used.CountCards())
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := poker.NewCard(rank, suit)
			if !used.HasCard(c) {
				cards = append(cards, c)
			}
		}
	}
	return cards
}

func estimateSequential(hole, board []poker.Card, r Range, trials int, rng *rand.Rand) Result {
	available := availableCards(hole, board)
	var base poker.Hand
	for _, c := range hole {
		base.AddCard(c)
	}
	for _, c := range board {
		base.AddCard(c)
	}

	wr := runWorker(hole, board, base, available, r, trials, rng)
	return Result{Wins: uint32(wr.wins), Ties: uint32(wr.ties), TotalSimulations: uint32(wr.valid)}
}

func estimateParallel(hole, board []poker.Card, r Range, trials int, rng *rand.Rand) Result {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	if workers < 1 {
		workers = 1
	}

	perWorker := trials / workers
	remainder := trials % workers

	available := availableCards(hole, board)
	var base poker.Hand
	for _, c := range hole {
		base.AddCard(c)
	}
	for _, c := range board {
		base.AddCard(c)
	}

	g, ctx := errgroup.WithContext(context.Background())
	results := make(chan workerResult, workers)

	for w := 0; w < workers; w++ {
		n := perWorker
		if w < remainder {
			n++
		}
		seed := rng.Int63()

		g.Go(func() error {
			workerRng := rand.New(rand.NewSource(seed))
			res := runWorker(hole, board, base, available, r, n, workerRng)
			select {
			case results <- res:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	var totalWins, totalTies, totalValid int
	for res := range results {
		totalWins += res.wins
		totalTies += res.ties
		totalValid += res.valid
	}

	if err := g.Wait(); err != nil {
		return estimateSequential(hole, board, r, trials, rng)
	}

	return Result{Wins: uint32(totalWins), Ties: uint32(totalTies), TotalSimulations: uint32(totalValid)}
}

func runWorker(hole, board []poker.Card, base poker.Hand, available []poker.Card, r Range, trials int, rng *rand.Rand) workerResult {
	var wr workerResult

	for i := 0; i < trials; i++ {
		oppHole, ok := r.SampleHand(available, rng)
		if !ok {
			continue
		}

		used := base
		for _, c := range oppHole {
			used.AddCard(c)
		}

		candidates := boardCandidatesPool.Get().([]poker.Card)
		candidates = candidates[:0]
		for _, c := range available {
			if !used.HasCard(c) {
				candidates = append(candidates, c)
			}
		}

		finalBoard := poker.NewHand(board...)
		needed := 5 - len(board)
		filled := 0
		for filled < needed && filled < len(candidates) {
			idx := rng.Intn(len(candidates) - filled)
			finalBoard.AddCard(candidates[idx])
			candidates[idx], candidates[len(candidates)-1-filled] = candidates[len(candidates)-1-filled], candidates[idx]
			filled++
		}
		boardCandidatesPool.Put(candidates)

		if finalBoard.CountCards() != 5 {
			continue
		}

		heroHand := poker.NewHand(hole...) | finalBoard
		oppHand := poker.NewHand(oppHole...) | finalBoard

		cmp := poker.CompareHands(poker.Evaluate7Cards(heroHand), poker.Evaluate7Cards(oppHand))
		switch {
		case cmp > 0:
			wr.wins++
		case cmp == 0:
			wr.ties++
		}
		wr.valid++
	}

	return wr
}
