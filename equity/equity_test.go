package equity

import (
	"math/rand"
	"testing"

	"github.com/lox/spingosolver/poker"
)

func mustCard(t *testing.T, code string) poker.Card {
	t.Helper()
	c, err := poker.ParseCard(code)
	if err != nil {
		t.Fatalf("ParseCard(%q): %v", code, err)
	}
	return c
}

// TestEstimateDominantHandWinsMost checks that a massively favored hand
// (pocket aces on an ace-high board) wins the overwhelming majority of
// simulated trials against a random range.
func TestEstimateDominantHandWinsMost(t *testing.T) {
	t.Parallel()
	hole := []poker.Card{mustCard(t, "Ac"), mustCard(t, "Ad")}
	board := []poker.Card{mustCard(t, "Ah"), mustCard(t, "2c"), mustCard(t, "7d")}

	rng := rand.New(rand.NewSource(1))
	res := Estimate(hole, board, RandomRange{}, 2000, rng)

	if res.TotalSimulations == 0 {
		t.Fatal("expected simulations to run")
	}
	if eq := res.Equity(); eq < 0.9 {
		t.Errorf("expected equity above 0.9 for trip aces vs random, got %f", eq)
	}
}

// TestEstimateRejectsMalformedInput checks the documented early-return for
// invalid hole or board sizes.
func TestEstimateRejectsMalformedInput(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))

	oneCard := []poker.Card{mustCard(t, "Ac")}
	res := Estimate(oneCard, nil, RandomRange{}, 100, rng)
	if res.TotalSimulations != 0 {
		t.Errorf("expected zero simulations for a single hole card, got %d", res.TotalSimulations)
	}

	hole := []poker.Card{mustCard(t, "Ac"), mustCard(t, "Ad")}
	tooManyBoard := []poker.Card{
		mustCard(t, "2c"), mustCard(t, "3c"), mustCard(t, "4c"), mustCard(t, "5c"), mustCard(t, "6c"), mustCard(t, "7c"),
	}
	res = Estimate(hole, tooManyBoard, RandomRange{}, 100, rng)
	if res.TotalSimulations != 0 {
		t.Errorf("expected zero simulations for a 6-card board, got %d", res.TotalSimulations)
	}
}

// TestEstimateSequentialAndParallelAgree checks that the sequential path
// (below parallelThreshold) and the parallel path (at or above it) produce
// statistically comparable equity for the same matchup, since they share
// the same underlying simulation logic.
func TestEstimateSequentialAndParallelAgree(t *testing.T) {
	t.Parallel()
	hole := []poker.Card{mustCard(t, "Kc"), mustCard(t, "Kd")}
	board := []poker.Card{mustCard(t, "2c"), mustCard(t, "7d"), mustCard(t, "9h")}

	seqRng := rand.New(rand.NewSource(7))
	seq := Estimate(hole, board, RandomRange{}, parallelThreshold-1, seqRng)

	parRng := rand.New(rand.NewSource(7))
	par := Estimate(hole, board, RandomRange{}, parallelThreshold*4, parRng)

	if seq.TotalSimulations == 0 || par.TotalSimulations == 0 {
		t.Fatal("expected simulations to run on both paths")
	}

	diff := seq.Equity() - par.Equity()
	if diff < 0 {
		diff = -diff
	}
	if diff > 0.15 {
		t.Errorf("expected sequential and parallel equity estimates to roughly agree, seq=%f par=%f", seq.Equity(), par.Equity())
	}
}

func TestResultRates(t *testing.T) {
	t.Parallel()
	r := Result{Wins: 60, Ties: 20, TotalSimulations: 100}
	if r.WinRate() != 0.6 {
		t.Errorf("expected WinRate 0.6, got %f", r.WinRate())
	}
	if r.TieRate() != 0.2 {
		t.Errorf("expected TieRate 0.2, got %f", r.TieRate())
	}
	if eq := r.Equity(); eq != 0.7 {
		t.Errorf("expected Equity 0.7 (wins + half of ties), got %f", eq)
	}

	lower, upper := r.ConfidenceInterval()
	if lower > r.Equity() || upper < r.Equity() {
		t.Errorf("expected confidence interval [%f, %f] to bracket equity %f", lower, upper, r.Equity())
	}
}

func TestResultZeroSimulations(t *testing.T) {
	t.Parallel()
	var r Result
	if r.WinRate() != 0 || r.TieRate() != 0 || r.Equity() != 0 {
		t.Error("expected all rates to be zero with no simulations")
	}
	lower, upper := r.ConfidenceInterval()
	if lower != 0 || upper != 0 {
		t.Error("expected a zero-width confidence interval with no simulations")
	}
}
