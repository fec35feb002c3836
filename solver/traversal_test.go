package solver

import (
	"math/rand"
	"testing"

	"github.com/lox/spingosolver/game"
)

func TestWalkReturnsUtilityWithinChipRange(t *testing.T) {
	t.Parallel()

	regrets := NewRegretTable()
	rng := rand.New(rand.NewSource(11))
	w := &walker{regrets: regrets, rng: rand.New(rand.NewSource(13))}

	s := game.NewInitialState(rng)
	util := w.walk(s, 0, [3]float64{1, 1, 1})
	if util < -float64(game.StartingStackUnits) || util > float64(2*game.StartingStackUnits) {
		t.Fatalf("utility %v outside plausible chip range", util)
	}
	if regrets.Size() == 0 {
		t.Fatal("expected at least one information set to be created")
	}
}

func TestWalkPopulatesInfoSetForTraversingSeat(t *testing.T) {
	t.Parallel()

	regrets := NewRegretTable()
	rng := rand.New(rand.NewSource(21))
	w := &walker{regrets: regrets, rng: rand.New(rand.NewSource(23))}

	s := game.NewInitialState(rng)
	w.walk(s, 0, [3]float64{1, 1, 1})

	found := false
	for _, entry := range regrets.Entries() {
		if entry.Key.Seat == 0 {
			found = true
			break
		}
	}
	if !found {
		t.Fatal("expected at least one info set keyed to the traversing seat")
	}
}

func TestActionHistorySignatureSkipsBlinds(t *testing.T) {
	t.Parallel()

	s := game.NewInitialState(rand.New(rand.NewSource(1)))
	if got := actionHistorySignature(s); got != "" {
		t.Fatalf("expected empty signature before any voluntary action, got %q", got)
	}

	if err := s.ApplyAction(game.Action{Kind: game.Call}); err != nil {
		t.Fatalf("apply call: %v", err)
	}
	if got, want := actionHistorySignature(s), "[P2:CALL]"; got != want {
		t.Fatalf("signature = %q, want %q", got, want)
	}
}

func TestSampleIndexStaysWithinBounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(5))
	strategy := []float64{0.2, 0.3, 0.5}
	for i := 0; i < 1000; i++ {
		idx := sampleIndex(strategy, rng)
		if idx < 0 || idx >= len(strategy) {
			t.Fatalf("sampleIndex returned out-of-range index %d", idx)
		}
	}
}
