package solver

import (
	"sync"
	"testing"

	"github.com/lox/spingosolver/game"
)

var threeActions = []game.Action{{Kind: game.Fold}, {Kind: game.Call}, {Kind: game.AllIn}}

func TestRegretEntryStrategyNormalizesPositiveRegrets(t *testing.T) {
	t.Parallel()

	entry := newRegretEntry(InfoSetKey{}, threeActions)
	entry.RegretSum[0] = 1
	entry.RegretSum[1] = 2
	entry.RegretSum[2] = -5

	strat := entry.Strategy()
	if got, want := strat[0], 1.0/3.0; abs(got-want) > 1e-9 {
		t.Fatalf("expected first action %v, got %v", want, got)
	}
	if got, want := strat[1], 2.0/3.0; abs(got-want) > 1e-9 {
		t.Fatalf("expected second action %v, got %v", want, got)
	}
	if strat[2] != 0 {
		t.Fatalf("expected negative regret action to drop to 0, got %v", strat[2])
	}
}

func TestRegretEntryStrategyUniformFallback(t *testing.T) {
	t.Parallel()

	entry := newRegretEntry(InfoSetKey{}, threeActions)
	strat := entry.Strategy()
	for i, s := range strat {
		want := 1.0 / float64(len(threeActions))
		if abs(s-want) > 1e-9 {
			t.Fatalf("expected uniform fallback %v at index %d, got %v", want, i, s)
		}
	}
}

func TestRegretEntryUpdateRegretAndStrategySum(t *testing.T) {
	t.Parallel()

	entry := newRegretEntry(InfoSetKey{}, threeActions[:2])
	entry.UpdateRegret([]float64{1, -1}, 2.0)
	entry.AddStrategySum([]float64{0.6, 0.4}, 2.0)

	if entry.RegretSum[0] != 2 || entry.RegretSum[1] != -2 {
		t.Fatalf("unexpected regret sums: %+v", entry.RegretSum)
	}
	if entry.StrategySum[0] != 1.2 || entry.StrategySum[1] != 0.8 {
		t.Fatalf("unexpected strategy sums: %+v", entry.StrategySum)
	}

	avg := entry.AverageStrategy()
	if abs(avg[0]-0.6) > 1e-9 || abs(avg[1]-0.4) > 1e-9 {
		t.Fatalf("expected average strategy [0.6,0.4], got %v", avg)
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func TestRegretTableGetCachesEntries(t *testing.T) {
	t.Parallel()

	table := NewRegretTable()
	key := InfoSetKey{Seat: 1}

	entryA := table.Get(key, threeActions)
	if entryA == nil {
		t.Fatalf("expected entry, got nil")
	}

	entryB := table.Get(key, threeActions)
	if entryA != entryB {
		t.Fatalf("expected cached entry to be reused")
	}
}

func TestRegretTableConcurrentAccess(t *testing.T) {
	t.Parallel()

	table := NewRegretTable()
	key := InfoSetKey{Seat: 2}

	regrets := []float64{1, -0.5, 0.25}
	strategy := []float64{0.4, 0.3, 0.3}

	const workers = 32
	const updates = 100

	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < updates; j++ {
				entry := table.Get(key, threeActions)
				entry.UpdateRegret(regrets, 1.0)
				entry.AddStrategySum(strategy, 1.0)
			}
		}()
	}

	wg.Wait()

	entry := table.Get(key, threeActions)
	expectedCount := workers * updates * 2 // UpdateRegret + AddStrategySum each bump UpdateCount
	if entry.UpdateCount != expectedCount {
		t.Fatalf("expected update count %v, got %v", expectedCount, entry.UpdateCount)
	}
}
