package solver

import (
	"path/filepath"
	"testing"

	"github.com/lox/spingosolver/game"
)

func TestWriteReadStrategyCSVRoundTrip(t *testing.T) {
	t.Parallel()

	records := []StrategyRecord{
		{
			Round:           game.Preflop,
			Player:          2,
			Abstraction:     "AKs",
			PreviousActions: "[P0:CALL]|[P1:BET_2]",
			Actions:         []game.Action{{Kind: game.Fold}, {Kind: game.Call}, {Kind: game.Bet, Size: 2}},
			Probabilities:   []float64{0.1, 0.3, 0.6},
			CumulatedPotBB:  3.5,
			UpdateCount:     42,
		},
	}

	path := filepath.Join(t.TempDir(), "strategy.csv")
	if err := WriteStrategyCSV(path, records); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := ReadStrategyCSV(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	rec := got[0]
	if rec.Round != game.Preflop || rec.Player != 2 || rec.Abstraction != "AKs" {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if rec.PreviousActions != "[P0:CALL]|[P1:BET_2]" {
		t.Fatalf("previous actions = %q", rec.PreviousActions)
	}
	if len(rec.Actions) != 3 || rec.Actions[2].Kind != game.Bet || rec.Actions[2].Size != 2 {
		t.Fatalf("unexpected actions: %+v", rec.Actions)
	}
	for i, want := range []float64{0.1, 0.3, 0.6} {
		if abs(rec.Probabilities[i]-want) > 1e-6 {
			t.Fatalf("probability[%d] = %v, want %v", i, rec.Probabilities[i], want)
		}
	}
	if rec.UpdateCount != 42 {
		t.Fatalf("update count = %d, want 42", rec.UpdateCount)
	}
}

func TestFormatStrategyUsesSixDecimalPlaces(t *testing.T) {
	t.Parallel()

	s := formatStrategy([]game.Action{{Kind: game.Fold}, {Kind: game.Call}}, []float64{1.0 / 3, 2.0 / 3})
	want := "FOLD:0.333333|CALL:0.666667"
	if s != want {
		t.Fatalf("formatStrategy = %q, want %q", s, want)
	}
}
