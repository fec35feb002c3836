package solver

import (
	"fmt"

	"github.com/lox/spingosolver/game"
)

// infoSetIdentity is the grouping key two StrategyRecords from different
// runs must share to be the "same" information set when merging.
type infoSetIdentity struct {
	Round           game.Round
	Player          int
	Abstraction     string
	PreviousActions string
}

// Aggregate merges per-run strategy records into one file: each
// information set's merged strategy is the weighted average of its
// per-run average strategies, weighted by that run's UpdateCount for that
// info set. An action missing from a given run counts as probability zero
// for that run, still weighted by the run's UpdateCount, so the merged
// probabilities sum to one. The merged UpdateCount is the straight sum of the input counts —
// no ±1 offset is applied to any source, since there is nothing to
// compensate for once every run counts consistently.
func Aggregate(runs [][]StrategyRecord) ([]StrategyRecord, error) {
	type accumulator struct {
		record  StrategyRecord
		weights map[string]float64 // action token -> summed (prob * updateCount)
		counts  int
	}

	merged := make(map[infoSetIdentity]*accumulator)
	var order []infoSetIdentity

	for _, run := range runs {
		for _, rec := range run {
			id := infoSetIdentity{Round: rec.Round, Player: rec.Player, Abstraction: rec.Abstraction, PreviousActions: rec.PreviousActions}
			acc, ok := merged[id]
			if !ok {
				acc = &accumulator{
					record: StrategyRecord{
						Round:           rec.Round,
						Player:          rec.Player,
						Abstraction:     rec.Abstraction,
						PreviousActions: rec.PreviousActions,
						CumulatedPotBB:  rec.CumulatedPotBB,
					},
					weights: make(map[string]float64),
				}
				merged[id] = acc
				order = append(order, id)
			}

			weight := float64(rec.UpdateCount)
			for i, action := range rec.Actions {
				if i >= len(rec.Probabilities) {
					break
				}
				acc.weights[action.String()] += weight * rec.Probabilities[i]
				if !containsAction(acc.record.Actions, action) {
					acc.record.Actions = append(acc.record.Actions, action)
				}
			}
			acc.counts += rec.UpdateCount
		}
	}

	out := make([]StrategyRecord, 0, len(order))
	for _, id := range order {
		acc := merged[id]
		total := float64(acc.counts)
		probs := make([]float64, len(acc.record.Actions))
		if total > 0 {
			for i, action := range acc.record.Actions {
				probs[i] = acc.weights[action.String()] / total
			}
		} else {
			v := 1.0 / float64(len(probs))
			for i := range probs {
				probs[i] = v
			}
		}
		acc.record.Probabilities = probs
		acc.record.UpdateCount = acc.counts
		out = append(out, acc.record)
	}
	return out, nil
}

func containsAction(actions []game.Action, action game.Action) bool {
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// AggregateFiles reads each path in paths as a strategy CSV, merges them
// with Aggregate, and writes the result to out.
func AggregateFiles(out string, paths []string) error {
	runs := make([][]StrategyRecord, 0, len(paths))
	for _, p := range paths {
		rec, err := ReadStrategyCSV(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		runs = append(runs, rec)
	}
	merged, err := Aggregate(runs)
	if err != nil {
		return err
	}
	return WriteStrategyCSV(out, merged)
}
