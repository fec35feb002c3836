package solver

import (
	"math/rand"

	"github.com/lox/spingosolver/abstraction"
	"github.com/lox/spingosolver/game"
	"github.com/lox/spingosolver/internal/statistics"
)

// EvalResult summarizes a blueprint self-play evaluation run: net chips won
// (in Units, per game.Unit) and the equivalent big-blind rate for each seat
// across Hands dealt.
type EvalResult struct {
	Hands      int
	NetChips   [3]int64
	BBPerHand  [3]float64
	InfoSetHit [3]int64 // decisions resolved by a loaded strategy row
	InfoSetNew [3]int64 // decisions that fell back to a uniform distribution

	// SeatStats carries the full variance/percentile breakdown per seat, the
	// same ledger a multi-table bot harness would keep to decide whether a
	// blueprint's edge (or deficit) is distinguishable from variance.
	SeatStats [3]*statistics.Statistics
}

// EvaluateStrategy plays Hands fresh deals to termination, with every
// seat's action drawn from the matching row of records (the same
// (round, seat, bucket, action-history) identity Aggregate groups by), or
// uniformly among the legal actions when no row matches. This is the
// offline counterpart to spawning bot processes against a live game server:
// the spec's Non-goals exclude a real-time multiplayer server, so
// evaluation here replays hands directly against game.State rather than
// over a network.
func EvaluateStrategy(records []StrategyRecord, buckets *abstraction.BucketTable, hands int, seed int64) EvalResult {
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))

	index := buildStrategyIndex(records)
	w := &walker{buckets: buckets}

	result := EvalResult{Hands: hands}
	for seat := range result.SeatStats {
		result.SeatStats[seat] = &statistics.Statistics{}
	}

	for h := 0; h < hands; h++ {
		s := game.NewInitialState(rng)
		for !s.Terminal {
			seat := s.NextSeat
			legal := s.LegalActions()
			if len(legal) == 0 {
				break
			}

			probs, hit := matchStrategy(w, s, seat, legal, index)
			if hit {
				result.InfoSetHit[seat]++
			} else {
				result.InfoSetNew[seat]++
			}

			idx := sampleIndex(probs, rng)
			if err := s.ApplyAction(legal[idx]); err != nil {
				break
			}
		}

		wentToShowdown := s.Round == game.Showdown
		potSize := s.PotTotal()
		payoffs := s.Payoffs()
		for seat := 0; seat < 3; seat++ {
			result.NetChips[seat] += int64(payoffs[seat])
			result.SeatStats[seat].Add(statistics.HandResult{
				NetBB:          float64(payoffs[seat]) / float64(game.BigBlindUnits),
				Seed:           seed,
				Position:       seat + 1,
				WentToShowdown: wentToShowdown,
				FinalPotSize:   potSize,
			})
		}
	}

	for seat := 0; seat < 3; seat++ {
		if hands > 0 {
			result.BBPerHand[seat] = float64(result.NetChips[seat]) / float64(game.BigBlindUnits) / float64(hands)
		}
	}
	return result
}

// buildStrategyIndex groups records the same way Aggregate does, so a
// self-play evaluation and a merge agree on what "the same information set"
// means across runs.
func buildStrategyIndex(records []StrategyRecord) map[infoSetIdentity]StrategyRecord {
	index := make(map[infoSetIdentity]StrategyRecord, len(records))
	for _, rec := range records {
		id := infoSetIdentity{
			Round:           rec.Round,
			Player:          rec.Player,
			Abstraction:     rec.Abstraction,
			PreviousActions: rec.PreviousActions,
		}
		index[id] = rec
	}
	return index
}

// matchStrategy resolves a probability distribution over legal, aligned
// positionally with legal, by looking up the info set's recorded strategy
// and re-normalizing over whichever of legal it covers. A legal action
// absent from the record contributes zero weight; if the record covers none
// of legal (or no record exists), the distribution falls back to uniform.
func matchStrategy(w *walker, s *game.State, seat int, legal []game.Action, index map[infoSetIdentity]StrategyRecord) (probs []float64, hit bool) {
	key := w.infoSetKey(s, seat)
	id := infoSetIdentity{
		Round:           game.Round(key.Round),
		Player:          key.Seat,
		Abstraction:     key.Bucket,
		PreviousActions: key.ActionHistory,
	}

	probs = make([]float64, len(legal))
	rec, ok := index[id]
	if !ok {
		return uniform(len(legal)), false
	}

	total := 0.0
	for i, action := range legal {
		for j, recAction := range rec.Actions {
			if recAction == action && j < len(rec.Probabilities) {
				probs[i] = rec.Probabilities[j]
				total += probs[i]
				break
			}
		}
	}
	if total <= 0 {
		return uniform(len(legal)), false
	}
	for i := range probs {
		probs[i] /= total
	}
	return probs, true
}

func uniform(n int) []float64 {
	probs := make([]float64, n)
	if n == 0 {
		return probs
	}
	v := 1.0 / float64(n)
	for i := range probs {
		probs[i] = v
	}
	return probs
}
