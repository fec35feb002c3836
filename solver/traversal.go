package solver

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lox/spingosolver/abstraction"
	"github.com/lox/spingosolver/game"
)

// walker runs one external-sampling MCCFR traversal against the shared
// regret table: at the traversing seat's nodes every legal action is
// explored and its counterfactual regret accumulated, while every other
// seat samples a single action from its current strategy. Both branches
// accumulate the average-strategy sum weighted by the product of the
// other seats' reach probability to the node (their "opponent reach"),
// per the external-sampling MCCFR scheme.
type walker struct {
	regrets *RegretTable
	buckets *abstraction.BucketTable
	rng     *rand.Rand
}

// walk returns the traversing seat's expected utility (net chips) from
// state onward, updating w.regrets along the way. reach holds each seat's
// probability of having played to reach state under the current
// strategies; it starts at [1,1,1] for a fresh deal.
func (w *walker) walk(s *game.State, target int, reach [3]float64) float64 {
	if s.Terminal {
		return float64(s.Payoffs()[target])
	}

	seat := s.NextSeat
	legal := s.LegalActions()
	key := w.infoSetKey(s, seat)
	entry := w.regrets.Get(key, legal)
	strategy := entry.Strategy()

	oppReach := 1.0
	for i := 0; i < 3; i++ {
		if i != seat {
			oppReach *= reach[i]
		}
	}

	if seat == target {
		values := make([]float64, len(legal))
		nodeValue := 0.0
		for i, action := range legal {
			child := s.Clone()
			_ = child.ApplyAction(action)
			childReach := reach
			childReach[seat] = reach[seat] * strategy[i]
			values[i] = w.walk(child, target, childReach)
			nodeValue += strategy[i] * values[i]
		}
		regret := make([]float64, len(legal))
		for i := range legal {
			regret[i] = values[i] - nodeValue
		}
		entry.UpdateRegret(regret, oppReach)
		if len(legal) > 1 {
			entry.AddStrategySum(strategy, oppReach)
		}
		return nodeValue
	}

	idx := sampleIndex(strategy, w.rng)
	child := s.Clone()
	_ = child.ApplyAction(legal[idx])
	childReach := reach
	childReach[seat] = reach[seat] * strategy[idx]
	value := w.walk(child, target, childReach)
	if len(legal) > 1 {
		entry.AddStrategySum(strategy, oppReach)
	}
	return value
}

// infoSetKey builds the abstracted information-set key for seat's decision
// at s, resolving its bucket from the persisted BucketTable when one is
// loaded (nil is treated as "no postflop abstraction yet": BucketKey falls
// back to the raw canonical texture string, still a valid map key, just an
// unbucketed one).
func (w *walker) infoSetKey(s *game.State, seat int) InfoSetKey {
	bucket := abstraction.BucketKey(s.Round.String(), s.HoleCards[seat], s.Board, w.buckets)
	return InfoSetKey{
		Round:         int(s.Round),
		Seat:          seat,
		Bucket:        bucket,
		ActionHistory: actionHistorySignature(s),
		PotTotal:      s.PotTotal(),
		CurrentBet:    s.CurrentBet,
		ActiveCount:   s.ActiveCount(),
	}
}

// actionHistorySignature renders the voluntary actions taken this round
// (blinds excluded, since they are forced and identical across every hand)
// as a pipe-separated list of "[P<seat>:<ACTION>]" tokens in chronological
// order — the same format the strategy CSV's PreviousActions column uses,
// so the info-set key and the exported file agree on history shape.
func actionHistorySignature(s *game.State) string {
	history := s.RoundHistory[s.Round]
	var tokens []string
	for _, sa := range history {
		if sa.Action.Kind == game.PostSB || sa.Action.Kind == game.PostBB {
			continue
		}
		tokens = append(tokens, fmt.Sprintf("[P%d:%s]", sa.Seat, sa.Action.String()))
	}
	return strings.Join(tokens, "|")
}

// sampleIndex draws an action index from a probability distribution that
// sums to (approximately) one.
func sampleIndex(strategy []float64, rng *rand.Rand) int {
	r := rng.Float64()
	cum := 0.0
	for i, p := range strategy {
		cum += p
		if r < cum {
			return i
		}
	}
	return len(strategy) - 1
}
