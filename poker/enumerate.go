package poker

import (
	"strings"
)

// Enumerator produces hole+board card configurations with suits assigned in
// canonical introduction order (see enumerateSuits), which removes most
// suit-relabeling duplicates so downstream equity computation and
// clustering repeat little work. The reduction is not complete: when ranks
// repeat, two emitted configurations can still be suit relabelings of each
// other (for example H:2c2d|B:5c and H:2c2d|B:5d). Emitted strings are
// distinct, and no configuration holds the same card twice.
type Enumerator struct {
	holeCards  int
	boardCards int
	seen       map[string]struct{}
}

// NewEnumerator builds an enumerator for the given number of hole and board
// cards. seen, if non-nil, is an externally supplied "already emitted" set
// (e.g. reloaded from a prior CSV pass) that the enumerator both checks and
// extends, making enumeration restartable.
func NewEnumerator(holeCards, boardCards int, seen map[string]struct{}) *Enumerator {
	if seen == nil {
		seen = make(map[string]struct{})
	}
	return &Enumerator{holeCards: holeCards, boardCards: boardCards, seen: seen}
}

// Seen exposes the enumerator's already-emitted set, suitable for
// persisting alongside the CSV output it was derived from.
func (e *Enumerator) Seen() map[string]struct{} {
	return e.seen
}

// Enumerate calls emit once for every canonical configuration not already
// present in the enumerator's seen set, in iteration order. It enforces a
// consistent, separate non-decreasing ordering of hole-card ranks and
// board-card ranks so hero and villain positions are never conflated.
func (e *Enumerator) Enumerate(emit func(canonical string)) {
	holeTuples := rankTuples(e.holeCards)
	boardTuples := rankTuples(e.boardCards)

	for _, hole := range holeTuples {
		for _, board := range boardTuples {
			ranks := append(append([]int{}, hole...), board...)
			if !validMultiplicity(ranks) {
				continue
			}
			e.enumerateSuits(hole, board, emit)
		}
	}
}

// rankTuples returns every non-decreasing tuple of n rank indices (0-12).
func rankTuples(n int) [][]int {
	if n == 0 {
		return [][]int{{}}
	}
	var out [][]int
	var walk func(prefix []int, min int)
	walk = func(prefix []int, min int) {
		if len(prefix) == n {
			tuple := append([]int{}, prefix...)
			out = append(out, tuple)
			return
		}
		for r := min; r < 13; r++ {
			walk(append(prefix, r), r)
		}
	}
	walk(nil, 0)
	return out
}

func validMultiplicity(ranks []int) bool {
	var counts [13]int
	for _, r := range ranks {
		counts[r]++
		if counts[r] > 4 {
			return false
		}
	}
	return true
}

// enumerateSuits assigns suits to each rank position under the canonical
// suit-introduction constraint: position k may reuse any suit already used
// by an earlier position, or introduce the next unused suit in {c,d,h,s}
// order. A position never takes a suit already held by an earlier position
// of the same rank, so no card appears twice. The constraint fixes the order
// in which suits are introduced; it does not reduce configurations with
// repeated ranks to a single representative per suit relabeling.
func (e *Enumerator) enumerateSuits(hole, board []int, emit func(string)) {
	total := len(hole) + len(board)
	suits := make([]uint8, total)
	ranks := append(append([]int{}, hole...), board...)

	var walk func(pos int, suitsUsed uint8)
	walk = func(pos int, suitsUsed uint8) {
		if pos == total {
			canonical := canonicalString(hole, board, suits)
			if _, ok := e.seen[canonical]; ok {
				return
			}
			e.seen[canonical] = struct{}{}
			emit(canonical)
			return
		}

		for s := uint8(0); s < suitsUsed+1 && s < 4; s++ {
			duplicate := false
			for j := 0; j < pos; j++ {
				if ranks[j] == ranks[pos] && suits[j] == s {
					duplicate = true
					break
				}
			}
			if duplicate {
				continue
			}
			suits[pos] = s
			next := suitsUsed
			if s == suitsUsed {
				next = suitsUsed + 1
			}
			walk(pos+1, next)
		}
	}
	walk(0, 0)
}

func canonicalString(hole, board []int, suits []uint8) string {
	var sb strings.Builder
	sb.WriteString("H:")
	for i, r := range hole {
		sb.WriteString(cardCode(r, suits[i]))
	}
	sb.WriteString("|B:")
	for i, r := range board {
		sb.WriteString(cardCode(r, suits[len(hole)+i]))
	}
	return sb.String()
}

func cardCode(rank int, suit uint8) string {
	return string(rankChars[rank]) + string(suitChars[suit])
}
