package abstraction

import (
	"math/bits"

	"github.com/lox/spingosolver/poker"
)

// texture is the "wetness" of a board, from dry to very wet. It feeds into
// the postflop bucket score alongside the rank and suit patterns.
type texture int

const (
	dry texture = iota
	semiWet
	wet
	veryWet
)

// flushPotential describes how close a board is to completing a flush.
type flushPotential struct {
	maxSuitCount int
	isMonotone   bool
	isRainbow    bool
}

// straightPotential describes how connected a board's ranks are.
type straightPotential struct {
	connectedCards int
	hasAce         bool
	broadwayCards  int
}

// BoardTexture scores board wetness on a 0 (dry) to 1 (very wet) scale, fed
// into the clusterer as an extra feature dimension alongside each
// canonical configuration's range-equity vector: two boards can carry
// similar raw equity against the reference ranges while differing sharply
// in how coordinated they are, and that difference is exactly what this
// scores. Returns 0 before the flop.
func BoardTexture(board poker.Hand) float64 {
	return float64(analyzeTexture(board)) / float64(veryWet)
}

// analyzeTexture scores how coordinated/dangerous a board is. Mirrors the
// wetness scoring the teacher used for live-play bucket heuristics, reused
// here as one input to the persisted postflop bucket score.
func analyzeTexture(board poker.Hand) texture {
	if board.CountCards() < 3 {
		return dry
	}

	var wetness int

	flush := analyzeFlushPotential(board)
	switch {
	case flush.isMonotone:
		wetness += 4
	case flush.maxSuitCount >= 4:
		wetness += 4
	case flush.maxSuitCount == 3:
		wetness += 3
	case flush.maxSuitCount == 2:
		wetness += 1
	}

	straight := analyzeStraightPotential(board)
	switch {
	case straight.connectedCards >= 4:
		wetness += 4
	case straight.connectedCards == 3:
		wetness += 3
	case straight.connectedCards == 2:
		wetness += 1
	}

	if countBoardPairs(board) >= 1 {
		wetness++
	}
	if countHighCards(board) >= 3 {
		wetness++
	}

	switch {
	case wetness <= 0:
		return dry
	case wetness <= 3:
		return semiWet
	case wetness <= 5:
		return wet
	default:
		return veryWet
	}
}

func analyzeFlushPotential(board poker.Hand) flushPotential {
	var suitCounts [4]int
	for suit := uint8(0); suit < 4; suit++ {
		suitCounts[suit] = bits.OnesCount16(board.GetSuitMask(suit))
	}

	maxCount := 0
	nonZeroSuits := 0
	for _, c := range suitCounts {
		if c == 0 {
			continue
		}
		nonZeroSuits++
		if c > maxCount {
			maxCount = c
		}
	}

	cardCount := board.CountCards()
	return flushPotential{
		maxSuitCount: maxCount,
		isMonotone:   nonZeroSuits == 1 && cardCount >= 3,
		isRainbow:    nonZeroSuits == cardCount && cardCount >= 3,
	}
}

func analyzeStraightPotential(board poker.Hand) straightPotential {
	rankMask := board.GetRankMask()
	if rankMask == 0 {
		return straightPotential{}
	}

	hasAce := rankMask&(1<<poker.Ace) != 0

	broadway := 0
	for rank := poker.Ten; rank <= poker.Ace; rank++ {
		if rankMask&(1<<rank) != 0 {
			broadway++
		}
	}

	var ranks []int
	for rank := 0; rank < 13; rank++ {
		if rankMask&(1<<rank) != 0 {
			ranks = append(ranks, rank)
		}
	}

	maxConnected, current := 1, 1
	for i := 1; i < len(ranks); i++ {
		if ranks[i]-ranks[i-1] == 1 {
			current++
		} else {
			if current > maxConnected {
				maxConnected = current
			}
			current = 1
		}
	}
	if current > maxConnected {
		maxConnected = current
	}

	if hasAce {
		var low []int
		for _, r := range ranks {
			if r <= 3 {
				low = append(low, r)
			}
		}
		if len(low) >= 2 {
			wheel := append([]int{-1}, low...)
			wheelConnected, wheelMax := 1, 1
			for i := 1; i < len(wheel); i++ {
				if wheel[i]-wheel[i-1] == 1 {
					wheelConnected++
				} else {
					if wheelConnected > wheelMax {
						wheelMax = wheelConnected
					}
					wheelConnected = 1
				}
			}
			if wheelConnected > wheelMax {
				wheelMax = wheelConnected
			}
			if wheelMax > maxConnected {
				maxConnected = wheelMax
			}
		}
	}

	return straightPotential{connectedCards: maxConnected, hasAce: hasAce, broadwayCards: broadway}
}

func countBoardPairs(board poker.Hand) int {
	var counts [13]int
	for suit := uint8(0); suit < 4; suit++ {
		mask := board.GetSuitMask(suit)
		for rank := uint8(0); rank < 13; rank++ {
			if mask&(1<<rank) != 0 {
				counts[rank]++
			}
		}
	}
	pairs := 0
	for _, c := range counts {
		if c >= 2 {
			pairs++
		}
	}
	return pairs
}

func countHighCards(board poker.Hand) int {
	count := 0
	for suit := uint8(0); suit < 4; suit++ {
		mask := board.GetSuitMask(suit)
		count += bits.OnesCount16(mask & 0x1F00) // T-A
	}
	return count
}
