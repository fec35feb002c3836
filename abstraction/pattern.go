package abstraction

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lox/spingosolver/poker"
)

const rankLetters = "23456789TJQKA"

// PreflopClass maps two hole cards to one of the 169 canonical preflop
// classes: (higher-rank, lower-rank, suited?), rendered as "AKs", "72o", or
// "TT" for pairs. Suitedness is irrelevant (and omitted) for pairs.
func PreflopClass(hole poker.Hand) string {
	if hole.CountCards() != 2 {
		return ""
	}
	c0 := hole.GetCard(0)
	c1 := hole.GetCard(1)

	hi, lo := c0.Rank(), c1.Rank()
	hiSuit, loSuit := c0.Suit(), c1.Suit()
	if hi < lo {
		hi, lo = lo, hi
		hiSuit, loSuit = loSuit, hiSuit
	}

	if hi == lo {
		return fmt.Sprintf("%c%c", rankLetters[hi], rankLetters[lo])
	}
	if hiSuit == loSuit {
		return fmt.Sprintf("%c%cs", rankLetters[hi], rankLetters[lo])
	}
	return fmt.Sprintf("%c%co", rankLetters[hi], rankLetters[lo])
}

// PostflopKey builds the canonical (rank_pattern, suit_pattern) pair for a
// hand of 5, 6, or 7 cards, per the canonicalization rules: rank_pattern
// lists rank multiplicities in ascending-rank order; suit_pattern is a
// sorted list of per-suit signatures, where a signature is the sorted list
// of rank-group indices that suit covers, and rank-groups are themselves
// ordered by (count desc, rank desc).
func PostflopKey(hand poker.Hand) (rankPattern, suitPattern string) {
	var counts [13]int
	for suit := uint8(0); suit < 4; suit++ {
		mask := hand.GetSuitMask(suit)
		for rank := uint8(0); rank < 13; rank++ {
			if mask&(1<<rank) != 0 {
				counts[rank]++
			}
		}
	}

	rankPattern = buildRankPattern(counts)

	groupOf := buildRankGroups(counts)

	var signatures []string
	for suit := uint8(0); suit < 4; suit++ {
		mask := hand.GetSuitMask(suit)
		if mask == 0 {
			continue
		}
		var groups []int
		for rank := uint8(0); rank < 13; rank++ {
			if mask&(1<<rank) != 0 {
				groups = append(groups, groupOf[rank])
			}
		}
		sort.Ints(groups)
		signatures = append(signatures, formatInts(groups))
	}
	sort.Strings(signatures)
	suitPattern = strings.Join(signatures, ";")

	return rankPattern, suitPattern
}

func buildRankPattern(counts [13]int) string {
	var sb strings.Builder
	first := true
	for rank := 0; rank < 13; rank++ {
		if counts[rank] == 0 {
			continue
		}
		if !first {
			sb.WriteByte(',')
		}
		first = false
		fmt.Fprintf(&sb, "%c:%d", rankLetters[rank], counts[rank])
	}
	return sb.String()
}

// buildRankGroups assigns each present rank a group index, with groups
// ordered by (count desc, rank desc) as required for suit signatures.
func buildRankGroups(counts [13]int) [13]int {
	type rg struct {
		rank  int
		count int
	}
	var groups []rg
	for rank := 0; rank < 13; rank++ {
		if counts[rank] > 0 {
			groups = append(groups, rg{rank: rank, count: counts[rank]})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	var groupOf [13]int
	for idx, g := range groups {
		groupOf[g.rank] = idx
	}
	return groupOf
}

// BucketKey resolves a seat's abstraction bucket for the info-set key: the
// 169-class preflop string before the flop, or the persisted postflop
// bucket id (as decimal) once a BucketTable is available. A post-flop miss
// returns the raw (rank_pattern, suit_pattern) key instead of a sentinel,
// so the trainer treats the unseen texture as its own fresh information
// set rather than collapsing it into bucket -1.
func BucketKey(round string, hole, board poker.Hand, table *BucketTable) string {
	if board.CountCards() < 3 {
		return PreflopClass(hole)
	}
	rankPattern, suitPattern := PostflopKey(hole | board)
	if table == nil {
		return rankPattern + "|" + suitPattern
	}
	id := table.Lookup(round, rankPattern, suitPattern)
	if id == MissingBucket {
		return rankPattern + "|" + suitPattern
	}
	return strconv.Itoa(id)
}

func formatInts(v []int) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, n := range v {
		if i > 0 {
			sb.WriteByte(',')
		}
		fmt.Fprintf(&sb, "%d", n)
	}
	sb.WriteByte(']')
	return sb.String()
}
