package game

import (
	"sort"

	"github.com/lox/spingosolver/poker"
)

// Pot is one main or side pot: the chip amount and the seats eligible to
// win it.
type Pot struct {
	Amount   int
	Eligible []int
}

// CalculateSidePots builds the canonical nested side pots from each seat's
// total cumulative contribution this hand. Seats that went all-in for
// different amounts each cap a pot level; chips above the highest all-in
// level among non-folded seats form one final pot.
func (s *State) CalculateSidePots() []Pot {
	allInAmounts := make(map[int]struct{})
	for seat := 0; seat < 3; seat++ {
		if s.AllIn[seat] && s.PotCumulative[seat] > 0 {
			allInAmounts[s.PotCumulative[seat]] = struct{}{}
		}
	}

	if len(allInAmounts) == 0 {
		var eligible []int
		total := 0
		for seat := 0; seat < 3; seat++ {
			if s.Active[seat] {
				eligible = append(eligible, seat)
			}
			total += s.PotCumulative[seat]
		}
		return []Pot{{Amount: total, Eligible: eligible}}
	}

	amounts := make([]int, 0, len(allInAmounts))
	for a := range allInAmounts {
		amounts = append(amounts, a)
	}
	sort.Ints(amounts)

	var pots []Pot
	previousMax := 0
	for _, maxBet := range amounts {
		pot := Pot{}
		for seat := 0; seat < 3; seat++ {
			if s.Active[seat] && s.PotCumulative[seat] > previousMax {
				pot.Eligible = append(pot.Eligible, seat)
			}
		}
		for seat := 0; seat < 3; seat++ {
			contribution := s.PotCumulative[seat] - previousMax
			if contribution > maxBet-previousMax {
				contribution = maxBet - previousMax
			}
			if contribution > 0 {
				pot.Amount += contribution
			}
		}
		if pot.Amount > 0 && len(pot.Eligible) > 0 {
			pots = append(pots, pot)
		}
		previousMax = maxBet
	}

	mainPot := Pot{}
	for seat := 0; seat < 3; seat++ {
		if s.Active[seat] && s.PotCumulative[seat] > previousMax {
			mainPot.Eligible = append(mainPot.Eligible, seat)
			mainPot.Amount += s.PotCumulative[seat] - previousMax
		}
	}
	if mainPot.Amount > 0 && len(mainPot.Eligible) > 0 {
		pots = append(pots, mainPot)
	}

	return pots
}

// Payoffs computes each seat's net chip change for the hand (winnings minus
// contribution), which is guaranteed to sum to exactly zero. If exactly one
// seat is still active, that seat wins every pot outright without a
// showdown. Otherwise pots are awarded to the best hand(s) among each pot's
// eligible, non-folded seats, splitting ties evenly with any odd chip going
// to the earliest-indexed tied seat.
func (s *State) Payoffs() [3]int {
	var payouts [3]int

	if s.ActiveCount() == 1 {
		for seat := 0; seat < 3; seat++ {
			if s.Active[seat] {
				payouts[seat] = s.PotTotal()
			}
		}
	} else {
		scores := [3]int64{}
		for seat := 0; seat < 3; seat++ {
			if s.Active[seat] {
				full := s.HoleCards[seat] | s.Board
				scores[seat] = poker.Evaluate7Cards(full)
			}
		}

		for _, pot := range s.CalculateSidePots() {
			best := int64(-1)
			for _, seat := range pot.Eligible {
				if scores[seat] > best {
					best = scores[seat]
				}
			}
			var winners []int
			for _, seat := range pot.Eligible {
				if scores[seat] == best {
					winners = append(winners, seat)
				}
			}
			if len(winners) == 0 {
				continue
			}
			share := pot.Amount / len(winners)
			remainder := pot.Amount % len(winners)
			sort.Ints(winners)
			for i, seat := range winners {
				payouts[seat] += share
				if i < remainder {
					payouts[seat]++
				}
			}
		}
	}

	var net [3]int
	for seat := 0; seat < 3; seat++ {
		net[seat] = payouts[seat] - s.PotCumulative[seat]
	}
	return net
}
