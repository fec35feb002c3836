package game

import (
	"github.com/lox/spingosolver/abstraction"
)

// commitmentOverrideRatio is the commitment ratio (chips already in the pot
// over those chips plus the remaining stack) at or above which a seat that
// owes chips to a bet has ALL_IN as its only legal action — a short stack
// facing a bet that has already eaten most of it is committed to shoving.
const commitmentOverrideRatio = 0.7

// potBracketBB boundaries (in BB) separating the three postflop bet-sizing
// brackets: a pot under smallPotBB only offers small stabs, a pot over
// largePotBB only offers the biggest sizes, everything between gets the
// middle menu.
const (
	smallPotBB = 10
	largePotBB = 20
)

// betSizeMenu returns the bet-size codes (from BetSizes) on offer to seat
// at the current decision point. Preflop offers a two-size open (BET_2,
// BET_3) when no one has raised over the big blind yet, collapsing to a
// single re-raise size (BET_4) once someone has; postflop offers a
// three-size menu drawn from {1.5, 3, 4, 6, 7}, chosen by which pot-size
// bracket the hand is currently in. affordability against the seat's
// remaining stack is filtered by the caller, not here.
func (s *State) betSizeMenu(seat int) []float64 {
	if s.Round == Preflop {
		if s.CurrentBet > BigBlindUnits {
			return []float64{4}
		}
		return []float64{2, 3}
	}

	potBB := float64(s.PotTotal()) / float64(BigBlindUnits)
	switch {
	case potBB < smallPotBB:
		return []float64{1.5, 3}
	case potBB < largePotBB:
		return []float64{3, 4, 6}
	default:
		return []float64{4, 6, 7}
	}
}

// historySignature classifies the current round's action history into one
// of the three fold-table buckets.
func (s *State) historySignature() string {
	raises := 0
	for _, sa := range s.RoundHistory[s.Round] {
		if sa.Action.Kind == Bet || sa.Action.Kind == AllIn {
			raises++
		}
	}
	switch {
	case raises == 0:
		return historyUnopened
	case raises == 1:
		return historyVsOneRaise
	default:
		return historyVsTwoRaises
	}
}

// LegalActions returns the actions available to the seat to move, in a
// fixed order (FOLD, CHECK, CALL, BET_k..., ALL_IN). A seat that is not the
// seat to act, not active, or all-in has no legal actions.
func (s *State) LegalActions() []Action {
	seat := s.NextSeat
	if s.Terminal || !s.Active[seat] || s.AllIn[seat] {
		return nil
	}

	owed := s.ToCall(seat)
	stack := s.Stack[seat]

	var actions []Action

	if owed > 0 {
		if s.Round == Preflop {
			class := abstraction.PreflopClass(s.HoleCards[seat])
			if shouldFold(seat, s.historySignature(), class) {
				return []Action{{Kind: Fold}}
			}
		}
		alreadyIn := float64(s.PotRound[seat] + s.PotCumulative[seat])
		if alreadyIn/(alreadyIn+float64(stack)) >= commitmentOverrideRatio {
			return []Action{{Kind: AllIn}}
		}
		actions = append(actions, Action{Kind: Fold})
	}

	if owed == 0 {
		actions = append(actions, Action{Kind: Check})
	} else {
		actions = append(actions, Action{Kind: Call})
	}

	if stack > owed {
		remainingAfterCall := stack - owed
		committed := s.PotRound[seat]
		facingBet := s.CurrentBet > 0

		alreadyCommitted := float64(s.PotRound[seat] + s.PotCumulative[seat])
		commitmentRatio := alreadyCommitted / (alreadyCommitted + float64(stack))
		forceAllInOnly := facingBet && commitmentRatio >= commitmentOverrideRatio

		if !forceAllInOnly {
			for _, size := range s.betSizeMenu(seat) {
				amount := betUnits(size)
				if amount <= committed+owed {
					continue // not a raise over the current bet
				}
				cost := amount - committed
				if cost <= 0 || cost > stack {
					continue
				}
				if cost == stack {
					continue // covered by ALL_IN below
				}
				actions = append(actions, Action{Kind: Bet, Size: size})
			}
		}

		if remainingAfterCall > 0 {
			actions = append(actions, Action{Kind: AllIn})
		}
	}

	return actions
}

// ApplyAction mutates the state by applying action at the seat to move. It
// returns ErrIllegalAction if action is not currently legal for that seat.
func (s *State) ApplyAction(action Action) error {
	seat := s.NextSeat
	legal := s.LegalActions()
	found := false
	for _, a := range legal {
		if a == action {
			found = true
			break
		}
	}
	if !found {
		return &ErrIllegalAction{Seat: seat, Action: action}
	}

	switch action.Kind {
	case Fold:
		s.Active[seat] = false
	case Check:
		// no chip movement
	case Call:
		s.commit(seat, s.ToCall(seat))
	case Bet:
		target := betUnits(action.Size)
		s.commit(seat, target-s.PotRound[seat])
		s.CurrentBet = target
	case AllIn:
		amount := s.Stack[seat]
		s.commit(seat, amount)
		if s.PotRound[seat] > s.CurrentBet {
			s.CurrentBet = s.PotRound[seat]
		}
	}

	s.LastAction[seat] = action
	s.RoundHistory[s.Round] = append(s.RoundHistory[s.Round], SeatAction{Seat: seat, Action: action})

	if s.ActiveCount() == 1 {
		s.mergeRoundIntoCumulative()
		s.Terminal = true
		return nil
	}

	if s.roundComplete() {
		s.advanceRound()
		return nil
	}

	s.NextSeat = s.nextToAct(seat)
	return nil
}

func (s *State) commit(seat, amount int) {
	if amount > s.Stack[seat] {
		amount = s.Stack[seat]
	}
	if amount < 0 {
		amount = 0
	}
	s.Stack[seat] -= amount
	s.PotRound[seat] += amount
	if s.Stack[seat] == 0 {
		s.AllIn[seat] = true
	}
}

// nextToAct returns the next seat after from that is still active and not
// all-in, wrapping around the table.
func (s *State) nextToAct(from int) int {
	for i := 1; i <= 3; i++ {
		seat := (from + i) % 3
		if s.Active[seat] && !s.AllIn[seat] {
			return seat
		}
	}
	return from
}

// roundComplete reports whether every active, non-all-in seat has matched
// CurrentBet (or checked when CurrentBet is zero) and every such seat has
// taken at least one voluntary action this round (so the big blind's
// initial forced post doesn't itself end the preflop round).
func (s *State) roundComplete() bool {
	contenders := 0
	for seat := 0; seat < 3; seat++ {
		if !s.Active[seat] || s.AllIn[seat] {
			continue
		}
		contenders++
		if s.PotRound[seat] != s.CurrentBet {
			return false
		}
	}
	if contenders == 0 {
		return true
	}

	// Posting a blind is not a voluntary option; it never closes a round by
	// itself, so the big blind still gets its option when no one raises.
	acted := map[int]bool{}
	for _, sa := range s.RoundHistory[s.Round] {
		if sa.Action.Kind == PostSB || sa.Action.Kind == PostBB {
			continue
		}
		acted[sa.Seat] = true
	}
	for seat := 0; seat < 3; seat++ {
		if !s.Active[seat] || s.AllIn[seat] {
			continue
		}
		if !acted[seat] {
			return false
		}
	}
	return true
}

// advanceRound resets per-round state and deals the next street, or moves
// to Showdown once the river closes.
func (s *State) advanceRound() {
	s.mergeRoundIntoCumulative()
	s.CurrentBet = 0

	if s.Round == River {
		s.Round = Showdown
		s.Terminal = true
		return
	}

	s.Round++
	want := boardSize[s.Round]
	have := s.Board.CountCards()
	if want > have {
		s.dealToBoard(want - have)
	}

	if activeNonAllIn(s) <= 1 {
		// everyone left is all-in: deal straight through to showdown
		s.runOutRemainingStreets()
		return
	}

	s.NextSeat = s.firstToActPostflop()
}

func (s *State) runOutRemainingStreets() {
	for s.Round != Showdown {
		want := boardSize[s.Round+1]
		have := s.Board.CountCards()
		if s.Round < River {
			s.Round++
			if want > have {
				s.dealToBoard(want - have)
			}
		} else {
			s.Round = Showdown
			s.Terminal = true
		}
	}
}

func activeNonAllIn(s *State) int {
	n := 0
	for seat := 0; seat < 3; seat++ {
		if s.Active[seat] && !s.AllIn[seat] {
			n++
		}
	}
	return n
}

// firstToActPostflop returns the lowest-indexed active, non-all-in seat,
// since seat 0 (small blind) acts first after the flop in this fixed
// three-seat layout.
func (s *State) firstToActPostflop() int {
	for seat := 0; seat < 3; seat++ {
		if s.Active[seat] && !s.AllIn[seat] {
			return seat
		}
	}
	return 0
}
