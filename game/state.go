// Package game implements the three-player Spin & Go no-limit hold'em state
// machine: fixed 15-BB starting stacks, a discrete bet-size abstraction, and
// canonical nested side-pot resolution at showdown.
package game

import (
	"math/rand"

	"github.com/lox/spingosolver/poker"
)

// Round is the betting-round tag.
type Round int

const (
	Preflop Round = iota
	Flop
	Turn
	River
	Showdown
)

func (r Round) String() string {
	switch r {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	case Showdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// boardSize is the number of board cards visible by the end of each round.
var boardSize = [5]int{0, 3, 4, 5, 5}

// Unit is the chip granularity: 1 Unit = 0.5 big blind, so every bet-size
// code in BetSizes (including the 1.5x code) converts to an integer number
// of Units.
const Unit = 1

// StartingStackBB is the fixed Spin & Go starting stack, in big blinds.
const StartingStackBB = 15

// SmallBlindUnits and BigBlindUnits are the blind sizes in Units (0.5 BB
// granularity): the small blind is 0.5 BB, the big blind is 1 BB.
const (
	SmallBlindUnits = 1
	BigBlindUnits   = 2
)

// StartingStackUnits is the fixed starting stack in Units.
const StartingStackUnits = StartingStackBB * BigBlindUnits

// betUnits converts a BetSizes code (in BB) to Units.
func betUnits(sizeBB float64) int {
	return int(sizeBB*float64(BigBlindUnits) + 0.5)
}

// State is the full game state for one hand of three-player Spin & Go.
type State struct {
	HoleCards [3]poker.Hand
	Board     poker.Hand

	Round Round

	Active [3]bool // still in the hand (has not folded)
	AllIn  [3]bool

	Stack         [3]int // remaining chips, in Units
	PotRound      [3]int // chips committed this round, in Units
	PotCumulative [3]int // chips committed in rounds that have already closed, in Units
	LastAction    [3]Action
	RoundHistory  [5][]SeatAction

	CurrentBet int // the bet amount (in Units) a seat must match this round
	NextSeat   int
	Terminal   bool

	Deck *poker.Deck
}

// ErrIllegalAction reports an attempt to apply an action that LegalActions
// would not have offered.
type ErrIllegalAction struct {
	Seat   int
	Action Action
}

func (e *ErrIllegalAction) Error() string {
	return "game: seat " + itoa(e.Seat) + " cannot " + e.Action.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// NewInitialState deals a fresh hand: seat 0 posts the small blind, seat 1
// posts the big blind, seat 2 is the button and is first to act preflop.
func NewInitialState(rng *rand.Rand) *State {
	deck := poker.NewDeck(rng)

	s := &State{
		Round: Preflop,
		Deck:  deck,
	}

	for seat := 0; seat < 3; seat++ {
		s.Active[seat] = true
		s.Stack[seat] = StartingStackUnits
		s.HoleCards[seat] = poker.NewHand(deck.Deal(2)...)
	}

	s.postBlind(0, SmallBlindUnits, PostSB)
	s.postBlind(1, BigBlindUnits, PostBB)
	s.CurrentBet = BigBlindUnits
	s.NextSeat = 2

	return s
}

func (s *State) postBlind(seat, amount int, kind ActionKind) {
	if amount > s.Stack[seat] {
		amount = s.Stack[seat]
	}
	s.Stack[seat] -= amount
	s.PotRound[seat] += amount
	if s.Stack[seat] == 0 {
		s.AllIn[seat] = true
	}
	s.LastAction[seat] = Action{Kind: kind}
	s.RoundHistory[Preflop] = append(s.RoundHistory[Preflop], SeatAction{Seat: seat, Action: Action{Kind: kind}})
}

// PotTotal returns the total chips committed across the whole hand: chips
// already folded into pot_cumulative at a prior round boundary, plus
// whatever is still sitting in pot_round for the round in progress.
func (s *State) PotTotal() int {
	total := 0
	for seat := 0; seat < 3; seat++ {
		total += s.PotCumulative[seat] + s.PotRound[seat]
	}
	return total
}

// mergeRoundIntoCumulative moves every seat's pot_round into pot_cumulative
// and resets pot_round, per spec.md §4.6: pot_cumulative holds only chips
// committed in rounds that have already closed, never the round in
// progress, so the commitment-ratio formula in LegalActions never double
// counts the current round's contribution.
func (s *State) mergeRoundIntoCumulative() {
	for seat := 0; seat < 3; seat++ {
		s.PotCumulative[seat] += s.PotRound[seat]
		s.PotRound[seat] = 0
	}
}

// ActiveCount returns the number of seats that have not folded.
func (s *State) ActiveCount() int {
	n := 0
	for _, a := range s.Active {
		if a {
			n++
		}
	}
	return n
}

// dealToBoard deals n cards from the deck directly onto the board.
func (s *State) dealToBoard(n int) {
	for _, c := range s.Deck.Deal(n) {
		s.Board.AddCard(c)
	}
}

// Clone returns a deep, independent copy of the state suitable for the
// MCCFR traverser to fork on each action it explores: mutating the clone
// never affects the original.
func (s *State) Clone() *State {
	clone := *s
	for r := range clone.RoundHistory {
		if len(s.RoundHistory[r]) > 0 {
			clone.RoundHistory[r] = append([]SeatAction(nil), s.RoundHistory[r]...)
		}
	}
	if s.Deck != nil {
		deck := *s.Deck
		clone.Deck = &deck
	}
	return &clone
}

// ToCall returns the chips seat still owes to match CurrentBet.
func (s *State) ToCall(seat int) int {
	owed := s.CurrentBet - s.PotRound[seat]
	if owed < 0 {
		return 0
	}
	if owed > s.Stack[seat] {
		return s.Stack[seat]
	}
	return owed
}
