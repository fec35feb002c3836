package equity

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/lox/spingosolver/poker"
)

// Range samples a two-card opponent hand from the cards still available in
// the deck.
type Range interface {
	SampleHand(available []poker.Card, rng *rand.Rand) ([]poker.Card, bool)
}

// RandomRange samples any two cards uniformly.
type RandomRange struct{}

// SampleHand picks two distinct cards uniformly from available.
func (RandomRange) SampleHand(available []poker.Card, rng *rand.Rand) ([]poker.Card, bool) {
	if len(available) < 2 {
		return nil, false
	}
	i := rng.Intn(len(available))
	j := rng.Intn(len(available) - 1)
	if j >= i {
		j++
	}
	return []poker.Card{available[i], available[j]}, true
}

// TightRange samples from a narrow range of strong starting hands, falling
// back to MediumRange if no tight hand is found within the attempt budget.
type TightRange struct{}

// SampleHand retries up to 200 times for a tight-range hand before
// delegating to MediumRange.
func (TightRange) SampleHand(available []poker.Card, rng *rand.Rand) ([]poker.Card, bool) {
	if len(available) < 2 {
		return nil, false
	}
	for attempt := 0; attempt < 200; attempt++ {
		hand, ok := RandomRange{}.SampleHand(available, rng)
		if ok && isTightHand(hand) {
			return hand, true
		}
	}
	return MediumRange{}.SampleHand(available, rng)
}

// MediumRange samples a moderate range between TightRange and LooseRange.
type MediumRange struct{}

// SampleHand always accepts tight hands and accepts medium-strength hands
// with 60% probability, falling back to random sampling.
func (MediumRange) SampleHand(available []poker.Card, rng *rand.Rand) ([]poker.Card, bool) {
	for attempt := 0; attempt < 50; attempt++ {
		hand, ok := RandomRange{}.SampleHand(available, rng)
		if !ok {
			return hand, false
		}
		if isTightHand(hand) {
			return hand, true
		}
		if isMediumHand(hand) && rng.Float64() < 0.6 {
			return hand, true
		}
	}
	return RandomRange{}.SampleHand(available, rng)
}

// LooseRange samples any two cards, identically to RandomRange.
type LooseRange struct{}

// SampleHand delegates to RandomRange.
func (LooseRange) SampleHand(available []poker.Card, rng *rand.Rand) ([]poker.Card, bool) {
	return RandomRange{}.SampleHand(available, rng)
}

func isTightHand(hand []poker.Card) bool {
	if len(hand) != 2 {
		return false
	}
	c0, c1 := hand[0], hand[1]
	r0, r1 := c0.Rank(), c1.Rank()

	if r0 == r1 && r0 >= poker.Ten {
		return true
	}
	if r0 >= poker.Jack && r1 >= poker.Jack {
		return true
	}
	if c0.Suit() == c1.Suit() {
		gap := absRank(r0, r1)
		if gap <= 1 && ((r0 >= poker.Ten && r1 >= poker.Nine) || (r1 >= poker.Ten && r0 >= poker.Nine)) {
			return true
		}
	}
	if (r0 == poker.Ace && r1 >= poker.Ten) || (r1 == poker.Ace && r0 >= poker.Ten) {
		return true
	}
	return false
}

func isMediumHand(hand []poker.Card) bool {
	if len(hand) != 2 || isTightHand(hand) {
		return false
	}
	c0, c1 := hand[0], hand[1]
	r0, r1 := c0.Rank(), c1.Rank()

	if r0 == r1 && r0 >= poker.Six && r0 <= poker.Nine {
		return true
	}
	if (r0 >= poker.Eight && r1 >= poker.Six) || (r1 >= poker.Eight && r0 >= poker.Six) {
		return true
	}
	if c0.Suit() == c1.Suit() && (r0 >= poker.Seven || r1 >= poker.Seven) {
		return true
	}
	if r0 == poker.Ace || r1 == poker.Ace {
		return true
	}
	return false
}

func absRank(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// NotationRange is a weighted collection of starting hands built from
// standard poker range notation (e.g. "AA,KK", "AKs+", "22-66"), used to
// model configurable, non-hardcoded opponent ranges.
type NotationRange struct {
	hands map[poker.Hand]float64
}

// ParseRange builds a NotationRange from comma-separated range notation.
func ParseRange(notation string) (*NotationRange, error) {
	r := &NotationRange{hands: make(map[poker.Hand]float64)}
	for _, part := range strings.Split(notation, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if err := r.addPart(part); err != nil {
			return nil, fmt.Errorf("equity: invalid range part %q: %w", part, err)
		}
	}
	return r, nil
}

// SampleHand picks a uniformly random combo from the parsed range.
func (r *NotationRange) SampleHand(available []poker.Card, rng *rand.Rand) ([]poker.Card, bool) {
	candidates := make([]poker.Hand, 0, len(r.hands))
	var avail poker.Hand
	for _, c := range available {
		avail.AddCard(c)
	}
	for h := range r.hands {
		if h&^avail == 0 {
			candidates = append(candidates, h)
		}
	}
	if len(candidates) == 0 {
		return nil, false
	}
	pick := candidates[rng.Intn(len(candidates))]
	return []poker.Card{pick.GetCard(0), pick.GetCard(1)}, true
}

// Size returns the number of distinct two-card combos in the range.
func (r *NotationRange) Size() int { return len(r.hands) }

func (r *NotationRange) addPart(part string) error {
	switch {
	case strings.Contains(part, "+"):
		return r.addPlus(part)
	case strings.Contains(part, "-"):
		return r.addDash(part)
	default:
		return r.addSingle(part)
	}
}

func (r *NotationRange) addSingle(notation string) error {
	if len(notation) < 2 || len(notation) > 3 {
		return fmt.Errorf("invalid notation length: %s", notation)
	}
	r1, r2 := parseRank(notation[0]), parseRank(notation[1])
	if r1 == 0 || r2 == 0 {
		return fmt.Errorf("invalid rank in: %s", notation)
	}

	if r1 == r2 {
		if len(notation) == 3 {
			return fmt.Errorf("pocket pairs cannot have suited/offsuit modifier: %s", notation)
		}
		r.addPocketPair(r1)
		return nil
	}

	if len(notation) == 2 {
		r.addSuited(r1, r2)
		r.addOffsuit(r1, r2)
		return nil
	}

	switch notation[2] {
	case 's':
		r.addSuited(r1, r2)
	case 'o':
		r.addOffsuit(r1, r2)
	default:
		return fmt.Errorf("invalid modifier: %c", notation[2])
	}
	return nil
}

func (r *NotationRange) addPlus(notation string) error {
	idx := strings.Index(notation, "+")
	base := notation[:idx]
	if len(base) < 2 || len(base) > 3 {
		return fmt.Errorf("invalid base notation: %s", base)
	}
	r1, r2 := parseRank(base[0]), parseRank(base[1])
	if r1 == 0 || r2 == 0 {
		return fmt.Errorf("invalid rank")
	}

	if r1 == r2 {
		for rank := r1; rank <= 14; rank++ {
			r.addPocketPair(rank)
		}
		return nil
	}

	suited, offsuit := false, false
	switch {
	case len(base) == 2:
		suited, offsuit = true, true
	case base[2] == 's':
		suited = true
	case base[2] == 'o':
		offsuit = true
	default:
		return fmt.Errorf("invalid modifier")
	}

	for rank := r2; rank < r1; rank++ {
		if suited {
			r.addSuited(r1, rank)
		}
		if offsuit {
			r.addOffsuit(r1, rank)
		}
	}
	return nil
}

func (r *NotationRange) addDash(notation string) error {
	parts := strings.Split(notation, "-")
	if len(parts) != 2 {
		return fmt.Errorf("invalid dash range format")
	}
	start, end := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if len(start) < 2 || len(end) < 2 {
		return fmt.Errorf("invalid notation in range")
	}

	sr1, sr2 := parseRank(start[0]), parseRank(start[1])
	er1, er2 := parseRank(end[0]), parseRank(end[1])
	if sr1 == 0 || sr2 == 0 || er1 == 0 || er2 == 0 {
		return fmt.Errorf("invalid ranks in range")
	}

	if sr1 == sr2 && er1 == er2 {
		lower, upper := minInt(sr1, er1), maxInt(sr1, er1)
		for rank := lower; rank <= upper; rank++ {
			r.addPocketPair(rank)
		}
		return nil
	}

	if sr1 == er1 {
		suited := len(start) == 2 || (len(start) == 3 && start[2] == 's')
		offsuit := len(start) == 2 || (len(start) == 3 && start[2] == 'o')
		lower, upper := minInt(sr2, er2), maxInt(sr2, er2)
		for rank := lower; rank <= upper; rank++ {
			if suited {
				r.addSuited(sr1, rank)
			}
			if offsuit {
				r.addOffsuit(sr1, rank)
			}
		}
		return nil
	}

	return fmt.Errorf("unsupported range format: %s", notation)
}

func (r *NotationRange) addPocketPair(rank int) {
	pr := uint8(rank - 2)
	for s1 := uint8(0); s1 < 4; s1++ {
		for s2 := s1 + 1; s2 < 4; s2++ {
			h := poker.Hand(poker.NewCard(pr, s1)) | poker.Hand(poker.NewCard(pr, s2))
			r.hands[h] = 1.0
		}
	}
}

func (r *NotationRange) addSuited(rank1, rank2 int) {
	p1, p2 := uint8(rank1-2), uint8(rank2-2)
	for s := uint8(0); s < 4; s++ {
		h := poker.Hand(poker.NewCard(p1, s)) | poker.Hand(poker.NewCard(p2, s))
		r.hands[h] = 1.0
	}
}

func (r *NotationRange) addOffsuit(rank1, rank2 int) {
	p1, p2 := uint8(rank1-2), uint8(rank2-2)
	for s1 := uint8(0); s1 < 4; s1++ {
		for s2 := uint8(0); s2 < 4; s2++ {
			if s1 == s2 {
				continue
			}
			h := poker.Hand(poker.NewCard(p1, s1)) | poker.Hand(poker.NewCard(p2, s2))
			r.hands[h] = 1.0
		}
	}
}

func parseRank(c byte) int {
	switch c {
	case '2':
		return 2
	case '3':
		return 3
	case '4':
		return 4
	case '5':
		return 5
	case '6':
		return 6
	case '7':
		return 7
	case '8':
		return 8
	case '9':
		return 9
	case 'T':
		return 10
	case 'J':
		return 11
	case 'Q':
		return 12
	case 'K':
		return 13
	case 'A':
		return 14
	default:
		return 0
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
