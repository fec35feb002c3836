package equity

import (
	"math/rand"
	"testing"

	"github.com/lox/spingosolver/poker"
)

func allCards() []poker.Card {
	cards := make([]poker.Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			cards = append(cards, poker.NewCard(rank, suit))
		}
	}
	return cards
}

func TestRandomRangeSampleHand(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	available := allCards()

	for i := 0; i < 100; i++ {
		hand, ok := RandomRange{}.SampleHand(available, rng)
		if !ok {
			t.Fatal("expected a sample from a full deck")
		}
		if len(hand) != 2 {
			t.Fatalf("expected 2 cards, got %d", len(hand))
		}
		if hand[0] == hand[1] {
			t.Error("expected two distinct cards")
		}
	}
}

func TestRandomRangeInsufficientCards(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(1))
	_, ok := RandomRange{}.SampleHand(allCards()[:1], rng)
	if ok {
		t.Error("expected sampling to fail with fewer than 2 available cards")
	}
}

func TestTightRangeSamplesWellFormedHands(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(3))
	available := allCards()

	for i := 0; i < 200; i++ {
		hand, ok := TightRange{}.SampleHand(available, rng)
		if !ok {
			t.Fatal("expected a sample from a full deck")
		}
		// TightRange falls back to MediumRange after its attempt budget, so
		// this only checks hands are well-formed, not that every hand is
		// strictly tight.
		if len(hand) != 2 || hand[0] == hand[1] {
			t.Errorf("malformed sampled hand: %v", hand)
		}
	}
}

func TestIsTightHandClassifiesPocketAces(t *testing.T) {
	t.Parallel()
	hand := []poker.Card{poker.NewCard(poker.Ace, poker.Clubs), poker.NewCard(poker.Ace, poker.Diamonds)}
	if !isTightHand(hand) {
		t.Error("expected pocket aces to be classified as a tight hand")
	}
}

func TestIsTightHandRejectsWeakOffsuit(t *testing.T) {
	t.Parallel()
	hand := []poker.Card{poker.NewCard(poker.Seven, poker.Clubs), poker.NewCard(poker.Two, poker.Diamonds)}
	if isTightHand(hand) {
		t.Error("expected 72o to not be classified as a tight hand")
	}
}

func TestParseRangePocketPair(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if r.Size() != 6 {
		t.Errorf("expected 6 combos for AA, got %d", r.Size())
	}
}

func TestParseRangeSuitedAndOffsuit(t *testing.T) {
	t.Parallel()
	suited, err := ParseRange("AKs")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if suited.Size() != 4 {
		t.Errorf("expected 4 suited combos for AKs, got %d", suited.Size())
	}

	offsuit, err := ParseRange("AKo")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if offsuit.Size() != 12 {
		t.Errorf("expected 12 offsuit combos for AKo, got %d", offsuit.Size())
	}

	both, err := ParseRange("AK")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	if both.Size() != 16 {
		t.Errorf("expected 16 combos for AK (suited+offsuit), got %d", both.Size())
	}
}

func TestParseRangePlusNotation(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("TT+")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	// TT, JJ, QQ, KK, AA: 5 ranks * 6 combos each.
	if r.Size() != 30 {
		t.Errorf("expected 30 combos for TT+, got %d", r.Size())
	}
}

func TestParseRangeDashNotation(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("22-44")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	// 22, 33, 44: 3 ranks * 6 combos each.
	if r.Size() != 18 {
		t.Errorf("expected 18 combos for 22-44, got %d", r.Size())
	}
}

func TestParseRangeInvalidNotation(t *testing.T) {
	t.Parallel()
	if _, err := ParseRange("ZZ"); err == nil {
		t.Error("expected an error for an invalid rank")
	}
}

func TestNotationRangeSampleHand(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	rng := rand.New(rand.NewSource(1))
	hand, ok := r.SampleHand(allCards(), rng)
	if !ok {
		t.Fatal("expected a sample from AA")
	}
	if hand[0].Rank() != poker.Ace || hand[1].Rank() != poker.Ace {
		t.Errorf("expected both cards to be aces, got %v", hand)
	}
}

func TestNotationRangeSampleHandExcludesUsedCards(t *testing.T) {
	t.Parallel()
	r, err := ParseRange("AA")
	if err != nil {
		t.Fatalf("ParseRange: %v", err)
	}
	// Remove every ace but one, leaving no legal combo.
	available := []poker.Card{
		poker.NewCard(poker.Ace, poker.Clubs),
		poker.NewCard(poker.King, poker.Diamonds),
		poker.NewCard(poker.Queen, poker.Hearts),
	}
	_, ok := r.SampleHand(available, rng(2))
	if ok {
		t.Error("expected sampling to fail when fewer than 2 aces remain available")
	}
}

func rng(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
