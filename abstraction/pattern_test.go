package abstraction

import (
	"testing"

	"github.com/lox/spingosolver/poker"
)

func mustHand(t *testing.T, codes ...string) poker.Hand {
	t.Helper()
	var h poker.Hand
	for _, code := range codes {
		c, err := poker.ParseCard(code)
		if err != nil {
			t.Fatalf("ParseCard(%q): %v", code, err)
		}
		h.AddCard(c)
	}
	return h
}

func TestPreflopClassPocketPair(t *testing.T) {
	t.Parallel()
	class := PreflopClass(mustHand(t, "Tc", "Td"))
	if class != "TT" {
		t.Errorf("expected TT, got %s", class)
	}
}

func TestPreflopClassSuited(t *testing.T) {
	t.Parallel()
	class := PreflopClass(mustHand(t, "Ac", "Kc"))
	if class != "AKs" {
		t.Errorf("expected AKs, got %s", class)
	}
}

func TestPreflopClassOffsuit(t *testing.T) {
	t.Parallel()
	class := PreflopClass(mustHand(t, "7c", "2d"))
	if class != "72o" {
		t.Errorf("expected 72o, got %s", class)
	}
}

func TestPreflopClassOrderIndependent(t *testing.T) {
	t.Parallel()
	a := PreflopClass(mustHand(t, "Ac", "Kc"))
	b := PreflopClass(mustHand(t, "Kc", "Ac"))
	if a != b {
		t.Errorf("expected hole-card order to not affect the class, got %s vs %s", a, b)
	}
}

func TestPreflopClassRejectsWrongCardCount(t *testing.T) {
	t.Parallel()
	if class := PreflopClass(mustHand(t, "Ac", "Kc", "Qc")); class != "" {
		t.Errorf("expected empty class for a 3-card hand, got %q", class)
	}
}

func TestPostflopKeyTripsCanonicalization(t *testing.T) {
	t.Parallel()
	rankPattern, suitPattern := PostflopKey(mustHand(t, "5c", "5d", "5h", "2c", "9d"))
	if rankPattern != "2:1,5:3,9:1" {
		t.Errorf("expected rank pattern 2:1,5:3,9:1, got %s", rankPattern)
	}
	if suitPattern == "" {
		t.Error("expected a non-empty suit pattern")
	}
}

// TestPostflopKeySuitIsomorphismInvariant checks that relabeling suits
// across an entire hand produces the same canonical key, since suit
// identity (not suit relationships) is what the key abstracts away.
func TestPostflopKeySuitIsomorphismInvariant(t *testing.T) {
	t.Parallel()
	rp1, sp1 := PostflopKey(mustHand(t, "5c", "5d", "9h", "9c", "2d"))
	rp2, sp2 := PostflopKey(mustHand(t, "5h", "5s", "9d", "9h", "2s"))

	if rp1 != rp2 {
		t.Errorf("expected identical rank patterns across suit relabeling, got %s vs %s", rp1, rp2)
	}
	if sp1 != sp2 {
		t.Errorf("expected identical suit patterns across an isomorphic relabeling, got %s vs %s", sp1, sp2)
	}
}

// TestPostflopKeyDistinguishesFlushFromRainbow checks that two hands with
// identical rank multiplicities but different suit coordination produce
// different suit patterns.
func TestPostflopKeyDistinguishesFlushFromRainbow(t *testing.T) {
	t.Parallel()
	_, monotone := PostflopKey(mustHand(t, "2c", "5c", "9c", "Jc", "Kc"))
	_, rainbow := PostflopKey(mustHand(t, "2c", "5d", "9h", "Jc", "Kd"))

	if monotone == rainbow {
		t.Error("expected a monotone board and a rainbow board to produce different suit patterns")
	}
}

func TestBucketKeyPreflop(t *testing.T) {
	t.Parallel()
	key := BucketKey("preflop", mustHand(t, "Ac", "Ad"), poker.Hand(0), nil)
	if key != "AA" {
		t.Errorf("expected preflop bucket key AA, got %s", key)
	}
}

func TestBucketKeyPostflopWithoutTable(t *testing.T) {
	t.Parallel()
	hole := mustHand(t, "Ac", "Kd")
	board := mustHand(t, "Qc", "Jd", "2h")
	key := BucketKey("flop", hole, board, nil)
	if key == "" {
		t.Error("expected a non-empty fallback key when no bucket table is supplied")
	}
}

func TestBucketKeyPostflopMissFallsBackToRawKey(t *testing.T) {
	t.Parallel()
	hole := mustHand(t, "Ac", "Kd")
	board := mustHand(t, "Qc", "Jd", "2h")
	rankPattern, suitPattern := PostflopKey(hole | board)

	table := NewBucketTable()
	if err := table.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	key := BucketKey("flop", hole, board, table)
	if key != rankPattern+"|"+suitPattern {
		t.Errorf("expected miss to fall back to the raw (rank,suit) key, got %s", key)
	}
}

func TestBucketKeyPostflopHit(t *testing.T) {
	t.Parallel()
	hole := mustHand(t, "Ac", "Kd")
	board := mustHand(t, "Qc", "Jd", "2h")
	rankPattern, suitPattern := PostflopKey(hole | board)

	table := NewBucketTable()
	table.Set("flop", rankPattern, suitPattern, 7)
	if err := table.Build(); err != nil {
		t.Fatalf("Build: %v", err)
	}

	key := BucketKey("flop", hole, board, table)
	if key != "7" {
		t.Errorf("expected bucket key 7, got %s", key)
	}
}
