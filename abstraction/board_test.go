package abstraction

import (
	"testing"

	"github.com/lox/spingosolver/poker"
)

func TestBoardTexturePreflopIsZero(t *testing.T) {
	t.Parallel()
	if texture := BoardTexture(poker.Hand(0)); texture != 0 {
		t.Errorf("expected zero texture before the flop, got %f", texture)
	}
}

func TestBoardTextureMonotoneIsWetterThanRainbow(t *testing.T) {
	t.Parallel()
	monotone := mustHand(t, "2c", "7c", "Kc")
	rainbow := mustHand(t, "2c", "7d", "Kh")

	wet := BoardTexture(monotone)
	dry := BoardTexture(rainbow)

	if wet <= dry {
		t.Errorf("expected a monotone board to score wetter than a rainbow board, wet=%f dry=%f", wet, dry)
	}
}

func TestBoardTextureConnectedIsWetterThanScattered(t *testing.T) {
	t.Parallel()
	connected := mustHand(t, "7c", "8d", "9h")
	scattered := mustHand(t, "2c", "7d", "Kh")

	wet := BoardTexture(connected)
	dry := BoardTexture(scattered)

	if wet <= dry {
		t.Errorf("expected a connected board to score wetter than a scattered board, wet=%f dry=%f", wet, dry)
	}
}

func TestBoardTextureBounded(t *testing.T) {
	t.Parallel()
	texture := BoardTexture(mustHand(t, "7c", "8c", "9c"))
	if texture < 0 || texture > 1 {
		t.Errorf("expected texture in [0,1], got %f", texture)
	}
}

func TestAnalyzeTextureShortBoardIsDry(t *testing.T) {
	t.Parallel()
	if tx := analyzeTexture(mustHand(t, "2c", "7d")); tx != dry {
		t.Errorf("expected a 2-card board to be dry, got %v", tx)
	}
}

func TestAnalyzeFlushPotentialMonotone(t *testing.T) {
	t.Parallel()
	fp := analyzeFlushPotential(mustHand(t, "2c", "7c", "Kc"))
	if !fp.isMonotone {
		t.Error("expected a 3-suited board to be monotone")
	}
	if fp.isRainbow {
		t.Error("a monotone board cannot also be rainbow")
	}
}

func TestAnalyzeFlushPotentialRainbow(t *testing.T) {
	t.Parallel()
	fp := analyzeFlushPotential(mustHand(t, "2c", "7d", "Kh"))
	if !fp.isRainbow {
		t.Error("expected a 3-different-suit board to be rainbow")
	}
	if fp.isMonotone {
		t.Error("a rainbow board cannot also be monotone")
	}
}

func TestAnalyzeStraightPotentialWheelCards(t *testing.T) {
	t.Parallel()
	sp := analyzeStraightPotential(mustHand(t, "Ac", "2d", "3h"))
	if sp.connectedCards < 3 {
		t.Errorf("expected the ace to connect with 2-3 via the wheel, got %d connected cards", sp.connectedCards)
	}
	if !sp.hasAce {
		t.Error("expected hasAce to be true")
	}
}

func TestCountBoardPairs(t *testing.T) {
	t.Parallel()
	if n := countBoardPairs(mustHand(t, "2c", "2d", "7h")); n != 1 {
		t.Errorf("expected 1 paired rank, got %d", n)
	}
	if n := countBoardPairs(mustHand(t, "2c", "5d", "7h")); n != 0 {
		t.Errorf("expected 0 paired ranks on an unpaired board, got %d", n)
	}
}

func TestCountHighCards(t *testing.T) {
	t.Parallel()
	if n := countHighCards(mustHand(t, "Tc", "Jd", "Qh")); n != 3 {
		t.Errorf("expected 3 high cards (T-A), got %d", n)
	}
	if n := countHighCards(mustHand(t, "2c", "5d", "7h")); n != 0 {
		t.Errorf("expected 0 high cards, got %d", n)
	}
}
