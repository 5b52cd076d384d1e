package predict

import (
	"math"
	"testing"

	"github.com/yourusername/slate-edge/internal/models"
)

func TestShrinkBoundaries(t *testing.T) {
	if got := Shrink(0.9, 0.5, 0, 7); got != 0.9 {
		t.Fatalf("zero prior strength must leave the model untouched, got %v", got)
	}
	if got := Shrink(0.9, 0.5, 1e9, 1); math.Abs(got-0.5) > 1e-6 {
		t.Fatalf("overwhelming prior must approach 0.5, got %v", got)
	}
	if got := Shrink(0.9, 0.5, 0, 0); got != 0.9 {
		t.Fatalf("degenerate zero weights must be a no-op, got %v", got)
	}
}

func TestShrinkPseudoCounts(t *testing.T) {
	got := Shrink(0.8, 0.5, 5, 5)
	if math.Abs(got-0.65) > 1e-12 {
		t.Fatalf("equal weights should average: want 0.65 got %v", got)
	}
}

func TestImpliedProb(t *testing.T) {
	if p, ok := ImpliedProb(-150); !ok || math.Abs(p-0.6) > 1e-9 {
		t.Fatalf("impliedProb(-150): want 0.60 got %v ok=%v", p, ok)
	}
	if p, ok := ImpliedProb(150); !ok || math.Abs(p-0.4) > 1e-9 {
		t.Fatalf("impliedProb(+150): want 0.40 got %v ok=%v", p, ok)
	}
	if _, ok := ImpliedProb(0); ok {
		t.Fatalf("impliedProb(0) must be undefined")
	}
}

func TestClampBoundaries(t *testing.T) {
	bp := DefaultBlendParams()
	if got := Clamp(0.95, bp.ClampLo, bp.ClampHi); got != 0.82 {
		t.Fatalf("high probabilities clamp to exactly 0.82, got %v", got)
	}
	if got := Clamp(0.02, bp.ClampLo, bp.ClampHi); got != 0.18 {
		t.Fatalf("low probabilities clamp to exactly 0.18, got %v", got)
	}
	if got := Clamp(0.5, bp.ClampLo, bp.ClampHi); got != 0.5 {
		t.Fatalf("in-band probabilities pass through, got %v", got)
	}
}

func TestBlendHomeProbOrderOfOperations(t *testing.T) {
	bp := BlendParams{PriorProb: 0.5, PriorStrength: 1, ModelStrength: 1, MarketWeight: 0.5, ClampLo: 0.18, ClampHi: 0.82}
	quote := &models.MarketQuote{HomeMoneyline: -150, AwayMoneyline: 130}

	// shrink(0.9) = 0.7, then blend with market 0.6 at weight 0.5 = 0.65.
	got := BlendHomeProb(0.9, quote, bp)
	if math.Abs(got-0.65) > 1e-9 {
		t.Fatalf("want 0.65 got %v", got)
	}
}

func TestBlendHomeProbWithoutQuote(t *testing.T) {
	bp := DefaultBlendParams()
	model := BlendHomeProb(0.7, nil, bp)
	want := Clamp(Shrink(0.7, bp.PriorProb, bp.PriorStrength, bp.ModelStrength), bp.ClampLo, bp.ClampHi)
	if model != want {
		t.Fatalf("missing quote must be a no-op on the market step")
	}

	// Unparsable quotes degrade to the model-only path.
	bad := &models.MarketQuote{HomeMoneyline: 0, AwayMoneyline: -110}
	if got := BlendHomeProb(0.7, bad, bp); got != model {
		t.Fatalf("zero moneyline must be treated as absent, got %v want %v", got, model)
	}
}

func TestBlendHomeProbClampsExtremes(t *testing.T) {
	bp := BlendParams{PriorProb: 0.5, PriorStrength: 0, ModelStrength: 1, ClampLo: 0.18, ClampHi: 0.82}
	if got := BlendHomeProb(0.99, nil, bp); got != 0.82 {
		t.Fatalf("blended extreme must clamp to 0.82, got %v", got)
	}
	if got := BlendHomeProb(0.01, nil, bp); got != 0.18 {
		t.Fatalf("blended extreme must clamp to 0.18, got %v", got)
	}
}
