package predict

import (
	"math"
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

func testStore(t *testing.T, ratings map[string]float64) *rating.Store {
	t.Helper()
	store := rating.NewStore(models.LeagueNBA)
	now := time.Now()
	for team, value := range ratings {
		store.Set(team, value, now)
	}
	return store
}

func TestRawHomeProbFavorsStrongerTeam(t *testing.T) {
	store := testStore(t, map[string]float64{"STRONG": 1650, "WEAK": 1450})
	p := NewPredictor(rating.DefaultParams(models.LeagueNBA))

	if got := p.RawHomeProb(store, "STRONG", "WEAK", false); got <= 0.5 {
		t.Fatalf("stronger home side should be favored, got %v", got)
	}
	if got := p.RawHomeProb(store, "WEAK", "STRONG", true); got >= 0.5 {
		t.Fatalf("weaker home side on neutral court should be underdog, got %v", got)
	}
}

func TestHomeAdvantageBreaksSymmetry(t *testing.T) {
	store := testStore(t, map[string]float64{"A": 1550, "B": 1500})
	p := NewPredictor(rating.DefaultParams(models.LeagueNBA))

	sum := p.RawHomeProb(store, "A", "B", false) + p.RawHomeProb(store, "B", "A", false)
	if math.Abs(sum-1) < 1e-9 {
		t.Fatalf("home advantage should break complementarity, sum=%v", sum)
	}
}

func TestNeutralSiteComplementarity(t *testing.T) {
	store := testStore(t, map[string]float64{"A": 1580, "B": 1490})
	p := NewPredictor(rating.DefaultParams(models.LeagueNCAAM))

	ab := p.RawHomeProb(store, "A", "B", true)
	ba := p.RawHomeProb(store, "B", "A", true)
	if math.Abs(ab+ba-1) > 1e-12 {
		t.Fatalf("neutral-site probabilities must be complementary: %v + %v", ab, ba)
	}
}

func TestRawHomeProbKnownValue(t *testing.T) {
	store := testStore(t, map[string]float64{"HOME": 1600, "AWAY": 1500})
	p := NewPredictor(rating.Params{League: models.LeagueNBA, KFactor: 20, HomeAdvantage: 60})

	want := 1.0 / (1.0 + math.Pow(10, (1500.0-1660.0)/400.0))
	got := p.RawHomeProb(store, "HOME", "AWAY", false)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("want %v got %v", want, got)
	}
	if math.Abs(got-0.69) > 0.02 {
		t.Fatalf("expected roughly 0.69, got %v", got)
	}
}
