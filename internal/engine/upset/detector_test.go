package upset

import (
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

func slateRow(gameID string, rawHomeProb float64, pick models.Side) *models.PredictionRow {
	winProb := rawHomeProb
	if pick == models.SideAway {
		winProb = 1 - rawHomeProb
	}
	return &models.PredictionRow{
		GameID:      gameID,
		League:      models.LeagueNBA,
		Date:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		HomeTeamKey: "HOME-" + gameID,
		AwayTeamKey: "AWAY-" + gameID,
		PickSide:    pick,
		WinProb:     winProb,
		RawHomeProb: rawHomeProb,
	}
}

func slateStore(rows []*models.PredictionRow, gaps map[string]float64) *rating.Store {
	store := rating.NewStore(models.LeagueNBA)
	now := time.Now()
	for _, row := range rows {
		gap := gaps[row.GameID]
		store.Set(row.HomeTeamKey, models.BaseRating+gap/2, now)
		store.Set(row.AwayTeamKey, models.BaseRating-gap/2, now)
	}
	return store
}

func TestWatchIncludesFavoritePicks(t *testing.T) {
	// Model picks the home favorite at 0.70; underdog still holds 0.30.
	rows := []*models.PredictionRow{slateRow("g1", 0.70, models.SideHome)}
	store := slateStore(rows, map[string]float64{"g1": 120})
	detector := NewDetector(nil)

	watch := detector.Detect(rows, store, Params{Mode: ModeWatch, MinWin: 0.25, Limit: 5})
	if len(watch) != 1 {
		t.Fatalf("watch mode should include the fixture, got %d", len(watch))
	}
	if watch[0].UnderdogTeamKey != "AWAY-g1" || watch[0].Signals.FavoriteSide != models.SideHome {
		t.Fatalf("unexpected favorite/underdog assignment: %+v", watch[0])
	}

	strict := detector.Detect(rows, store, Params{Mode: ModeStrict, MinWin: 0.25, Limit: 5})
	if len(strict) != 0 {
		t.Fatalf("strict mode must exclude fixtures where the pick is the favorite, got %d", len(strict))
	}
}

func TestStrictIncludesUnderdogPicks(t *testing.T) {
	rows := []*models.PredictionRow{slateRow("g1", 0.42, models.SideHome)}
	store := slateStore(rows, map[string]float64{"g1": 80})
	detector := NewDetector(nil)

	got := detector.Detect(rows, store, Params{Mode: ModeStrict, MinWin: 0.25, Limit: 5})
	if len(got) != 1 {
		t.Fatalf("strict mode should include a predicted upset, got %d", len(got))
	}
	if got[0].UnderdogTeamKey != "HOME-g1" {
		t.Fatalf("home side at 0.42 is the underdog, got %s", got[0].UnderdogTeamKey)
	}
}

func TestMinWinThreshold(t *testing.T) {
	rows := []*models.PredictionRow{slateRow("g1", 0.85, models.SideHome)}
	store := slateStore(rows, map[string]float64{"g1": 300})
	detector := NewDetector(nil)

	got := detector.Detect(rows, store, Params{Mode: ModeWatch, MinWin: 0.25, Limit: 5})
	if len(got) != 0 {
		t.Fatalf("underdog at 0.15 must not clear minWin 0.25")
	}
}

func TestSortKeysAndLimit(t *testing.T) {
	rows := []*models.PredictionRow{
		slateRow("g1", 0.70, models.SideHome), // dog 0.30, gap 200
		slateRow("g2", 0.60, models.SideHome), // dog 0.40, gap 60
		slateRow("g3", 0.65, models.SideHome), // dog 0.35, gap 120
	}
	store := slateStore(rows, map[string]float64{"g1": 200, "g2": 60, "g3": 120})
	detector := NewDetector(nil)

	byProb := detector.Detect(rows, store, Params{Mode: ModeWatch, MinWin: 0.25, Limit: 10, SortKey: SortByWinProb})
	if byProb[0].GameID != "g2" || byProb[2].GameID != "g1" {
		t.Fatalf("prob sort wrong: %s %s %s", byProb[0].GameID, byProb[1].GameID, byProb[2].GameID)
	}

	byGap := detector.Detect(rows, store, Params{Mode: ModeWatch, MinWin: 0.25, Limit: 10, SortKey: SortByGap})
	if byGap[0].GameID != "g2" || byGap[2].GameID != "g1" {
		t.Fatalf("gap sort should list closest games first: %s %s %s", byGap[0].GameID, byGap[1].GameID, byGap[2].GameID)
	}

	limited := detector.Detect(rows, store, Params{Mode: ModeWatch, MinWin: 0.25, Limit: 2, SortKey: SortByScore})
	if len(limited) != 2 {
		t.Fatalf("limit must truncate after sorting, got %d", len(limited))
	}
}

func TestScoreRegression(t *testing.T) {
	rows := []*models.PredictionRow{slateRow("g1", 0.70, models.SideHome)}
	store := slateStore(rows, map[string]float64{"g1": 200})
	detector := NewDetector(nil)

	got := detector.Detect(rows, store, Params{Mode: ModeWatch, MinWin: 0.25, Limit: 1})
	// 0.30*0.7 + (200/400)*0.3 = 0.36 with the shipped weights.
	want := 0.36
	if diff := got[0].Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("composite score drifted: want %v got %v", want, got[0].Score)
	}
}
