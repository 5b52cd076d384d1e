package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/engine/upset"
	"github.com/yourusername/slate-edge/internal/models"
)

func TestBuildSlatePredictsAndCaches(t *testing.T) {
	now := time.Now().UTC()
	league := models.LeagueNBA
	var results []*models.GameResult
	for i := 0; i < 6; i++ {
		results = append(results,
			completedGame(gameID("w", i), league, now.AddDate(0, 0, -10+i), "DEN", "POR", 110, 100))
	}

	eng := testEngine()
	store, _, err := eng.BuildRatings(league, results)
	if err != nil {
		t.Fatalf("BuildRatings failed: %v", err)
	}
	eng.Install(store)

	schedule := &fakeSchedule{
		fixtures: []*models.Fixture{
			{GameID: "f1", League: league, Date: now, HomeTeamKey: "POR", AwayTeamKey: "DEN"},
		},
	}
	odds := &fakeOdds{quotes: map[string]*models.MarketQuote{
		"f1": {GameID: "f1", HomeMoneyline: 150, AwayMoneyline: -180},
	}}
	predRepo := newMemPredictionRepo()

	svc := NewSlateService(eng, schedule, odds, predRepo, time.Minute, nil, testLogger())

	rows, err := svc.BuildSlate(context.Background(), league, now)
	if err != nil {
		t.Fatalf("BuildSlate failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.PickSide != models.SideAway {
		t.Errorf("expected away pick for the stronger visitor, got %s", row.PickSide)
	}
	if row.WinProb < 0.18 || row.WinProb > 0.82 {
		t.Errorf("win prob %.3f outside clamp", row.WinProb)
	}

	// row was persisted
	if _, err := predRepo.GetByGameID(context.Background(), league, "f1"); err != nil {
		t.Errorf("prediction not persisted: %v", err)
	}

	// second call served from cache
	if _, err := svc.BuildSlate(context.Background(), league, now); err != nil {
		t.Fatalf("cached BuildSlate failed: %v", err)
	}
	if schedule.fixtureCalls != 1 {
		t.Errorf("expected 1 provider call, got %d", schedule.fixtureCalls)
	}
}

func TestBuildSlateRequiresStore(t *testing.T) {
	svc := NewSlateService(testEngine(), &fakeSchedule{}, nil, nil, time.Minute, nil, testLogger())
	if _, err := svc.BuildSlate(context.Background(), models.LeagueNHL, time.Now()); err == nil {
		t.Fatal("expected error without an installed store")
	}
}

func TestUpsetsSurfacesCandidates(t *testing.T) {
	now := time.Now().UTC()
	league := models.LeagueNBA
	var results []*models.GameResult
	for i := 0; i < 8; i++ {
		results = append(results,
			completedGame(gameID("r", i), league, now.AddDate(0, 0, -12+i), "DEN", "POR", 115, 95))
	}

	eng := testEngine()
	store, _, err := eng.BuildRatings(league, results)
	if err != nil {
		t.Fatalf("BuildRatings failed: %v", err)
	}
	eng.Install(store)

	schedule := &fakeSchedule{
		fixtures: []*models.Fixture{
			{GameID: "f1", League: league, Date: now, HomeTeamKey: "DEN", AwayTeamKey: "POR"},
		},
	}
	svc := NewSlateService(eng, schedule, nil, nil, time.Minute, nil, testLogger())

	params := upset.DefaultParams()
	params.MinWin = 0.05
	candidates, err := svc.Upsets(context.Background(), league, now, params)
	if err != nil {
		t.Fatalf("Upsets failed: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].UnderdogTeamKey != "POR" {
		t.Errorf("expected POR underdog, got %s", candidates[0].UnderdogTeamKey)
	}
}

func gameID(prefix string, i int) string {
	return prefix + string(rune('a'+i))
}
