package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/engine/rating"
	"github.com/yourusername/slate-edge/internal/models"
)

func TestRefreshRatingsInstallsStore(t *testing.T) {
	now := time.Now().UTC()
	schedule := &fakeSchedule{
		results: []*models.GameResult{
			completedGame("g1", models.LeagueNBA, now.AddDate(0, 0, -3), "DEN", "POR", 112, 104),
			completedGame("g2", models.LeagueNBA, now.AddDate(0, 0, -2), "DEN", "LAL", 120, 110),
		},
	}
	eng := testEngine()
	resultRepo := newMemGameResultRepo()
	params := map[models.League]rating.Params{
		models.LeagueNBA: rating.DefaultParams(models.LeagueNBA),
	}

	svc := NewRefresherService(eng, schedule, resultRepo, params, nil, testLogger())

	if _, err := eng.Store(models.LeagueNBA); !errors.Is(err, models.ErrStoreNotBuilt) {
		t.Fatalf("expected ErrStoreNotBuilt before refresh, got %v", err)
	}

	if err := svc.RefreshRatings(context.Background(), models.LeagueNBA); err != nil {
		t.Fatalf("RefreshRatings failed: %v", err)
	}

	store, err := eng.Store(models.LeagueNBA)
	if err != nil {
		t.Fatalf("store not installed: %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("expected 3 rated teams, got %d", store.Len())
	}
	if store.Get("DEN") <= models.BaseRating {
		t.Errorf("two home wins must raise DEN above base, got %.1f", store.Get("DEN"))
	}

	// results were persisted on the way through
	window, err := resultRepo.GetCompletedInWindow(context.Background(), models.LeagueNBA, now.AddDate(0, 0, -5), now)
	if err != nil {
		t.Fatalf("repo read failed: %v", err)
	}
	if len(window) != 2 {
		t.Errorf("expected 2 persisted results, got %d", len(window))
	}
}

func TestRefreshRatingsUnknownLeague(t *testing.T) {
	svc := NewRefresherService(testEngine(), &fakeSchedule{}, newMemGameResultRepo(),
		map[models.League]rating.Params{}, nil, testLogger())

	if err := svc.RefreshRatings(context.Background(), models.LeagueNBA); err == nil {
		t.Fatal("expected error for unconfigured league")
	}
}

func TestRefreshAllContinuesPastFailures(t *testing.T) {
	now := time.Now().UTC()
	schedule := &fakeSchedule{
		results: []*models.GameResult{
			completedGame("h1", models.LeagueNHL, now.AddDate(0, 0, -1), "COL", "CHI", 4, 2),
		},
	}
	eng := testEngine()
	params := map[models.League]rating.Params{
		models.LeagueNHL: rating.DefaultParams(models.LeagueNHL),
	}
	svc := NewRefresherService(eng, schedule, newMemGameResultRepo(), params, nil, testLogger())

	if err := svc.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll failed: %v", err)
	}
	if _, err := eng.Store(models.LeagueNHL); err != nil {
		t.Errorf("NHL store missing after RefreshAll: %v", err)
	}
}
