package service

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

func slateFixtureEngine(t *testing.T, league models.League, now time.Time) (*SlateService, *ResolverService, *memPredictionRepo, *memCalibrationRepo, *fakeSchedule) {
	t.Helper()

	var results []*models.GameResult
	for i := 0; i < 6; i++ {
		results = append(results,
			completedGame(gameID("p", i), league, now.AddDate(0, 0, -10+i), "DEN", "POR", 110, 100))
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
	predRepo := newMemPredictionRepo()
	calRepo := newMemCalibrationRepo()

	slate := NewSlateService(eng, schedule, nil, predRepo, time.Minute, nil, testLogger())
	resolver := NewResolverService(eng, schedule, predRepo, calRepo, nil, testLogger())
	return slate, resolver, predRepo, calRepo, schedule
}

func TestResolveOutcomesOnce(t *testing.T) {
	now := time.Now().UTC()
	league := models.LeagueNBA
	slate, resolver, predRepo, calRepo, schedule := slateFixtureEngine(t, league, now)

	rows, err := slate.BuildSlate(context.Background(), league, now)
	if err != nil {
		t.Fatalf("BuildSlate failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(rows))
	}

	// the predicted game goes final
	schedule.results = append(schedule.results,
		completedGame("f1", league, now, "DEN", "POR", 105, 99))

	if err := resolver.ResolveOutcomes(context.Background(), league); err != nil {
		t.Fatalf("ResolveOutcomes failed: %v", err)
	}

	summary := resolver.engine.CalibrationSummary(league)
	if summary.N != 1 {
		t.Fatalf("expected 1 resolved outcome, got %d", summary.N)
	}
	if summary.Accuracy == nil || *summary.Accuracy != 1.0 {
		t.Errorf("home favorite won, expected accuracy 1.0, got %v", summary.Accuracy)
	}

	// bins were persisted
	bins, err := calRepo.LoadBins(context.Background(), league)
	if err != nil || len(bins) == 0 {
		t.Fatalf("calibration bins not persisted: %v", err)
	}

	// a second sweep must not double count
	if err := resolver.ResolveOutcomes(context.Background(), league); err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if got := resolver.engine.CalibrationSummary(league).N; got != 1 {
		t.Errorf("outcome counted twice: n=%d", got)
	}

	if unresolved, _ := predRepo.GetUnresolved(context.Background(), league); len(unresolved) != 0 {
		t.Errorf("prediction still unresolved after sweep")
	}
}

func TestHandleStreamFinal(t *testing.T) {
	now := time.Now().UTC()
	league := models.LeagueNBA
	slate, resolver, _, _, _ := slateFixtureEngine(t, league, now)

	if _, err := slate.BuildSlate(context.Background(), league, now); err != nil {
		t.Fatalf("BuildSlate failed: %v", err)
	}

	final := completedGame("f1", league, now, "DEN", "POR", 98, 101)
	if err := resolver.HandleStreamFinal(final); err != nil {
		t.Fatalf("HandleStreamFinal failed: %v", err)
	}

	summary := resolver.engine.CalibrationSummary(league)
	if summary.N != 1 {
		t.Fatalf("expected 1 resolved outcome, got %d", summary.N)
	}
	if summary.Accuracy == nil || *summary.Accuracy != 0.0 {
		t.Errorf("home favorite lost, expected accuracy 0.0, got %v", summary.Accuracy)
	}

	// the same final arriving again is a no-op
	if err := resolver.HandleStreamFinal(final); err != nil {
		t.Fatalf("duplicate final errored: %v", err)
	}
	if got := resolver.engine.CalibrationSummary(league).N; got != 1 {
		t.Errorf("duplicate final double counted: n=%d", got)
	}
}

func TestHandleStreamFinalWithoutPrediction(t *testing.T) {
	now := time.Now().UTC()
	_, resolver, _, _, _ := slateFixtureEngine(t, models.LeagueNBA, now)

	// no slate was built, nothing to resolve
	final := completedGame("unknown", models.LeagueNBA, now, "BOS", "NYK", 100, 90)
	if err := resolver.HandleStreamFinal(final); err != nil {
		t.Fatalf("expected silent skip, got %v", err)
	}
	if got := resolver.engine.CalibrationSummary(models.LeagueNBA).N; got != 0 {
		t.Errorf("unexpected outcome recorded: n=%d", got)
	}
}

func TestRestoreCalibration(t *testing.T) {
	now := time.Now().UTC()
	_, resolver, _, calRepo, _ := slateFixtureEngine(t, models.LeagueNBA, now)

	bins := make([]models.CalibrationBin, 10)
	for i := range bins {
		bins[i] = models.CalibrationBin{Lo: float64(i) / 10, Hi: float64(i+1) / 10}
	}
	bins[7].N = 10
	bins[7].Correct = 7
	if err := calRepo.SaveBins(context.Background(), models.LeagueNBA, bins); err != nil {
		t.Fatalf("SaveBins failed: %v", err)
	}

	if err := resolver.RestoreCalibration(context.Background()); err != nil {
		t.Fatalf("RestoreCalibration failed: %v", err)
	}
	summary := resolver.engine.CalibrationSummary(models.LeagueNBA)
	if summary.N != 10 {
		t.Errorf("expected 10 restored outcomes, got %d", summary.N)
	}
	if summary.Accuracy == nil || *summary.Accuracy != 0.7 {
		t.Errorf("expected restored accuracy 0.7, got %v", summary.Accuracy)
	}
}
