package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

func newTestHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, nil)
}

func TestScoreboardResults(t *testing.T) {
	payload := `{
		"events": [
			{
				"id": "g1",
				"date": "2026-01-15T19:30:00Z",
				"status": {"state": "post", "completed": true},
				"home": {"abbreviation": "DEN", "score": 112},
				"away": {"abbreviation": "POR", "score": 104}
			},
			{
				"id": "",
				"date": "2026-01-15",
				"status": {"state": "post", "completed": true},
				"home": {"abbreviation": "BOS", "score": 99},
				"away": {"abbreviation": "NYK", "score": 97}
			},
			{
				"id": "g3",
				"date": "2026-01-16",
				"status": {"state": "pre", "completed": false},
				"home": {"abbreviation": "LAL"},
				"away": {"abbreviation": "GSW"}
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/nba/scoreboard" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if got := r.URL.Query().Get("from"); got != "2026-01-15" {
			t.Errorf("unexpected from %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewScoreboardClient(newTestHTTPClient(), server.URL, "test-key", nil)
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)

	results, err := client.Results(context.Background(), models.LeagueNBA, from, to)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}

	// event with empty id is dropped, pending game is kept as-is
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.GameID != "g1" || first.HomeTeamKey != "DEN" || first.AwayTeamKey != "POR" {
		t.Errorf("unexpected normalization: %+v", first)
	}
	if !first.Completed || first.HomeScore == nil || *first.HomeScore != 112 {
		t.Errorf("expected completed final with home score 112, got %+v", first)
	}
	if !first.HomeWon() {
		t.Error("expected home win")
	}

	pending := results[1]
	if pending.Completed || pending.Usable() {
		t.Errorf("pending game must not be usable: %+v", pending)
	}
}

func TestScoreboardFixturesExcludeFinals(t *testing.T) {
	payload := `{
		"events": [
			{
				"id": "g1",
				"date": "2026-03-20T18:00:00Z",
				"neutralSite": true,
				"status": {"state": "pre", "completed": false},
				"home": {"abbreviation": "DUKE"},
				"away": {"abbreviation": "UNC"}
			},
			{
				"id": "g2",
				"date": "2026-03-20T15:00:00Z",
				"status": {"state": "post", "completed": true},
				"home": {"abbreviation": "UK", "score": 80},
				"away": {"abbreviation": "KU", "score": 78}
			}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client := NewScoreboardClient(newTestHTTPClient(), server.URL, "", nil)
	date := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)

	fixtures, err := client.Fixtures(context.Background(), models.LeagueNCAAM, date)
	if err != nil {
		t.Fatalf("Fixtures failed: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(fixtures))
	}
	if fixtures[0].GameID != "g1" || !fixtures[0].NeutralSite {
		t.Errorf("unexpected fixture %+v", fixtures[0])
	}
}

func TestScoreboardAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewScoreboardClient(newTestHTTPClient(), server.URL, "bad", nil)
	_, err := client.Results(context.Background(), models.LeagueNHL, time.Now(), time.Now())
	if err == nil {
		t.Fatal("expected error on 401")
	}
	provErr, ok := err.(Error)
	if !ok {
		t.Fatalf("expected provider.Error, got %T", err)
	}
	if provErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("expected auth error code, got %s", provErr.Code)
	}
}

func TestParseEventDate(t *testing.T) {
	if got := parseEventDate("2026-01-15T19:30:00Z"); got.Hour() != 19 {
		t.Errorf("RFC3339 parse failed: %v", got)
	}
	if got := parseEventDate("2026-01-15"); got.Day() != 15 {
		t.Errorf("date-only parse failed: %v", got)
	}
	if got := parseEventDate("garbage"); !got.IsZero() {
		t.Errorf("expected zero time for garbage, got %v", got)
	}
}
