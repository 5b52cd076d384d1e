package rating

import (
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

func TestStoreDefaultsToBaseRating(t *testing.T) {
	store := NewStore(models.LeagueNBA)
	if got := store.Get("BOS"); got != models.BaseRating {
		t.Fatalf("expected base rating %v for unseen team, got %v", models.BaseRating, got)
	}
	if store.Len() != 0 {
		t.Fatalf("unseen lookup must not create an entry")
	}
}

func TestStoreSetOverwrites(t *testing.T) {
	store := NewStore(models.LeagueNBA)
	now := time.Now()
	store.Set("BOS", 1550, now)
	store.Set("BOS", 1540, now.Add(time.Hour))
	if got := store.Get("BOS"); got != 1540 {
		t.Fatalf("expected 1540, got %v", got)
	}
	if store.Len() != 1 {
		t.Fatalf("expected one entry, got %d", store.Len())
	}
}

func TestSnapshotOrdering(t *testing.T) {
	store := NewStore(models.LeagueNHL)
	now := time.Now()
	store.Set("BUF", 1480, now)
	store.Set("COL", 1560, now)
	store.Set("BOS", 1560, now)

	snap := store.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(snap))
	}
	if snap[0].TeamKey != "BOS" || snap[1].TeamKey != "COL" || snap[2].TeamKey != "BUF" {
		t.Fatalf("unexpected order: %s %s %s", snap[0].TeamKey, snap[1].TeamKey, snap[2].TeamKey)
	}
}
