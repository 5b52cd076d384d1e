package rating

import (
	"sort"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

// Store holds the current rating for every team seen in one league. It is
// a plain container: no locking. The refresh lifecycle builds a fresh
// Store from scratch and swaps it in atomically; a Store is never mutated
// while readers hold it.
type Store struct {
	league  models.League
	ratings map[string]*models.TeamRating
}

// NewStore creates an empty store for a league.
func NewStore(league models.League) *Store {
	return &Store{
		league:  league,
		ratings: make(map[string]*models.TeamRating),
	}
}

// League returns the league this store covers.
func (s *Store) League() models.League {
	return s.league
}

// Get returns the stored rating for a team, or the base rating if the team
// has never been seen. Unknown teams are not an error.
func (s *Store) Get(teamKey string) float64 {
	if tr, ok := s.ratings[teamKey]; ok {
		return tr.Rating
	}
	return models.BaseRating
}

// Set overwrites the rating for a team, creating the entry lazily.
func (s *Store) Set(teamKey string, value float64, at time.Time) {
	if tr, ok := s.ratings[teamKey]; ok {
		tr.Rating = value
		tr.LastUpdated = at
		return
	}
	s.ratings[teamKey] = &models.TeamRating{
		League:      s.league,
		TeamKey:     teamKey,
		Rating:      value,
		LastUpdated: at,
	}
}

// Len returns the number of teams with an explicit rating.
func (s *Store) Len() int {
	return len(s.ratings)
}

// Snapshot returns all ratings sorted by rating descending, team key
// ascending on ties.
func (s *Store) Snapshot() []models.TeamRating {
	out := make([]models.TeamRating, 0, len(s.ratings))
	for _, tr := range s.ratings {
		out = append(out, *tr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rating != out[j].Rating {
			return out[i].Rating > out[j].Rating
		}
		return out[i].TeamKey < out[j].TeamKey
	})
	return out
}
