// Package helpers provides shared fixtures for integration tests.
package helpers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

// Game builds a completed game result.
func Game(id string, league models.League, date time.Time, home, away string, homeScore, awayScore int) *models.GameResult {
	return &models.GameResult{
		GameID:      id,
		League:      league,
		Date:        date,
		HomeTeamKey: home,
		AwayTeamKey: away,
		HomeScore:   &homeScore,
		AwayScore:   &awayScore,
		Completed:   true,
	}
}

// scoreboardDoc mirrors the scoreboard provider's wire format.
type scoreboardDoc struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	NeutralSite bool            `json:"neutralSite"`
	Status      scoreboardState `json:"status"`
	Home        scoreboardTeam  `json:"home"`
	Away        scoreboardTeam  `json:"away"`
}

type scoreboardState struct {
	State     string `json:"state"`
	Completed bool   `json:"completed"`
}

type scoreboardTeam struct {
	Abbreviation string `json:"abbreviation"`
	Score        *int   `json:"score"`
}

// ScoreboardServer serves games and fixtures in the scoreboard wire
// format. Games can be appended mid-test to simulate finals landing.
type ScoreboardServer struct {
	*httptest.Server

	mu       sync.Mutex
	games    []*models.GameResult
	fixtures []*models.Fixture
}

// NewScoreboardServer starts a fake scoreboard API.
func NewScoreboardServer(t *testing.T) *ScoreboardServer {
	t.Helper()
	s := &ScoreboardServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// AddGames appends completed games to the feed.
func (s *ScoreboardServer) AddGames(games ...*models.GameResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games = append(s.games, games...)
}

// SetFixtures replaces the slate the server returns.
func (s *ScoreboardServer) SetFixtures(fixtures ...*models.Fixture) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixtures = fixtures
}

func (s *ScoreboardServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := scoreboardDoc{Events: []scoreboardEvent{}}
	for _, g := range s.games {
		doc.Events = append(doc.Events, scoreboardEvent{
			ID:     g.GameID,
			Date:   g.Date.Format(time.RFC3339),
			Status: scoreboardState{State: "post", Completed: g.Completed},
			Home:   scoreboardTeam{Abbreviation: g.HomeTeamKey, Score: g.HomeScore},
			Away:   scoreboardTeam{Abbreviation: g.AwayTeamKey, Score: g.AwayScore},
		})
	}
	for _, f := range s.fixtures {
		doc.Events = append(doc.Events, scoreboardEvent{
			ID:          f.GameID,
			Date:        f.Date.Format(time.RFC3339),
			NeutralSite: f.NeutralSite,
			Status:      scoreboardState{State: "pre"},
			Home:        scoreboardTeam{Abbreviation: f.HomeTeamKey},
			Away:        scoreboardTeam{Abbreviation: f.AwayTeamKey},
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// OddsServer serves decimal-priced markets in the odds wire format.
type OddsServer struct {
	*httptest.Server

	mu      sync.Mutex
	markets map[string][2]string
}

// NewOddsServer starts a fake odds API.
func NewOddsServer(t *testing.T) *OddsServer {
	t.Helper()
	s := &OddsServer{markets: make(map[string][2]string)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// SetMarket sets the decimal home/away prices for a game.
func (s *OddsServer) SetMarket(gameID, homePrice, awayPrice string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets[gameID] = [2]string{homePrice, awayPrice}
}

func (s *OddsServer) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type market struct {
		GameID    string `json:"gameId"`
		HomePrice string `json:"homePrice"`
		AwayPrice string `json:"awayPrice"`
	}
	var doc struct {
		Markets []market `json:"markets"`
	}
	for id, prices := range s.markets {
		doc.Markets = append(doc.Markets, market{GameID: id, HomePrice: prices[0], AwayPrice: prices[1]})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

// MemoryRepos is an in-memory implementation of the repository
// interfaces for tests that do not need PostgreSQL.
type MemoryRepos struct {
	mu          sync.Mutex
	results     map[string]*models.GameResult
	predictions map[string]*models.PredictionRow
	resolved    map[string]string
	bins        map[models.League][]models.CalibrationBin
}

// NewMemoryRepos creates empty in-memory repositories.
func NewMemoryRepos() *MemoryRepos {
	return &MemoryRepos{
		results:     make(map[string]*models.GameResult),
		predictions: make(map[string]*models.PredictionRow),
		resolved:    make(map[string]string),
		bins:        make(map[models.League][]models.CalibrationBin),
	}
}

func key(league models.League, gameID string) string {
	return fmt.Sprintf("%s:%s", league, gameID)
}

// Upsert implements repository.GameResultRepository.
func (m *MemoryRepos) Upsert(_ context.Context, result *models.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[key(result.League, result.GameID)] = result
	return nil
}

// UpsertBatch implements repository.GameResultRepository.
func (m *MemoryRepos) UpsertBatch(ctx context.Context, results []*models.GameResult) error {
	for _, r := range results {
		if err := m.Upsert(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// GetCompletedInWindow implements repository.GameResultRepository.
func (m *MemoryRepos) GetCompletedInWindow(_ context.Context, league models.League, from, to time.Time) ([]*models.GameResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.GameResult
	for _, r := range m.results {
		if r.League == league && r.Completed && !r.Date.Before(from) && !r.Date.After(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Save implements repository.PredictionRepository.
func (m *MemoryRepos) Save(_ context.Context, row *models.PredictionRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(row.League, row.GameID)
	if _, done := m.resolved[k]; done {
		return nil
	}
	m.predictions[k] = row
	return nil
}

// GetByGameID implements repository.PredictionRepository.
func (m *MemoryRepos) GetByGameID(_ context.Context, league models.League, gameID string) (*models.PredictionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.predictions[key(league, gameID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return row, nil
}

// GetUnresolved implements repository.PredictionRepository.
func (m *MemoryRepos) GetUnresolved(_ context.Context, league models.League) ([]*models.PredictionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.PredictionRow
	for k, row := range m.predictions {
		if row.League != league {
			continue
		}
		if _, done := m.resolved[k]; done {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// MarkResolved implements repository.PredictionRepository.
func (m *MemoryRepos) MarkResolved(_ context.Context, league models.League, gameID, winnerKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := key(league, gameID)
	if _, done := m.resolved[k]; done {
		return false, nil
	}
	if _, ok := m.predictions[k]; !ok {
		return false, nil
	}
	m.resolved[k] = winnerKey
	return true, nil
}

// SaveBins implements repository.CalibrationRepository.
func (m *MemoryRepos) SaveBins(_ context.Context, league models.League, bins []models.CalibrationBin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bins[league] = append([]models.CalibrationBin(nil), bins...)
	return nil
}

// LoadBins implements repository.CalibrationRepository.
func (m *MemoryRepos) LoadBins(_ context.Context, league models.League) ([]models.CalibrationBin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CalibrationBin(nil), m.bins[league]...), nil
}
