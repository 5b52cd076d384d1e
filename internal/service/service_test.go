package service

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/engine"
	"github.com/yourusername/slate-edge/internal/models"
)

// fakeSchedule serves canned fixtures and results and counts calls.
type fakeSchedule struct {
	mu           sync.Mutex
	results      []*models.GameResult
	fixtures     []*models.Fixture
	fixtureCalls int
	resultCalls  int
}

func (f *fakeSchedule) Results(_ context.Context, league models.League, _, _ time.Time) ([]*models.GameResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resultCalls++
	var out []*models.GameResult
	for _, r := range f.results {
		if r.League == league {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSchedule) Fixtures(_ context.Context, league models.League, _ time.Time) ([]*models.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fixtureCalls++
	var out []*models.Fixture
	for _, fx := range f.fixtures {
		if fx.League == league {
			out = append(out, fx)
		}
	}
	return out, nil
}

func (f *fakeSchedule) Name() string { return "fake-schedule" }

// fakeOdds serves a fixed quote map.
type fakeOdds struct {
	quotes map[string]*models.MarketQuote
}

func (f *fakeOdds) Quotes(_ context.Context, _ models.League, _ time.Time) (map[string]*models.MarketQuote, error) {
	return f.quotes, nil
}

func (f *fakeOdds) Name() string { return "fake-odds" }

// memPredictionRepo is an in-memory PredictionRepository.
type memPredictionRepo struct {
	mu       sync.Mutex
	rows     map[string]*models.PredictionRow
	resolved map[string]string
}

func newMemPredictionRepo() *memPredictionRepo {
	return &memPredictionRepo{
		rows:     make(map[string]*models.PredictionRow),
		resolved: make(map[string]string),
	}
}

func (m *memPredictionRepo) key(league models.League, gameID string) string {
	return string(league) + ":" + gameID
}

func (m *memPredictionRepo) Save(_ context.Context, row *models.PredictionRow) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(row.League, row.GameID)
	if _, done := m.resolved[k]; done {
		return nil
	}
	m.rows[k] = row
	return nil
}

func (m *memPredictionRepo) GetByGameID(_ context.Context, league models.League, gameID string) (*models.PredictionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[m.key(league, gameID)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return row, nil
}

func (m *memPredictionRepo) GetUnresolved(_ context.Context, league models.League) ([]*models.PredictionRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.PredictionRow
	for k, row := range m.rows {
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

func (m *memPredictionRepo) MarkResolved(_ context.Context, league models.League, gameID, winnerKey string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := m.key(league, gameID)
	if _, done := m.resolved[k]; done {
		return false, nil
	}
	if _, ok := m.rows[k]; !ok {
		return false, nil
	}
	m.resolved[k] = winnerKey
	return true, nil
}

// memGameResultRepo is an in-memory GameResultRepository.
type memGameResultRepo struct {
	mu      sync.Mutex
	results map[string]*models.GameResult
}

func newMemGameResultRepo() *memGameResultRepo {
	return &memGameResultRepo{results: make(map[string]*models.GameResult)}
}

func (m *memGameResultRepo) Upsert(_ context.Context, result *models.GameResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[string(result.League)+":"+result.GameID] = result
	return nil
}

func (m *memGameResultRepo) UpsertBatch(ctx context.Context, results []*models.GameResult) error {
	for _, r := range results {
		if err := m.Upsert(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func (m *memGameResultRepo) GetCompletedInWindow(_ context.Context, league models.League, from, to time.Time) ([]*models.GameResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*models.GameResult
	for _, r := range m.results {
		if r.League != league || !r.Completed {
			continue
		}
		if r.Date.Before(from) || r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// memCalibrationRepo is an in-memory CalibrationRepository.
type memCalibrationRepo struct {
	mu   sync.Mutex
	bins map[models.League][]models.CalibrationBin
}

func newMemCalibrationRepo() *memCalibrationRepo {
	return &memCalibrationRepo{bins: make(map[models.League][]models.CalibrationBin)}
}

func (m *memCalibrationRepo) SaveBins(_ context.Context, league models.League, bins []models.CalibrationBin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bins[league] = append([]models.CalibrationBin(nil), bins...)
	return nil
}

func (m *memCalibrationRepo) LoadBins(_ context.Context, league models.League) ([]models.CalibrationBin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CalibrationBin(nil), m.bins[league]...), nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testEngine() *engine.Engine {
	return engine.New(engine.Config{}, testLogger())
}

func intPtr(v int) *int { return &v }

func completedGame(id string, league models.League, date time.Time, home, away string, homeScore, awayScore int) *models.GameResult {
	return &models.GameResult{
		GameID:      id,
		League:      league,
		Date:        date,
		HomeTeamKey: home,
		AwayTeamKey: away,
		HomeScore:   intPtr(homeScore),
		AwayScore:   intPtr(awayScore),
		Completed:   true,
	}
}
