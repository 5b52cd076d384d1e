package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/models"
)

const scoreboardSourceName = "scoreboard"

// ScoreboardClient implements ScheduleProvider against the scoreboard API.
type ScoreboardClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

// scoreboardEvent is the provider's wire shape for one game. Normalization
// to models happens in one place, here.
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

type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

// NewScoreboardClient creates a scoreboard API client.
func NewScoreboardClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *ScoreboardClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &ScoreboardClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the provider's name.
func (c *ScoreboardClient) Name() string {
	return scoreboardSourceName
}

// Results retrieves games in [from, to] normalized to GameResult. Events
// with garbage fields are normalized as-is; the engine decides usability.
func (c *ScoreboardClient) Results(ctx context.Context, league models.League, from, to time.Time) ([]*models.GameResult, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?from=%s&to=%s",
		c.baseURL, league, from.Format("2006-01-02"), to.Format("2006-01-02"))

	events, err := c.fetchEvents(ctx, url)
	if err != nil {
		return nil, err
	}

	results := make([]*models.GameResult, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" || ev.Home.Abbreviation == "" || ev.Away.Abbreviation == "" {
			continue
		}
		results = append(results, &models.GameResult{
			GameID:      ev.ID,
			League:      league,
			Date:        parseEventDate(ev.Date),
			HomeTeamKey: ev.Home.Abbreviation,
			AwayTeamKey: ev.Away.Abbreviation,
			HomeScore:   ev.Home.Score,
			AwayScore:   ev.Away.Score,
			Completed:   ev.Status.Completed,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"league": league,
		"from":   from.Format("2006-01-02"),
		"to":     to.Format("2006-01-02"),
		"games":  len(results),
	}).Debug("Fetched results")

	return results, nil
}

// Fixtures retrieves the slate for a date normalized to Fixture. Events
// already marked final are excluded.
func (c *ScoreboardClient) Fixtures(ctx context.Context, league models.League, date time.Time) ([]*models.Fixture, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?date=%s", c.baseURL, league, date.Format("2006-01-02"))

	events, err := c.fetchEvents(ctx, url)
	if err != nil {
		return nil, err
	}

	fixtures := make([]*models.Fixture, 0, len(events))
	for _, ev := range events {
		if ev.ID == "" || ev.Home.Abbreviation == "" || ev.Away.Abbreviation == "" {
			continue
		}
		if ev.Status.Completed {
			continue
		}
		fixtures = append(fixtures, &models.Fixture{
			GameID:      ev.ID,
			League:      league,
			Date:        parseEventDate(ev.Date),
			HomeTeamKey: ev.Home.Abbreviation,
			AwayTeamKey: ev.Away.Abbreviation,
			NeutralSite: ev.NeutralSite,
		})
	}

	return fixtures, nil
}

func (c *ScoreboardClient) fetchEvents(ctx context.Context, url string) ([]scoreboardEvent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewError(scoreboardSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewError(scoreboardSourceName, ErrCodeNetworkError, "failed to fetch scoreboard", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, NewError(scoreboardSourceName, ErrCodeAuthenticationFailed, "invalid API key", nil)
	case http.StatusTooManyRequests:
		return nil, NewError(scoreboardSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", nil)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, NewError(scoreboardSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload scoreboardResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewError(scoreboardSourceName, ErrCodeInvalidData, "failed to decode scoreboard response", err)
	}
	return payload.Events, nil
}

// parseEventDate tolerates both RFC3339 and date-only forms. A zero time
// for unparseable dates keeps the record flowing; the engine skips it at
// replay if ordering matters.
func parseEventDate(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}
