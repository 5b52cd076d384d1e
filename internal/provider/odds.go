package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/models"
)

const oddsSourceName = "odds"

// OddsClient implements OddsProvider against a decimal-odds feed.
// Providers in this space quote decimal prices; the engine consumes
// American moneylines, so conversion happens here at the boundary.
type OddsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *logrus.Logger
}

type oddsMarket struct {
	GameID    string `json:"gameId"`
	HomePrice string `json:"homePrice"`
	AwayPrice string `json:"awayPrice"`
}

type oddsResponse struct {
	Markets []oddsMarket `json:"markets"`
}

// NewOddsClient creates an odds API client.
func NewOddsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *logrus.Logger) *OddsClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &OddsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the provider's name.
func (c *OddsClient) Name() string {
	return oddsSourceName
}

// Quotes fetches moneyline quotes for a league's slate. Markets with
// unparsable prices are dropped, not errored: a missing quote degrades the
// blend, it never fails a prediction.
func (c *OddsClient) Quotes(ctx context.Context, league models.League, date time.Time) (map[string]*models.MarketQuote, error) {
	url := fmt.Sprintf("%s/%s/markets?date=%s", c.baseURL, league, date.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewError(oddsSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewError(oddsSourceName, ErrCodeNetworkError, "failed to fetch markets", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, NewError(oddsSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload oddsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, NewError(oddsSourceName, ErrCodeInvalidData, "failed to decode markets response", err)
	}

	quotes := make(map[string]*models.MarketQuote, len(payload.Markets))
	for _, m := range payload.Markets {
		quote, ok := normalizeMarket(m)
		if !ok {
			c.logger.WithField("game_id", m.GameID).Debug("Dropping market with unparsable prices")
			continue
		}
		quotes[m.GameID] = quote
	}

	return quotes, nil
}

// normalizeMarket converts one decimal-priced market into an American
// moneyline quote.
func normalizeMarket(m oddsMarket) (*models.MarketQuote, bool) {
	if m.GameID == "" {
		return nil, false
	}
	home, ok := decimalToMoneyline(m.HomePrice)
	if !ok {
		return nil, false
	}
	away, ok := decimalToMoneyline(m.AwayPrice)
	if !ok {
		return nil, false
	}
	return &models.MarketQuote{
		GameID:        m.GameID,
		HomeMoneyline: home,
		AwayMoneyline: away,
	}, true
}

// decimalToMoneyline converts a decimal price string (e.g. "1.67", "2.50")
// to American odds. Prices at or below 1.0 carry no payout and are
// rejected.
func decimalToMoneyline(price string) (int, bool) {
	d, err := decimal.NewFromString(price)
	if err != nil {
		return 0, false
	}
	one := decimal.NewFromInt(1)
	if d.LessThanOrEqual(one) {
		return 0, false
	}

	hundred := decimal.NewFromInt(100)
	profit := d.Sub(one)
	if d.GreaterThanOrEqual(decimal.NewFromInt(2)) {
		// Underdog price: +100 * (d - 1).
		ml := profit.Mul(hundred).Round(0)
		return int(ml.IntPart()), true
	}
	// Favorite price: -100 / (d - 1).
	ml := hundred.Div(profit).Round(0).Neg()
	return int(ml.IntPart()), true
}
