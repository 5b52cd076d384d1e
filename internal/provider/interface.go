// Package provider fetches schedules, scores and odds from external
// sources and normalizes them into the engine's strict types. All payload
// shaping happens here; the engine never probes provider JSON.
package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/slate-edge/internal/models"
)

// ScheduleProvider yields completed results and upcoming fixtures for a
// league, already normalized.
type ScheduleProvider interface {
	// Results returns completed and in-progress games in [from, to].
	Results(ctx context.Context, league models.League, from, to time.Time) ([]*models.GameResult, error)

	// Fixtures returns the slate for a target date.
	Fixtures(ctx context.Context, league models.League, date time.Time) ([]*models.Fixture, error)

	// Name returns the provider's name for logging and metrics.
	Name() string
}

// OddsProvider yields market quotes per fixture.
type OddsProvider interface {
	// Quotes returns the available quotes for a league's slate, keyed by
	// game ID. Fixtures without a priced market are simply absent.
	Quotes(ctx context.Context, league models.League, date time.Time) (map[string]*models.MarketQuote, error)

	// Name returns the provider's name for logging and metrics.
	Name() string
}

// Error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Error represents a failure from a provider operation.
type Error struct {
	Source  string
	Code    string
	Message string
	Err     error
}

func (e Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Source, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Source, e.Code, e.Message)
}

func (e Error) Unwrap() error {
	return e.Err
}

// NewError creates a provider error.
func NewError(source, code, message string, err error) Error {
	return Error{Source: source, Code: code, Message: message, Err: err}
}
