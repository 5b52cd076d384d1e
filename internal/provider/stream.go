package provider

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/yourusername/slate-edge/internal/models"
)

// FinalHandler is called for every completed game pushed on the stream.
type FinalHandler func(result *models.GameResult) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// streamMessage is the provider's wire shape for a live-score push.
type streamMessage struct {
	Op     string       `json:"op"`
	League string       `json:"league,omitempty"`
	Event  *streamEvent `json:"event,omitempty"`
}

type streamEvent struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Home      string `json:"home"`
	Away      string `json:"away"`
	HomeScore *int   `json:"homeScore"`
	AwayScore *int   `json:"awayScore"`
	Final     bool   `json:"final"`
}

// subscribeMessage subscribes to final-score pushes for a set of leagues.
type subscribeMessage struct {
	Op      string   `json:"op"`
	APIKey  string   `json:"apiKey,omitempty"`
	Leagues []string `json:"leagues"`
	Finals  bool     `json:"finalsOnly"`
}

// StreamClient maintains a WebSocket connection to the live-score feed
// and dispatches completed finals to registered handlers.
type StreamClient struct {
	url             string
	apiKey          string
	reconnectConfig ReconnectConfig
	logger          *logrus.Logger

	mu              sync.RWMutex
	conn            *websocket.Conn
	isConnected     bool
	handlers        []FinalHandler
	lastMessageTime time.Time
}

// NewStreamClient creates a new live-score stream client.
func NewStreamClient(streamURL, apiKey string, logger *logrus.Logger) *StreamClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &StreamClient{
		url:             streamURL,
		apiKey:          apiKey,
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
		handlers:        make([]FinalHandler, 0),
	}
}

// Connect establishes the WebSocket connection and starts the read loop.
func (s *StreamClient) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isConnected {
		return fmt.Errorf("already connected")
	}

	s.logger.WithField("url", s.url).Info("Connecting to live-score stream")

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, s.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to stream: %w", err)
	}

	s.conn = conn
	s.isConnected = true
	s.lastMessageTime = time.Now()

	go s.readMessages()

	return nil
}

// Subscribe requests final-score pushes for the given leagues.
func (s *StreamClient) Subscribe(leagues []models.League) error {
	names := make([]string, len(leagues))
	for i, l := range leagues {
		names[i] = l.String()
	}
	return s.sendMessage(subscribeMessage{
		Op:      "subscribe",
		APIKey:  s.apiKey,
		Leagues: names,
		Finals:  true,
	})
}

// AddHandler registers a handler for completed finals.
func (s *StreamClient) AddHandler(handler FinalHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, handler)
}

// readMessages reads messages from the WebSocket connection.
func (s *StreamClient) readMessages() {
	defer s.Close()

	for {
		s.mu.RLock()
		conn := s.conn
		s.mu.RUnlock()
		if conn == nil {
			return
		}

		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			s.logger.WithError(err).Warn("Stream read failed")
			s.mu.Lock()
			s.isConnected = false
			s.mu.Unlock()
			return
		}

		s.mu.Lock()
		s.lastMessageTime = time.Now()
		handlers := s.handlers
		s.mu.Unlock()

		result, ok := normalizeStreamFinal(msg)
		if !ok {
			continue
		}
		for _, handler := range handlers {
			if err := handler(result); err != nil {
				s.logger.WithError(err).WithField("game_id", result.GameID).Warn("Final handler failed")
			}
		}
	}
}

// normalizeStreamFinal converts a stream push into a GameResult. Only
// completed finals with both scores qualify.
func normalizeStreamFinal(msg streamMessage) (*models.GameResult, bool) {
	if msg.Op != "final" || msg.Event == nil || !msg.Event.Final {
		return nil, false
	}
	league, err := models.ParseLeague(msg.League)
	if err != nil {
		return nil, false
	}
	ev := msg.Event
	if ev.ID == "" || ev.Home == "" || ev.Away == "" || ev.HomeScore == nil || ev.AwayScore == nil {
		return nil, false
	}
	return &models.GameResult{
		GameID:      ev.ID,
		League:      league,
		Date:        parseEventDate(ev.Date),
		HomeTeamKey: ev.Home,
		AwayTeamKey: ev.Away,
		HomeScore:   ev.HomeScore,
		AwayScore:   ev.AwayScore,
		Completed:   true,
	}, true
}

// RunWithReconnect keeps the stream connected until the context is
// cancelled, backing off between attempts.
func (s *StreamClient) RunWithReconnect(ctx context.Context, leagues []models.League) {
	backoff := s.reconnectConfig.InitialBackoff

	for attempt := 0; s.reconnectConfig.MaxRetries <= 0 || attempt < s.reconnectConfig.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return
		}

		if err := s.Connect(ctx); err != nil {
			s.logger.WithError(err).Warnf("Stream connect attempt %d failed", attempt+1)
		} else {
			attempt = 0
			backoff = s.reconnectConfig.InitialBackoff
			if err := s.Subscribe(leagues); err != nil {
				s.logger.WithError(err).Warn("Stream subscribe failed")
			}
			s.waitForDisconnect(ctx)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * s.reconnectConfig.BackoffMultiplier)
		if backoff > s.reconnectConfig.MaxBackoff {
			backoff = s.reconnectConfig.MaxBackoff
		}
	}

	s.logger.Error("Stream reconnect attempts exhausted")
}

func (s *StreamClient) waitForDisconnect(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			if !s.IsConnected() {
				return
			}
		}
	}
}

func (s *StreamClient) sendMessage(msg interface{}) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.isConnected || s.conn == nil {
		return fmt.Errorf("not connected")
	}
	return s.conn.WriteJSON(msg)
}

// IsConnected returns whether the stream is connected.
func (s *StreamClient) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isConnected
}

// LastMessageTime returns the time of the last received message.
func (s *StreamClient) LastMessageTime() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTime
}

// Close terminates the connection.
func (s *StreamClient) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = s.conn.Close()
		s.conn = nil
	}
	s.isConnected = false
}
