package api

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/AngelaEmileJose/KNU-Link/internal/pkg/realtime"
)

// RealtimeClient subscribes to the change feed over WebSocket. It
// implements realtime.Subscriber, so the controllers run unchanged against
// a remote backend or an in-process hub.
type RealtimeClient struct {
	baseURL string
	dialer  *websocket.Dialer
	logger  zerolog.Logger
}

// NewRealtimeClient creates a subscriber for the API at baseURL. The
// http/https scheme is translated to ws/wss at dial time.
func NewRealtimeClient(baseURL string, logger zerolog.Logger) *RealtimeClient {
	return &RealtimeClient{
		baseURL: baseURL,
		dialer:  websocket.DefaultDialer,
		logger:  logger.With().Str("component", "realtime-client").Logger(),
	}
}

// Subscribe implements realtime.Subscriber. Each subscription dials its
// own connection; the server applies the table, operation, and filter
// narrowing, so everything read off the socket is already matched.
func (r *RealtimeClient) Subscribe(table string, ops []realtime.Operation, filter *realtime.Filter) (realtime.Subscription, error) {
	if table == "" {
		return nil, fmt.Errorf("realtime: table is required")
	}

	endpoint, err := r.endpointURL(table, ops, filter)
	if err != nil {
		return nil, err
	}

	conn, _, err := r.dialer.Dial(endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("realtime: failed to dial %s: %w", endpoint, err)
	}

	sub := &wsSubscription{
		conn:   conn,
		ch:     make(chan realtime.Event, 64),
		logger: r.logger,
	}
	go sub.readLoop()
	return sub, nil
}

func (r *RealtimeClient) endpointURL(table string, ops []realtime.Operation, filter *realtime.Filter) (string, error) {
	u, err := url.Parse(r.baseURL)
	if err != nil {
		return "", fmt.Errorf("realtime: invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/v1/realtime"

	query := url.Values{}
	query.Set("table", table)
	if len(ops) > 0 {
		names := make([]string, len(ops))
		for i, op := range ops {
			names[i] = string(op)
		}
		query.Set("events", strings.Join(names, ","))
	}
	if filter != nil {
		query.Set("filter", fmt.Sprintf("%s=eq.%s", filter.Column, filter.Value))
	}
	u.RawQuery = query.Encode()

	return u.String(), nil
}

type wsSubscription struct {
	conn   *websocket.Conn
	ch     chan realtime.Event
	once   sync.Once
	closed bool
	mu     sync.Mutex
	logger zerolog.Logger
}

// readLoop decodes events off the socket until the connection drops. The
// events channel closes when the loop exits, so consumers ranging over it
// terminate cleanly.
func (s *wsSubscription) readLoop() {
	defer close(s.ch)
	for {
		var event realtime.Event
		if err := s.conn.ReadJSON(&event); err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn().Err(err).Msg("Realtime connection dropped")
			}
			return
		}
		s.ch <- event
	}
}

// Events implements realtime.Subscription.
func (s *wsSubscription) Events() <-chan realtime.Event {
	return s.ch
}

// Close implements realtime.Subscription. Safe to call more than once.
func (s *wsSubscription) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		// Best effort close handshake before dropping the connection.
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = s.conn.Close()
	})
}
