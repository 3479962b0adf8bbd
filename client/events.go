package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

// Subscription receives events pushed by the server until closed.
type Subscription struct {
	conn    *websocket.Conn
	events  chan missions.Event
	closing chan struct{}
	once    sync.Once
	log     *zap.Logger
}

// Subscribe opens the realtime channel. Handshake failures follow the same
// contract as every other call.
func (c *Client) Subscribe(ctx context.Context, s *Session) missions.Result[*Subscription, missions.ErrorCode] {
	r := request{op: "subscribe", method: http.MethodGet, path: "/ws", session: s}

	header := http.Header{}
	if cookie := s.cookieHeader(); cookie != "" {
		header.Set("Cookie", cookie)
	}

	conn, res, err := websocket.DefaultDialer.DialContext(ctx, wsURL(c.endpoint(r.path, nil)), header)
	if err != nil {
		if res == nil {
			c.networkError(r, err)
			return missions.Err[*Subscription](missions.CodeNetwork)
		}
		defer res.Body.Close()

		var apiErr missions.ApiError
		if err := json.NewDecoder(res.Body).Decode(&apiErr); err != nil {
			c.networkError(r, err)
			return missions.Err[*Subscription](missions.CodeNetwork)
		}

		c.log.Warn("subscribe failed", zap.String("message", apiErr.Message), zap.Int("code", int(apiErr.Code)))

		return missions.Err[*Subscription](apiErr.Code)
	}

	sub := &Subscription{
		conn:    conn,
		events:  make(chan missions.Event),
		closing: make(chan struct{}),
		log:     c.log,
	}
	go sub.readPump()

	return missions.Ok[*Subscription, missions.ErrorCode](sub)
}

func wsURL(u string) string {
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}

	return u
}

// Events is closed when the connection ends.
func (s *Subscription) Events() <-chan missions.Event {
	return s.events
}

func (s *Subscription) readPump() {
	defer close(s.events)

	for {
		var ev missions.Event
		if err := s.conn.ReadJSON(&ev); err != nil {
			select {
			case <-s.closing:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					s.log.Warn("subscription ended", zap.Error(err))
				}
			}
			return
		}

		select {
		case s.events <- ev:
		case <-s.closing:
			return
		}
	}
}

// Close ends the subscription and waits for the reader to stop.
func (s *Subscription) Close() error {
	s.once.Do(func() { close(s.closing) })

	err := s.conn.Close()
	for range s.events {
	}

	if errors.Is(err, websocket.ErrCloseSent) {
		return nil
	}

	return err
}
