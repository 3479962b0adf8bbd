package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cdrpl/missions"
)

type WsClient struct {
	conn   *websocket.Conn
	send   chan missions.Event // Buffered channel of outbound messages.
	userId string
	wsHub  *WsHub
}

func (c *WsClient) readPump() {
	defer func() {
		select {
		case c.wsHub.unregisterClient <- c:
		case <-c.wsHub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(WS_MAX_MESSAGE_SIZE)
	c.conn.SetReadDeadline(time.Now().Add(WS_PONG_TIMEOUT))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(WS_PONG_TIMEOUT)); return nil })

	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.wsHub.log.Warn("websocket read", zap.String("user", c.userId), zap.Error(err))
			}
			break
		}
	}
}

func (c *WsClient) writePump() {
	ticker := time.NewTicker(WS_PING_INTERVAL)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(WS_WRITE_TIMOUT))

			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(WS_WRITE_TIMOUT))

			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type directMessage struct {
	userId string
	event  missions.Event
}

// WsHub maintains the set of active clients and pushes events to them.
// A user has at most one connection; a new one replaces the old.
type WsHub struct {
	clients          map[string]*WsClient // Key is the user's ID.
	registerClient   chan *WsClient
	unregisterClient chan *WsClient
	broadcast        chan missions.Event
	direct           chan directMessage
	count            chan chan int
	shutdown         chan struct{}
	done             chan struct{}
	upgrader         websocket.Upgrader
	log              *zap.Logger
}

// Will create a hub accepting upgrades from requests without an Origin
// header (non-browser clients) or from allowOrigin.
func CreateWsHub(allowOrigin string, log *zap.Logger) *WsHub {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  WS_READ_BUFFER_SIZE,
		WriteBufferSize: WS_WRITE_BUFFER_SIZE,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowOrigin
		},
	}

	return &WsHub{
		clients:          make(map[string]*WsClient),
		registerClient:   make(chan *WsClient),
		unregisterClient: make(chan *WsClient),
		broadcast:        make(chan missions.Event),
		direct:           make(chan directMessage),
		count:            make(chan chan int),
		shutdown:         make(chan struct{}),
		done:             make(chan struct{}),
		upgrader:         upgrader,
		log:              log,
	}
}

func (h *WsHub) Run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.registerClient:
			// close current authenticated client if exists
			if current, ok := h.clients[client.userId]; ok {
				close(current.send)
			}

			h.clients[client.userId] = client
			h.log.Debug("websocket connected", zap.String("user", client.userId))

		case client := <-h.unregisterClient:
			if current, ok := h.clients[client.userId]; ok && current == client {
				delete(h.clients, client.userId)
				close(client.send)
				h.log.Debug("websocket closed", zap.String("user", client.userId))
			}

		case msg := <-h.direct:
			if client, ok := h.clients[msg.userId]; ok {
				h.deliver(client, msg.event)
			}

		case event := <-h.broadcast:
			for _, client := range h.clients {
				h.deliver(client, event)
			}

		case reply := <-h.count:
			reply <- len(h.clients)

		case <-h.shutdown:
			for userId, client := range h.clients {
				delete(h.clients, userId)
				close(client.send)
			}

			return
		}
	}
}

// Slow clients are dropped rather than blocking the hub.
func (h *WsHub) deliver(client *WsClient, event missions.Event) {
	select {
	case client.send <- event:

	default:
		close(client.send)
		delete(h.clients, client.userId)
	}
}

// Will push the event to the user's connection if there is one.
func (h *WsHub) Publish(userId string, event missions.Event) {
	select {
	case h.direct <- directMessage{userId: userId, event: event}:
	case <-h.done:
	}
}

func (h *WsHub) Broadcast(event missions.Event) {
	select {
	case h.broadcast <- event:
	case <-h.done:
	}
}

// Number of connected users.
func (h *WsHub) ClientCount() int {
	reply := make(chan int, 1)

	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Will close every connection and stop Run. Safe to call once.
func (h *WsHub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

func (h *WsHub) Connect(w http.ResponseWriter, r *http.Request, userId string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &WsClient{wsHub: h, userId: userId, conn: conn, send: make(chan missions.Event, WS_SEND_BUFFER)}

	select {
	case h.registerClient <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()

	return nil
}
