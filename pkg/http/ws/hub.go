package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Hub tracks WebSocket subscribers per game and fans out progress messages.
type Hub struct {
	mu          sync.RWMutex
	connections map[uuid.UUID]*Connection         // connection_id -> connection
	games       map[string]map[uuid.UUID]struct{} // game_id -> connection ids
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[uuid.UUID]*Connection),
		games:       make(map[string]map[uuid.UUID]struct{}),
		logger:      logger.With().Str("component", "ws_hub").Logger(),
	}
}

// Subscribe registers conn for messages about gameID.
func (h *Hub) Subscribe(gameID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn.ID] = conn
	subs, ok := h.games[gameID]
	if !ok {
		subs = make(map[uuid.UUID]struct{})
		h.games[gameID] = subs
	}
	subs[conn.ID] = struct{}{}
	h.logger.Debug().Str("game_id", gameID).Str("connection_id", conn.ID.String()).Msg("subscriber registered")
}

// Unsubscribe removes a connection from every game and closes it.
func (h *Hub) Unsubscribe(connID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[connID]; exists {
		conn.Close()
		delete(h.connections, connID)
	}

	for gameID, subs := range h.games {
		delete(subs, connID)
		if len(subs) == 0 {
			delete(h.games, gameID)
		}
	}
}

// Subscribers reports how many connections follow gameID.
func (h *Hub) Subscribers(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.games[gameID])
}

// BroadcastToGame sends a message to every subscriber of a game and returns
// the first delivery error.
func (h *Hub) BroadcastToGame(gameID string, msg Message) error {
	h.mu.RLock()
	targets := make([]*Connection, 0, len(h.games[gameID]))
	for connID := range h.games[gameID] {
		if conn, ok := h.connections[connID]; ok {
			targets = append(targets, conn)
		}
	}
	h.mu.RUnlock()

	var firstErr error
	for _, conn := range targets {
		if err := conn.Send(msg); err != nil && firstErr == nil {
			firstErr = err
			h.logger.Warn().Err(err).Str("game_id", gameID).Str("connection_id", conn.ID.String()).Msg("broadcast send failed")
		}
	}
	return firstErr
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	ID     uuid.UUID
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	id := uuid.New()
	return &Connection{
		ID:     id,
		conn:   conn,
		sendCh: make(chan Message, 64),
		logger: logger.With().Str("connection_id", id.String()).Logger(),
	}
}

// Send queues a message for delivery.
func (c *Connection) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.sendCh <- msg:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close stops the send queue; WritePump flushes a close frame and releases the socket.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
}

// WritePump sends messages from the send queue and keeps the peer alive with pings.
func (c *Connection) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.sendCh:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn().Err(err).Msg("write error")
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump receives messages and calls the handler until the peer goes away.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("read error")
			}
			break
		}

		if err := handler(msg); err != nil {
			c.logger.Warn().Err(err).Msg("message handler error")
		}
	}
}

var (
	ErrConnectionClosed = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull    = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
