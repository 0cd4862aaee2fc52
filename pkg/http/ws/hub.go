package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub manages WebSocket connections and broadcasts messages to battle participants.
// Participants are keyed by their string id so human users and the reserved AI
// id share one namespace, though the AI never holds a connection.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*Connection // participant_id -> connection
	battles     map[string][]string    // battle_id -> []participant_id
	logger      zerolog.Logger
}

// NewHub creates a new WebSocket hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		battles:     make(map[string][]string),
		logger:      logger,
	}
}

// RegisterConnection adds a connection for a participant.
func (h *Hub) RegisterConnection(participantID string, conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// Close existing connection if any
	if old, exists := h.connections[participantID]; exists {
		old.Close()
	}

	h.connections[participantID] = conn
	h.logger.Info().Str("participant_id", participantID).Msg("connection registered")
}

// UnregisterConnection removes a connection.
func (h *Hub) UnregisterConnection(participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[participantID]; exists {
		conn.Close()
		delete(h.connections, participantID)
		h.logger.Info().Str("participant_id", participantID).Msg("connection unregistered")
	}

	// Remove from all battles
	for battleID, ids := range h.battles {
		for i, id := range ids {
			if id == participantID {
				h.battles[battleID] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
	}
}

// JoinBattle associates a participant with a battle for targeted broadcasts.
func (h *Hub) JoinBattle(battleID, participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := h.battles[battleID]
	for _, id := range ids {
		if id == participantID {
			return // already joined
		}
	}
	h.battles[battleID] = append(ids, participantID)
}

// LeaveBattle removes a participant from a battle.
func (h *Hub) LeaveBattle(battleID, participantID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ids := h.battles[battleID]
	for i, id := range ids {
		if id == participantID {
			h.battles[battleID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
}

// BroadcastToBattle sends a message to every connected participant of a battle.
// Participants without a live connection (the AI opponent, disconnected
// humans) are skipped silently.
func (h *Hub) BroadcastToBattle(battleID string, msg Message) error {
	h.mu.RLock()
	ids := h.battles[battleID]
	h.mu.RUnlock()

	var firstErr error
	for _, id := range ids {
		if err := h.SendToParticipant(id, msg); err != nil && err != ErrConnectionNotFound && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SendToParticipant delivers a message to a specific participant.
func (h *Hub) SendToParticipant(participantID string, msg Message) error {
	h.mu.RLock()
	conn, exists := h.connections[participantID]
	h.mu.RUnlock()

	if !exists {
		return ErrConnectionNotFound
	}

	return conn.Send(msg)
}

// Connection represents a WebSocket connection with send queue.
type Connection struct {
	conn   *websocket.Conn
	sendCh chan Message
	mu     sync.Mutex
	closed bool
	logger zerolog.Logger
}

// NewConnection wraps a WebSocket connection.
func NewConnection(conn *websocket.Conn, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:   conn,
		sendCh: make(chan Message, 256),
		logger: logger,
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

// Close shuts down the connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.closed = true
	close(c.sendCh)
	c.conn.Close()
}

// WritePump sends messages from the send queue.
func (c *Connection) WritePump() {
	defer c.conn.Close()

	for msg := range c.sendCh {
		if err := c.conn.WriteJSON(msg); err != nil {
			c.logger.Warn().Err(err).Msg("write error")
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// ReadPump receives messages and calls the handler.
func (c *Connection) ReadPump(handler func(Message) error) {
	defer c.conn.Close()

	// Set read deadline to 60 seconds, extend on pong
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
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
	ErrConnectionNotFound = &Error{Code: "connection_not_found", Message: "Participant connection not found"}
	ErrConnectionClosed   = &Error{Code: "connection_closed", Message: "Connection is closed"}
	ErrSendQueueFull      = &Error{Code: "send_queue_full", Message: "Send queue is full"}
)

type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
