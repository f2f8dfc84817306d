package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/Casiics/MagiCore/internal/game/rules"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 1024
)

// Spectator message types.
const (
	MessageEvent         = "event"
	MessageMatchFinished = "match_finished"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage is the JSON frame sent to spectators.
type WSMessage struct {
	Type    string `json:"type"`
	MatchID string `json:"match_id"`
	Data    any    `json:"data,omitempty"`
}

type client struct {
	conn    *websocket.Conn
	send    chan []byte
	matchID string
}

// Hub fans match events out to websocket spectators. Spectators connect to
// /ws/matches/{id} and only receive frames of that match.
type Hub struct {
	logger  *zap.Logger
	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		logger:  logger,
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the HTTP routes of the hub.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws/matches/{id}", h)
	return mux
}

// ServeHTTP upgrades a spectator connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	matchID := r.PathValue("id")
	if matchID == "" {
		http.Error(w, "missing match id", http.StatusBadRequest)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), matchID: matchID}
	h.register(c)

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("spectator connected", zap.String("match_id", c.matchID))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("spectator disconnected", zap.String("match_id", c.matchID))
	}
}

// Broadcast sends a message to every spectator of matchID. A spectator whose
// buffer is full is disconnected.
func (h *Hub) Broadcast(matchID, msgType string, data any) {
	payload, err := json.Marshal(WSMessage{Type: msgType, MatchID: matchID, Data: data})
	if err != nil {
		h.logger.Error("failed to marshal spectator message", zap.String("type", msgType), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.matchID != matchID {
			continue
		}
		select {
		case c.send <- payload:
		default:
			delete(h.clients, c)
			close(c.send)
			h.logger.Warn("dropping slow spectator", zap.String("match_id", matchID))
		}
	}
}

// ClientCount returns the number of spectators of matchID.
func (h *Hub) ClientCount(matchID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for c := range h.clients {
		if c.matchID == matchID {
			n++
		}
	}
	return n
}

// Close disconnects every spectator.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// Sink returns a rules.Sink that broadcasts the events of one match.
func (h *Hub) Sink(matchID string) rules.Sink {
	return matchSink{hub: h, matchID: matchID}
}

type matchSink struct {
	hub     *Hub
	matchID string
}

func (s matchSink) Publish(event rules.Event) {
	s.hub.Broadcast(s.matchID, MessageEvent, event)
}

// readPump discards spectator input and notices disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("websocket read error", zap.Error(err))
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
