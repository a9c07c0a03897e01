package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/leagueconsole/go/internal/console"
	"github.com/rs/zerolog/log"
)

// MessageTypeTable marks a pushed table re-render
const MessageTypeTable = "table"

// TableMessage is what open console pages receive when a table changes
type TableMessage struct {
	Type     string           `json:"type"`
	Resource console.Resource `json:"resource"`
	Columns  []string         `json:"columns"`
	Rows     []console.Row    `json:"rows"`
}

// Hub keeps the websocket connections of open console pages and pushes
// every refreshed table to all of them.
type Hub struct {
	connections map[*Connection]bool
	mu          sync.RWMutex

	upgrader websocket.Upgrader
	config   ConnectionConfig
	clock    clockwork.Clock

	broadcastCh chan TableMessage
}

// Connection is one open console page
type Connection struct {
	ID          string
	Username    string
	Conn        *websocket.Conn
	Send        chan []byte
	Hub         *Hub
	ConnectedAt time.Time
}

// ConnectionConfig holds configuration for WebSocket connections. A nil
// Clock means the real clock.
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
	Clock           clockwork.Clock
}

// DefaultConnectionConfig returns default WebSocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1024,
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		SendBufferSize:  64,
		Clock:           clockwork.NewRealClock(),
	}
}

// Stats describes the hub's open connections
type Stats struct {
	TotalConnections int            `json:"total_connections"`
	Users            map[string]int `json:"users"`
}

func NewHub(config ConnectionConfig) *Hub {
	clock := config.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Hub{
		connections: make(map[*Connection]bool),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		config:      config,
		clock:       clock,
		broadcastCh: make(chan TableMessage, 256),
	}
}

// Start processes broadcasts until ctx is done
func (h *Hub) Start(ctx context.Context) {
	log.Info().Msg("websocket hub started")

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			log.Info().Msg("websocket hub shutting down")
			return
		case message := <-h.broadcastCh:
			h.handleBroadcast(message)
		}
	}
}

// TableUpdated implements console.TableListener.
func (h *Hub) TableUpdated(table console.Table) {
	message := TableMessage{
		Type:     MessageTypeTable,
		Resource: table.Resource,
		Columns:  table.Columns,
		Rows:     table.Rows,
	}
	select {
	case h.broadcastCh <- message:
	default:
		log.Warn().Str("resource", string(table.Resource)).Msg("broadcast channel full, dropping table")
	}
}

// Upgrade turns the request into a console websocket for username
// (empty for anonymous pages).
func (h *Hub) Upgrade(w http.ResponseWriter, r *http.Request, username string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to upgrade connection: %w", err)
	}

	c := &Connection{
		ID:          uuid.New().String(),
		Username:    username,
		Conn:        conn,
		Send:        make(chan []byte, h.config.SendBufferSize),
		Hub:         h,
		ConnectedAt: h.clock.Now(),
	}

	h.mu.Lock()
	h.connections[c] = true
	h.mu.Unlock()

	go c.writePump()
	go c.readPump()

	log.Info().Str("connection_id", c.ID).Str("username", username).Msg("console page connected")
	return nil
}

// unregister is the only place Send is closed. It takes the write lock, so
// it never runs while handleBroadcast is sending.
func (h *Hub) unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.connections[c] {
		return
	}
	delete(h.connections, c)
	close(c.Send)
	log.Debug().Str("connection_id", c.ID).Msg("console page disconnected")
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.connections {
		delete(h.connections, c)
		close(c.Send)
	}
}

func (h *Hub) handleBroadcast(message TableMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal table for broadcast")
		return
	}

	var slow []*Connection
	h.mu.RLock()
	sent := len(h.connections)
	for c := range h.connections {
		select {
		case c.Send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Warn().Str("connection_id", c.ID).Msg("send buffer full, closing console page")
		h.unregister(c)
		c.Conn.Close()
	}

	log.Debug().
		Str("resource", string(message.Resource)).
		Int("connections", sent-len(slow)).
		Msg("table broadcasted")
}

// Stats returns statistics about active connections
func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()

	stats := Stats{TotalConnections: len(h.connections), Users: make(map[string]int)}
	for c := range h.connections {
		name := c.Username
		if name == "" {
			name = "anonymous"
		}
		stats.Users[name]++
	}
	return stats
}

func (c *Connection) deadline(d time.Duration) time.Time {
	return c.Hub.clock.Now().Add(d)
}

// writePump is the only writer on the socket: queued tables and pings.
func (c *Connection) writePump() {
	ticker := c.Hub.clock.NewTicker(c.Hub.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
		c.Hub.unregister(c)
	}()

	for {
		var (
			kind    = websocket.PingMessage
			payload []byte
		)
		select {
		case message, ok := <-c.Send:
			if !ok {
				c.Conn.WriteControl(websocket.CloseMessage, nil, c.deadline(c.Hub.config.WriteTimeout))
				return
			}
			kind, payload = websocket.TextMessage, message
		case <-ticker.Chan():
		}

		c.Conn.SetWriteDeadline(c.deadline(c.Hub.config.WriteTimeout))
		if err := c.Conn.WriteMessage(kind, payload); err != nil {
			log.Debug().Err(err).Str("connection_id", c.ID).Msg("websocket write failed")
			return
		}
	}
}

// readPump only keeps the read deadline alive; pages never send commands.
func (c *Connection) readPump() {
	defer func() {
		c.Hub.unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.Hub.config.MaxMessageSize)
	extend := func(string) error {
		return c.Conn.SetReadDeadline(c.deadline(c.Hub.config.ReadTimeout))
	}
	extend("")
	c.Conn.SetPongHandler(extend)

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("connection_id", c.ID).Msg("unexpected websocket close")
			}
			return
		}
		extend("")
	}
}
