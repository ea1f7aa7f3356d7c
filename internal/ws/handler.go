package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/tables"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin is checked by middleware before the upgrade
	},
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

// Client is one websocket connection watching and playing a table. Admin
// clients have no session and only receive.
type Client struct {
	conn    *websocket.Conn
	hub     *Hub
	tableID string
	session *tables.Session
	send    chan []byte
}

// Hub keeps the connected clients of every table.
type Hub struct {
	rooms      map[string]map[*Client]bool // tableID -> clients
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToTable sends a message to every client of a table. Clients whose
// buffer is full miss the message.
func (h *Hub) BroadcastToTable(tableID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message for table %s: %v", tableID, err)
		return
	}
	h.broadcastRaw(tableID, data)
}

func (h *Hub) broadcastRaw(tableID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.rooms[tableID] {
		select {
		case client.send <- data:
		default:
			log.Printf("[WS] Client send buffer full for table %s, dropping message", tableID)
		}
	}
}

// RoomSize returns the number of clients connected to a table.
func (h *Hub) RoomSize(tableID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[tableID])
}

// Run processes client registrations until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, exists := h.rooms[client.tableID]; !exists {
				h.rooms[client.tableID] = make(map[*Client]bool)
			}
			h.rooms[client.tableID][client] = true
			size := len(h.rooms[client.tableID])
			h.mu.Unlock()

			log.Printf("[WS] Client connected to table %s (room_size=%d)", client.tableID, size)

			if client.session != nil {
				state := client.session.State()
				client.sendJSON(map[string]interface{}{"type": "table_state", "state": state})
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if room, exists := h.rooms[client.tableID]; exists && room[client] {
				delete(room, client)
				if len(room) == 0 {
					delete(h.rooms, client.tableID)
				}
				close(client.send)
				log.Printf("[WS] Client disconnected from table %s", client.tableID)
			}
			h.mu.Unlock()
		}
	}
}

// WSMessage is an inbound client message.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
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
				log.Printf("[WS] Write error for table %s: %v", c.tableID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("[WS] Ping error for table %s: %v", c.tableID, err)
				return
			}
		}
	}
}

func (c *Client) sendJSON(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("[WS] Error marshaling message for table %s: %v", c.tableID, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("[WS] Dropped message for table %s (buffer full)", c.tableID)
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	c.sendJSON(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
}
