package ws

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/billiards/internal/auth"
	"github.com/playmatatu/billiards/internal/tables"
)

// PointerData is the payload of mouse_down and mouse_up, in table
// coordinates.
type PointerData struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// HandleWebSocket upgrades a request for /tables/:id/ws. The token query
// parameter must be a table token for the same table.
func HandleWebSocket(hub *Hub, manager *tables.Manager, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tableID := c.Param("id")
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}

		granted, err := auth.ParseTableToken(jwtSecret, token)
		if err != nil || granted != tableID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid table token"})
			return
		}

		session, err := manager.Get(tableID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "table not found"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			hub:     hub,
			tableID: tableID,
			session: session,
			send:    make(chan []byte, sendBuffer),
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// HandleAdminEvents upgrades an admin request to a read-only stream of the
// events of every table.
func HandleAdminEvents(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			hub:     hub,
			tableID: AdminRoom,
			send:    make(chan []byte, sendBuffer),
		}

		hub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// readPump reads client messages until the connection fails.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for table %s: %v", c.tableID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("Invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg WSMessage) {
	if c.session == nil {
		c.sendError("Read-only connection")
		return
	}
	if c.session.Stopped() {
		c.sendError("Table is closed")
		return
	}

	switch msg.Type {
	case "mouse_down", "mouse_up":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil || data.X == nil || data.Y == nil {
			c.sendError("Invalid pointer data")
			return
		}
		var err error
		if msg.Type == "mouse_down" {
			err = c.session.Press(*data.X, *data.Y)
		} else {
			err = c.session.Release(*data.X, *data.Y)
		}
		if errors.Is(err, tables.ErrInputQueueFull) {
			c.sendError("Too many inputs, slow down")
		}

	case "get_state":
		c.sendJSON(map[string]interface{}{"type": "table_state", "state": c.session.State()})

	default:
		c.sendError("Unknown message type")
	}
}
