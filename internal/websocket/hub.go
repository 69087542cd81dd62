package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mindgrid-games/mindgrid-web/internal/logger"
	"github.com/mindgrid-games/mindgrid-web/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, implement proper origin checking
		return true
	},
}

// SolveEvent is broadcast to connected clients whenever a puzzle is solved.
type SolveEvent struct {
	Type       string            `json:"type"`
	UID        string            `json:"uid,omitempty"`
	Date       string            `json:"date"`
	Difficulty models.Difficulty `json:"difficulty"`
	Score      int               `json:"score"`
	Streak     int               `json:"streak"`
}

type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	log        *logger.Log
}

type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		log:        logger.New(),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Infof("Client connected. Total: %d", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.log.Infof("Client disconnected. Total: %d", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

// BroadcastSolve fans a solve event out to every connected client.
func (h *Hub) BroadcastSolve(event SolveEvent) {
	event.Type = "solve"
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.WithError(err).Error("Failed to marshal solve event")
		return
	}
	h.broadcast <- payload
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
		// Clients only listen; inbound messages are dropped.
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Error("Failed to upgrade websocket")
		return
	}
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 8)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// RegisterRoutes wires the live-events endpoint onto the router.
func RegisterRoutes(r *mux.Router, hub *Hub) {
	r.HandleFunc("/ws/events", hub.serveWS)
}
