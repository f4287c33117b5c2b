package models

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// GlobalHub is a singleton instance of the Hub
var GlobalHub *Hub
var hubOnce sync.Once

// Hub fans attendance events out to the websocket clients subscribed to
// each organization's feed.
type Hub struct {
	// Registered clients.
	Clients map[*Client]bool

	// Clients grouped by organization code.
	OrgClients map[string]map[*Client]bool

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	mu sync.RWMutex
}

// Client represents one websocket subscription to an organization feed.
type Client struct {
	Hub *Hub

	// The websocket connection.
	Conn *websocket.Conn

	// Buffered channel of outbound events.
	Send chan []byte

	UserID  string
	OrgCode string
}

// FeedEvent is the wire format of attendance feed messages.
type FeedEvent struct {
	Type         string    `json:"type"` // "check-in" or "check-out"
	OrgCode      string    `json:"org_code"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	At           time.Time `json:"at"`
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
		OrgClients: make(map[string]map[*Client]bool),
	}
}

// GetHub returns the singleton instance of the Hub
func GetHub() *Hub {
	hubOnce.Do(func() {
		GlobalHub = NewHub()
		go GlobalHub.Run()
	})
	return GlobalHub
}

// Run processes register/unregister requests. Must run in its own
// goroutine; GetHub starts it.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			if _, exists := h.OrgClients[client.OrgCode]; !exists {
				h.OrgClients[client.OrgCode] = make(map[*Client]bool)
			}
			h.OrgClients[client.OrgCode][client] = true
			h.mu.Unlock()

		case client := <-h.Unregister:
			h.mu.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				if orgClients, exists := h.OrgClients[client.OrgCode]; exists {
					delete(orgClients, client)
					if len(orgClients) == 0 {
						delete(h.OrgClients, client.OrgCode)
					}
				}
				close(client.Send)
			}
			h.mu.Unlock()
		}
	}
}

// PublishEvent serializes an event and sends it to every client
// subscribed to the event's organization. Slow clients are dropped
// rather than blocking the feed.
func (h *Hub) PublishEvent(event FeedEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.OrgClients[event.OrgCode] {
		select {
		case client.Send <- payload:
		default:
			close(client.Send)
			delete(h.Clients, client)
			delete(h.OrgClients[event.OrgCode], client)
		}
	}
}

// SubscriberCount returns the number of clients on an organization feed.
func (h *Hub) SubscriberCount(orgCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.OrgClients[orgCode])
}

// ReadPump drains the connection until it closes. The feed is one-way;
// inbound frames only serve keepalive.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

// WritePump pumps events from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed
	maxMessageSize = 512
)
