// Package websocket pushes per-user session and cart updates to connected
// clients.
package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ikkim/storefront-backend/pkg/logger"
)

const (
	sendBufferSize       = 64
	maxMessagesPerSecond = 10
)

// Message types pushed to clients.
const (
	TypeSession = "session"
	TypeCart    = "cart"
	TypePong    = "pong"
)

// Message is the envelope of every pushed frame.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ClientMessage is a frame received from a client. "sync" asks for the
// current snapshot, "ping" for a pong.
type ClientMessage struct {
	Type string `json:"type"`
}

// Client is one connection. A user may hold several (one per device).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID string
	Send   chan []byte

	// OnSync pushes the current snapshot; set by whoever wires the feed.
	OnSync func(*Client)

	mu            sync.Mutex
	closed        bool
	unsubscribers []func()

	rateMu        sync.Mutex
	messageCount  int
	lastResetTime time.Time
}

func NewClient(hub *Hub, conn *Conn, userID string) *Client {
	return &Client{
		Hub:    hub,
		Conn:   conn,
		UserID: userID,
		Send:   make(chan []byte, sendBufferSize),
	}
}

// Track registers an unsubscribe function run when the client goes away.
func (c *Client) Track(unsubscribe func()) {
	c.mu.Lock()
	closed := c.closed
	if !closed {
		c.unsubscribers = append(c.unsubscribers, unsubscribe)
	}
	c.mu.Unlock()

	if closed {
		unsubscribe()
	}
}

// Push queues msg without blocking. A full buffer disconnects the client.
func (c *Client) Push(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal message", err, map[string]interface{}{
			"type": msg.Type,
		})
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.Send <- data:
	default:
		logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
			"user_id": c.UserID,
		})
		go c.Hub.Unregister(c)
	}
}

// close runs the unsubscribers and closes Send exactly once.
func (c *Client) close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsubscribers := c.unsubscribers
	c.unsubscribers = nil
	close(c.Send)
	c.mu.Unlock()

	for _, unsubscribe := range unsubscribers {
		unsubscribe()
	}
}

// Hub tracks live clients per user.
type Hub struct {
	clients    map[string][]*Client
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // closed when Run returns
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			sessions := len(h.clients[client.UserID])
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": sessions,
			})

		case client := <-h.unregister:
			h.remove(client)

		case <-ctx.Done():
			h.mu.Lock()
			for userID, list := range h.clients {
				for _, client := range list {
					client.close()
				}
				delete(h.clients, userID)
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	remaining := 0
	if list, ok := h.clients[client.UserID]; ok {
		kept := make([]*Client, 0, len(list))
		for _, c := range list {
			if c != client {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(h.clients, client.UserID)
		} else {
			h.clients[client.UserID] = kept
		}
		remaining = len(kept)
	}
	h.mu.Unlock()

	client.close()
	logger.Info("WebSocket client unregistered", map[string]interface{}{
		"user_id":            client.UserID,
		"remaining_sessions": remaining,
	})
}

// Register queues client for the hub. After the hub stopped the client is
// closed right away.
func (h *Hub) Register(client *Client) {
	select {
	case <-h.done:
		client.close()
		return
	default:
	}
	select {
	case h.register <- client:
	case <-h.done:
		client.close()
	}
}

// Unregister queues client for removal. It returns immediately once the
// hub has stopped, since Run already closed every client.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// SendToUser pushes msg to every connection of userID.
func (h *Hub) SendToUser(userID string, msg Message) {
	h.mu.RLock()
	list := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, client := range list {
		client.Push(msg)
	}
}

// DisconnectUser closes every connection of userID.
func (h *Hub) DisconnectUser(userID string) {
	h.mu.RLock()
	list := append([]*Client(nil), h.clients[userID]...)
	h.mu.RUnlock()

	for _, client := range list {
		h.Unregister(client)
	}
}

func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[userID]
	return ok
}

// HandleClientMessage answers one client frame, rate limited per client.
func (h *Hub) HandleClientMessage(client *Client, message []byte) {
	client.rateMu.Lock()
	now := time.Now()
	if now.Sub(client.lastResetTime) >= time.Second {
		client.messageCount = 0
		client.lastResetTime = now
	}
	client.messageCount++
	count := client.messageCount
	client.rateMu.Unlock()

	if count > maxMessagesPerSecond {
		logger.Warn("Rate limit exceeded", map[string]interface{}{
			"user_id": client.UserID,
			"count":   count,
		})
		return
	}

	var msg ClientMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		logger.Warn("Failed to parse client message", map[string]interface{}{
			"user_id": client.UserID,
			"error":   err.Error(),
		})
		return
	}

	switch msg.Type {
	case "ping":
		client.Push(Message{Type: TypePong})
	case "sync":
		if client.OnSync != nil {
			client.OnSync(client)
		}
	}
}
