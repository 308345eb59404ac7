package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// WebSocketHub fans live feed updates out to connected dashboards. Topics
// are tournament ids; a dashboard subscribes to the major its competition
// is tied to and receives the normalized player list on every refresh.
type WebSocketHub struct {
	clients    map[*WSClient]bool
	register   chan *WSClient
	unregister chan *WSClient
	logger     *logrus.Logger
	mu         sync.RWMutex
}

// WSClient is one connected dashboard.
type WSClient struct {
	hub    *WebSocketHub
	conn   *websocket.Conn
	send   chan []byte
	topics map[string]bool
	mu     sync.RWMutex
}

// WSMessage is the envelope pushed to subscribers.
type WSMessage struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// wsSubscription is the only inbound message clients send.
type wsSubscription struct {
	Action string   `json:"action"` // "subscribe" or "unsubscribe"
	Topics []string `json:"topics"`
}

func NewWebSocketHub(logger *logrus.Logger) *WebSocketHub {
	return &WebSocketHub{
		clients:    make(map[*WSClient]bool),
		register:   make(chan *WSClient),
		unregister: make(chan *WSClient),
		logger:     logger,
	}
}

// Run processes register/unregister events. Call once, in its own goroutine.
func (h *WebSocketHub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("WebSocket client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("WebSocket client unregistered")
		}
	}
}

// BroadcastToTopic pushes data to every client subscribed to the topic.
// Slow clients are skipped rather than blocking the broadcast.
func (h *WebSocketHub) BroadcastToTopic(topic, messageType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	message, err := json.Marshal(WSMessage{
		Type:      messageType,
		Topic:     topic,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		if !client.subscribedTo(topic) {
			continue
		}
		select {
		case client.send <- message:
		default:
		}
	}

	return nil
}

// NewClient attaches a websocket connection to the hub and starts its
// read/write pumps.
func (h *WebSocketHub) NewClient(conn *websocket.Conn) *WSClient {
	client := &WSClient{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 64),
		topics: make(map[string]bool),
	}
	h.register <- client
	go client.writePump()
	go client.readPump()
	return client
}

func (c *WSClient) subscribedTo(topic string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.topics[topic]
}

func (c *WSClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1024)

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var sub wsSubscription
		if err := json.Unmarshal(raw, &sub); err != nil {
			c.hub.logger.Debugf("Ignoring unparseable websocket message: %v", err)
			continue
		}

		c.mu.Lock()
		for _, topic := range sub.Topics {
			switch sub.Action {
			case "subscribe":
				c.topics[topic] = true
			case "unsubscribe":
				delete(c.topics, topic)
			}
		}
		c.mu.Unlock()
	}
}

func (c *WSClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
