// Package stream pushes live evaluation results to websocket subscribers.
// Ground-station dashboards connect to the monitor's /stream endpoint and
// receive one JSON update per evaluated tick.
package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skyfoundry/airspace-sentinel/core"
	"github.com/skyfoundry/airspace-sentinel/internal/logging"
)

// Update is the envelope broadcast to every connected client.
type Update struct {
	DroneID string                `json:"drone_id"`
	Time    time.Time             `json:"time"`
	Result  core.EvaluationResult `json:"result"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Per-client send buffer. A client that falls this far behind is
	// disconnected rather than allowed to stall the broadcast loop.
	sendBuffer = 64
)

// Hub fans evaluation results out to connected websocket clients.
type Hub struct {
	log      logging.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool

	// onCountChange, when set, is called with the new client count after
	// every connect and disconnect.
	onCountChange func(int)
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub constructs a hub. onCountChange may be nil.
func NewHub(log logging.Logger, onCountChange func(int)) *Hub {
	if log == nil {
		log = logging.Noop()
	}
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The monitor serves operator dashboards on the local
			// network; origin enforcement belongs to the reverse proxy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients:       make(map[*client]struct{}),
		onCountChange: onCountChange,
	}
}

// Handler upgrades an HTTP request to a websocket subscription.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.log.Warn(r.Context(), "websocket upgrade failed",
				logging.String("remote", r.RemoteAddr),
				logging.String("error", err.Error()))
			return
		}

		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		if !h.add(c) {
			conn.Close()
			return
		}
		h.log.Info(r.Context(), "stream client connected",
			logging.String("remote", r.RemoteAddr),
			logging.Int("clients", h.Count()))

		go h.writePump(c)
		go h.readPump(c)
	})
}

// Broadcast serialises the update once and queues it to every client.
// Clients whose buffers are full are dropped.
func (h *Hub) Broadcast(u Update) {
	payload, err := json.Marshal(u)
	if err != nil {
		h.log.Error(context.Background(), "marshal stream update",
			logging.String("error", err.Error()))
		return
	}

	h.mu.Lock()
	var stale []*client
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			stale = append(stale, c)
		}
	}
	h.mu.Unlock()

	for _, c := range stale {
		h.remove(c)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects future connections.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.remove(c)
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.notifyCount(count)
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, present := h.clients[c]
	if present {
		delete(h.clients, c)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if !present {
		return
	}
	close(c.send)
	c.conn.Close()
	h.notifyCount(count)
}

func (h *Hub) notifyCount(count int) {
	if h.onCountChange != nil {
		h.onCountChange(count)
	}
}

// writePump drains the client's send queue and keeps the connection
// alive with periodic pings.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		h.remove(c)
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
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

// readPump discards inbound frames; its job is to notice disconnects
// and service pong control frames.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
