// Package websocket streams committed order status changes to browsers.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"marketplace/internal/adapters/out/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

var _ ports.OrderEventPublisher = &Hub{}

// Message is one frame of the feed.
type Message struct {
	Type string                      `json:"type"`
	Data events.StatusChangedMessage `json:"data"`
}

type client struct {
	conn *websocket.Conn
	send chan Message
	// orderID limits the feed to one order when set.
	orderID *kernel.UUID
}

func (c *client) wants(e order.StatusChanged) bool {
	return c.orderID == nil || c.orderID.IsEqual(e.OrderID)
}

// Hub keeps the connected clients and broadcasts to them. Slow clients that
// fill their buffer are dropped.
type Hub struct {
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger

	register   chan *client
	unregister chan *client
	broadcast  chan order.StatusChanged

	mu      sync.RWMutex
	clients map[*client]struct{}

	started atomic.Bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewHub(logger logrus.FieldLogger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger:     logger.WithField("component", "websocket_hub"),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan order.StatusChanged, 256),
		clients:    make(map[*client]struct{}),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Name() string {
	return "websocket_hub"
}

func (h *Hub) Start(ctx context.Context) error {
	if !h.started.CompareAndSwap(false, true) {
		return nil
	}
	ctx, h.cancel = context.WithCancel(ctx)
	go h.run(ctx)
	return nil
}

// Stop disconnects every client.
func (h *Hub) Stop() {
	if h.cancel == nil {
		return
	}
	h.cancel()
	<-h.done
}

func (h *Hub) run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.WithField("client_count", count).Debug("client connected")

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			count := len(h.clients)
			h.mu.Unlock()
			h.logger.WithField("client_count", count).Debug("client disconnected")

		case e := <-h.broadcast:
			msg := Message{Type: "order.status_changed", Data: events.NewStatusChangedMessage(e)}
			h.mu.Lock()
			for c := range h.clients {
				if !c.wants(e) {
					continue
				}
				select {
				case c.send <- msg:
				default:
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish never blocks; events are dropped when the hub is saturated.
func (h *Hub) Publish(_ context.Context, evts ...order.StatusChanged) error {
	for _, e := range evts {
		select {
		case h.broadcast <- e:
		default:
			h.logger.WithField("order_id", e.OrderID.String()).Warn("broadcast channel full, dropping event")
		}
	}
	return nil
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request. An optional order_id query parameter
// narrows the feed to one order. Until Start runs there is nobody to accept
// the client, so the request is refused with 503.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.started.Load() {
		http.Error(w, "feed is not running", http.StatusServiceUnavailable)
		return
	}

	var filter *kernel.UUID
	if raw := r.URL.Query().Get("order_id"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			http.Error(w, "invalid order_id", http.StatusBadRequest)
			return
		}
		filter = &id
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("failed to upgrade to websocket")
		return
	}

	c := &client{conn: conn, send: make(chan Message, sendBuffer), orderID: filter}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).Warn("websocket read failed")
			}
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				h.logger.WithError(err).Error("failed to marshal websocket message")
				continue
			}
			if err = c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
