package restapi

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"inft_dashboard/internal/app/port"
	"inft_dashboard/internal/domain/entity"
	"inft_dashboard/internal/infrastructure/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 16
	publishBuffer  = 256
)

// SnapshotMessage is what a dashboard socket receives.
type SnapshotMessage struct {
	Type    string                   `json:"type"`
	Address string                   `json:"address"`
	Data    entity.DashboardSnapshot `json:"data"`
}

type wsClient struct {
	id      string
	address string
	conn    *websocket.Conn
	send    chan []byte
}

// Hub fans applied dashboard snapshots out to the websocket clients
// subscribed to their address. It implements port.SnapshotPublisher.
type Hub struct {
	upgrader   websocket.Upgrader
	clients    map[*wsClient]struct{}
	register   chan *wsClient
	unregister chan *wsClient
	broadcast  chan entity.DashboardSnapshot
	done       chan struct{}
	mu         sync.RWMutex
	logger     port.Logger
}

var _ port.SnapshotPublisher = (*Hub)(nil)

// NewHub creates a Hub. An empty allowedOrigins accepts any origin.
func NewHub(allowedOrigins []string, logger port.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		clients:    make(map[*wsClient]struct{}),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		broadcast:  make(chan entity.DashboardSnapshot, publishBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run dispatches registrations and snapshots until ctx is done, then closes
// every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			h.mu.Unlock()
			metrics.WebsocketClients.Set(0)
			return
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Websocket client registered", "client", c.id, "address", c.address)
		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
		case snap := <-h.broadcast:
			h.fanOut(snap)
		}
		metrics.WebsocketClients.Set(float64(h.Count()))
	}
}

func (h *Hub) fanOut(snap entity.DashboardSnapshot) {
	msg, err := encodeSnapshot(snap)
	if err != nil {
		h.logger.Error("Failed to encode snapshot", "address", snap.Address, "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if c.address != snap.Address {
			continue
		}
		select {
		case c.send <- msg:
		default:
			h.logger.Warn("Dropping slow websocket client", "client", c.id, "address", c.address)
			close(c.send)
			delete(h.clients, c)
		}
	}
}

// Publish implements port.SnapshotPublisher. It never blocks the caller; when
// the queue is full the snapshot is dropped.
func (h *Hub) Publish(snap entity.DashboardSnapshot) {
	select {
	case h.broadcast <- snap:
	default:
		h.logger.Warn("Snapshot queue full, dropping", "address", snap.Address, "sequence", snap.Sequence)
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve upgrades the request and subscribes the connection to address. When
// initial is set it is sent first.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, address string, initial *entity.DashboardSnapshot) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &wsClient{id: uuid.NewString(), address: address, conn: conn, send: make(chan []byte, sendBuffer)}
	if initial != nil {
		if msg, err := encodeSnapshot(*initial); err == nil {
			c.send <- msg
		}
	}

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return nil
	}

	go h.writePump(c)
	go h.readPump(c)
	return nil
}

// readPump only serves control frames; client messages are ignored.
func (h *Hub) readPump(c *wsClient) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("Websocket read error", "client", c.id, "error", err)
			}
			return
		}
	}
}

func (h *Hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("Websocket write error", "client", c.id, "error", err)
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

func encodeSnapshot(snap entity.DashboardSnapshot) ([]byte, error) {
	return json.Marshal(SnapshotMessage{Type: "snapshot", Address: snap.Address, Data: snap})
}
