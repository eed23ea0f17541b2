package feed

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/binance-spread/internal/model"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 16 // queued updates per client
)

// Update is the JSON message sent to clients after every delta cycle.
type Update struct {
	CycleID string             `json:"cycle_id"`
	Asset   string             `json:"asset"`
	Field   string             `json:"field"`
	TakenAt time.Time          `json:"taken_at"`
	Deltas  map[string]float64 `json:"deltas"`
}

// Broadcaster fans delta cycles out to connected WebSocket clients. Each
// client has its own send queue and writer goroutine, so a slow client never
// blocks Publish.
type Broadcaster struct {
	clients  map[*client]struct{}
	mu       sync.Mutex
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewBroadcaster creates a Broadcaster with no clients.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broadcaster{
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		logger:   logger,
	}
}

// Publish queues cycle for every client without blocking. Clients whose queue
// is full are dropped.
func (b *Broadcaster) Publish(cycle model.DeltaCycle) {
	msg, err := json.Marshal(Update{
		CycleID: cycle.ID.String(),
		Asset:   cycle.Asset,
		Field:   cycle.Field,
		TakenAt: cycle.TakenAt,
		Deltas:  cycle.Deltas,
	})
	if err != nil {
		b.logger.Error("failed to marshal feed update", "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for c := range b.clients {
		select {
		case c.send <- msg:
		default:
			b.logger.Warn("dropping slow feed client", "remote", c.conn.RemoteAddr().String())
			b.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients.
func (b *Broadcaster) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Close disconnects every client.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for c := range b.clients {
		b.removeLocked(c)
	}
}

// Handler returns an http.HandlerFunc to accept websocket connections.
func (b *Broadcaster) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := b.upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.logger.Warn("websocket upgrade failed", "error", err)
			return
		}

		c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
		b.add(c)

		b.logger.Debug("feed client connected", "remote", conn.RemoteAddr().String())

		go b.writeLoop(c)

		// Reads only detect disconnects; clients never send anything we use.
		go func() {
			defer b.remove(c)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}
}

func (b *Broadcaster) add(c *client) {
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
}

func (b *Broadcaster) remove(c *client) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(c)
}

// removeLocked unregisters c and closes its queue and connection. b.mu must be held.
func (b *Broadcaster) removeLocked(c *client) {
	if _, ok := b.clients[c]; !ok {
		return
	}
	delete(b.clients, c)
	close(c.send)
	c.conn.Close()
}

func (b *Broadcaster) writeLoop(c *client) {
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			b.logger.Warn("dropping feed client", "remote", c.conn.RemoteAddr().String(), "error", err)
			b.remove(c)
			return
		}
	}
}
