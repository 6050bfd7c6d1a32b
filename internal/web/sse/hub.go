package sse

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

const outboxSize = 256

// Hub fans frames out to every connected dashboard. Run owns the client set;
// other goroutines talk to it over channels.
type Hub struct {
	logger *slog.Logger

	joins  chan *Client
	leaves chan *Client
	outbox chan []byte
	done   chan struct{}
	once   sync.Once

	connected atomic.Int64
	seq       atomic.Uint64
}

// NewHub creates a Hub. The name only tags log lines.
func NewHub(name string, logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger.With(slog.String("component", "sse"), slog.String("hub", name)),
		joins:  make(chan *Client),
		leaves: make(chan *Client),
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}
}

// Run processes joins, leaves and broadcasts until Close is called
func (h *Hub) Run() {
	clients := make(map[*Client]struct{})
	h.logger.Info("sse hub started")

	for {
		select {
		case c := <-h.joins:
			clients[c] = struct{}{}
			h.connected.Store(int64(len(clients)))
			h.logger.Info("sse client joined",
				slog.String("viewer", c.viewer),
				slog.Int("clients", len(clients)))

		case c := <-h.leaves:
			if _, ok := clients[c]; !ok {
				continue
			}
			delete(clients, c)
			close(c.send)
			h.connected.Store(int64(len(clients)))
			h.logger.Info("sse client left",
				slog.String("viewer", c.viewer),
				slog.Duration("connected_for", time.Since(c.connectedAt)),
				slog.Int("clients", len(clients)))

		case frame := <-h.outbox:
			if dropped := fanOut(clients, frame); dropped > 0 {
				h.logger.Warn("sse frame dropped for slow clients", slog.Int("dropped", dropped))
			}

		case <-h.done:
			for c := range clients {
				close(c.send)
			}
			h.connected.Store(0)
			h.logger.Info("sse hub stopped", slog.Int("disconnected", len(clients)))
			return
		}
	}
}

func fanOut(clients map[*Client]struct{}, frame []byte) int {
	dropped := 0
	for c := range clients {
		select {
		case c.send <- frame:
		default:
			dropped++
		}
	}
	return dropped
}

// Register adds a client. It reports false once the hub is closed.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.joins <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client and closes its channel
func (h *Hub) Unregister(c *Client) {
	select {
	case h.leaves <- c:
	case <-h.done:
	}
}

// Broadcast queues a raw frame for every client
func (h *Hub) Broadcast(frame []byte) {
	select {
	case h.outbox <- frame:
	default:
		h.logger.Warn("sse broadcast dropped, hub outbox full")
	}
}

// BroadcastEvent numbers the event and queues it
func (h *Hub) BroadcastEvent(name, data string) {
	id := strconv.FormatUint(h.seq.Add(1), 10)
	h.Broadcast(Event{ID: id, Name: name, Data: data}.Encode())
}

// Close stops Run and disconnects every client. Safe to call repeatedly.
func (h *Hub) Close() {
	h.once.Do(func() { close(h.done) })
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	return int(h.connected.Load())
}
