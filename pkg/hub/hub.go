package hub

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/teslashibe/go-facerange/internal/log"
)

// Hub owns a set of clients. All membership changes go through Run.
type Hub struct {
	name string

	mu      sync.RWMutex // guards clients for ClientCount
	clients map[*Client]struct{}

	broadcast  chan Message
	register   chan *Client
	unregister chan *Client

	// done is closed when Run returns; membership sends select on it.
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool
}

// New creates a hub; name tags its log lines.
func New(name string) *Hub {
	return &Hub{
		name:       name,
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run delivers broadcasts until ctx is done, then stops every client. A hub
// runs once; clients arriving after Run returns are closed immediately.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer func() {
		h.running.Store(false)
		h.stopOnce.Do(func() { close(h.done) })
	}()

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				c.stop()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			n := len(h.clients)
			h.mu.Unlock()
			log.Info("websocket client connected", "hub", h.name, "clients", n)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.stop()
			}
			n := len(h.clients)
			h.mu.Unlock()
			log.Info("websocket client disconnected", "hub", h.name, "clients", n)

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				if !c.offer(m) {
					c.stop()
					delete(h.clients, c)
					log.Warn("dropped slow websocket client", "hub", h.name)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues m for every client. It never blocks the caller; when
// the hub is backed up the message is dropped.
func (h *Hub) Broadcast(m Message) {
	select {
	case h.broadcast <- m:
	default:
		log.Debug("hub backlog full, message dropped", "hub", h.name)
	}
}

// BroadcastJSON encodes v and broadcasts it as an event.
func (h *Hub) BroadcastJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(EventMessage(data))
	return nil
}

// BroadcastFrame broadcasts an encoded camera frame.
func (h *Hub) BroadcastFrame(data []byte) {
	h.Broadcast(FrameMessage(data))
}

// Serve attaches conn and blocks until it disconnects. Initial events are
// delivered before any broadcast.
func (h *Hub) Serve(conn Conn, initial ...Message) {
	c := newClient(h, conn, initial)
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	c.serve()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Running reports whether Run is active.
func (h *Hub) Running() bool {
	return h.running.Load()
}
