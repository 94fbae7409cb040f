package hub

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames.
	maxMessageSize = 4 * 1024

	// eventBuffer is how many events a client may lag before it is dropped.
	eventBuffer = 64
)

// Conn is the subset of a websocket connection the hub uses.
// *websocket.Conn from gofiber satisfies it.
type Conn interface {
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is one websocket viewer.
type Client struct {
	hub  *Hub
	conn Conn

	events chan []byte
	frame  atomic.Pointer[[]byte] // newest undelivered frame
	wake   chan struct{}          // signals a pending frame

	done     chan struct{}
	stopOnce sync.Once
}

func newClient(h *Hub, conn Conn, initial []Message) *Client {
	c := &Client{
		hub:    h,
		conn:   conn,
		events: make(chan []byte, eventBuffer+len(initial)),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
	for _, m := range initial {
		c.offer(m)
	}
	return c
}

// offer queues m without blocking. It reports false when the event queue
// is full; frames always succeed by replacing any pending frame.
func (c *Client) offer(m Message) bool {
	if m.Kind == KindFrame {
		data := m.Data
		c.frame.Store(&data)
		select {
		case c.wake <- struct{}{}:
		default:
		}
		return true
	}

	select {
	case c.events <- m.Data:
		return true
	default:
		return false
	}
}

// stop ends the write pump; safe to call more than once.
func (c *Client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// serve runs until the peer disconnects.
func (c *Client) serve() {
	go c.writePump()

	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
			c.stop()
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump is the connection's only writer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	write := func(kind int, data []byte) bool {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		return c.conn.WriteMessage(kind, data) == nil
	}

	for {
		select {
		case <-c.done:
			write(websocket.CloseMessage, nil)
			return

		case data := <-c.events:
			if !write(websocket.TextMessage, data) {
				return
			}

		case <-c.wake:
			if p := c.frame.Swap(nil); p != nil {
				if !write(websocket.BinaryMessage, *p) {
					return
				}
			}

		case <-ticker.C:
			if !write(websocket.PingMessage, nil) {
				return
			}
		}
	}
}
