// Package stream pushes rendered frames and focus events to websocket
// clients, so a browser can draw the same layout the binding computes.
package stream

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/dd0wney/cluso-netgraph/pkg/logging"
	"github.com/dd0wney/cluso-netgraph/pkg/render"
)

// Message types
const (
	TypeFrame = "frame"
	TypeFocus = "focus"
)

// DefaultBuffer is the number of messages queued per client before new ones
// are dropped for that client
const DefaultBuffer = 64

const writeWait = 5 * time.Second

// Message is one websocket payload
type Message struct {
	Type  string             `json:"type"`
	Frame *render.Frame      `json:"frame,omitempty"`
	Focus *render.FocusEvent `json:"focus,omitempty"`
}

// Hub fans messages out to every connected client. Publishing never blocks:
// a client whose queue is full misses the message.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	closed   bool
	buffer   int
	upgrader websocket.Upgrader
	logger   logging.Logger
}

type client struct {
	send      chan Message
	closeOnce sync.Once
}

func (c *client) close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// NewHub creates a hub. Origins are not checked; the server is meant for
// local use.
func NewHub(logger logging.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		buffer:  DefaultBuffer,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logging.OrNop(logger).With(logging.Component("stream")),
	}
}

// Render publishes a frame. Hub satisfies render.Renderer.
func (h *Hub) Render(frame render.Frame) {
	h.Publish(Message{Type: TypeFrame, Frame: &frame})
}

// Listen publishes a focus event. It has the render.Listener signature.
func (h *Hub) Listen(ev render.FocusEvent) {
	h.Publish(Message{Type: TypeFocus, Focus: &ev})
}

// Publish queues msg for every client
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
		}
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

// Routes mounts the websocket endpoint at /frames
func (h *Hub) Routes(r chi.Router) {
	r.Get("/frames", h.ServeHTTP)
}

// ServeHTTP upgrades the request and streams messages until either side
// goes away
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logging.Error(err))
		return
	}
	defer conn.Close()

	c := &client{send: make(chan Message, h.buffer)}
	if !h.add(c) {
		return
	}
	defer h.remove(c)
	h.logger.Debug("client connected", logging.String("remote", r.RemoteAddr))

	// The reader only notices the client leaving.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("websocket read failed", logging.Error(err))
				}
				return
			}
		}
	}()

	for {
		select {
		case <-gone:
			return
		case msg, ok := <-c.send:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("websocket write failed", logging.Error(err))
				return
			}
		}
	}
}
