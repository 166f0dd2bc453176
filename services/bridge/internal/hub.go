package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lightspeed-ai/lightspeed/shared/events"
)

// inboundFunc handles one raw frame from a webview connection. Replies go
// back on the same connection via the supplied send function.
type inboundFunc func(ctx context.Context, raw []byte, send func([]byte))

type Hub struct {
	mu        sync.RWMutex
	clients   map[*wsConn]struct{}
	bc        chan []byte
	onMessage inboundFunc
}

type wsConn struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(onMessage inboundFunc) *Hub {
	return &Hub{
		clients:   make(map[*wsConn]struct{}),
		bc:        make(chan []byte, 512),
		onMessage: onMessage,
	}
}

func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-h.bc:
			h.mu.RLock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *Hub) Broadcast(env *events.Envelope) {
	b, _ := json.Marshal(env)
	h.BroadcastRaw(b)
}

func (h *Hub) BroadcastRaw(b []byte) {
	select {
	case h.bc <- b:
	default:
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin:    func(r *http.Request) bool { return true },
	ReadBufferSize: 1024, WriteBufferSize: 4096,
}

func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WS upgrade failed")
		return
	}
	c := &wsConn{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer func() {
			conn.Close()
			h.mu.Lock()
			delete(h.clients, c)
			h.mu.Unlock()
		}()
		for msg := range c.send {
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if conn.WriteMessage(websocket.TextMessage, msg) != nil {
				return
			}
		}
	}()

	reply := func(b []byte) {
		select {
		case c.send <- b:
		default:
		}
	}

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if h.onMessage != nil {
			h.onMessage(r.Context(), raw, reply)
		}
	}
}
