// Package transport implements A4: the WebSocket subscriber adapter
// that bridges a worldstate.Game's Broadcast calls to real client
// connections. Adapted from the teacher's internal/api/websocket.go
// hub-and-client pattern, generalized from one global hub broadcasting
// engine-wide state to a per-game Subscriber registered directly with
// its worldstate.Game.
package transport

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"hexarena/internal/engine"
	"hexarena/internal/ratelimit"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isAllowedOrigin(r.Header.Get("Origin"))
	},
}

// conn implements worldstate.Subscriber over one live WebSocket.
type conn struct {
	ws   *websocket.Conn
	send chan map[string]any

	closeOnce sync.Once
}

// Send enqueues message for delivery; a full buffer drops the
// connection rather than blocking the broadcasting game tick, since a
// slow reader must never stall every other subscriber.
func (c *conn) Send(message map[string]any) error {
	select {
	case c.send <- message:
		return nil
	default:
		return errFullBuffer
	}
}

var errFullBuffer = fmtError("subscriber send buffer full")

type fmtError string

func (e fmtError) Error() string { return string(e) }

func (c *conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *conn) readPump() {
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
		// Subscribers are read-only: spec.md §6's dispatcher commands
		// arrive over HTTP, never over this socket. Any inbound frame is
		// discarded once read, only to keep the control-frame deadline alive.
	}
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.send)
		c.ws.Close()
	})
}

// Hub upgrades subscribe requests into game-scoped WebSocket
// subscribers, enforcing a per-IP connection cap.
type Hub struct {
	engine  *engine.Engine
	limiter *ratelimit.WebSocket
}

// NewHub constructs a Hub bound to eng, limiting each IP to maxPerIP
// concurrent connections.
func NewHub(eng *engine.Engine, maxPerIP int) *Hub {
	return &Hub{engine: eng, limiter: ratelimit.NewWebSocket(maxPerIP)}
}

// HandleSubscribe upgrades the request and registers the connection as
// a Subscriber on the named game for the connection's lifetime.
func (h *Hub) HandleSubscribe(w http.ResponseWriter, r *http.Request, gameID string) {
	ip := ratelimit.ClientIP(r)
	if !h.limiter.Allow(ip) {
		http.Error(w, "too many connections from your IP", http.StatusTooManyRequests)
		return
	}

	game, ok := h.engine.Game(gameID)
	if !ok {
		h.limiter.Release(ip)
		http.Error(w, "game not found", http.StatusNotFound)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.limiter.Release(ip)
		log.Printf("transport: upgrade failed: %v", err)
		return
	}

	c := &conn{ws: ws, send: make(chan map[string]any, sendBuffer)}
	id := uuid.NewString()
	game.Subscribe(id, c)

	go func() {
		c.writePump()
		c.close()
	}()

	go func() {
		c.readPump()
		game.Unsubscribe(id)
		h.limiter.Release(ip)
		c.close()
	}()
}

var allowedOriginSuffixes = []string{"localhost", "127.0.0.1"}

func isAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	for _, suffix := range allowedOriginSuffixes {
		if strings.Contains(origin, suffix) {
			return true
		}
	}
	return false
}

