package websocket

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// adminChannel is the broadcast group every admin connection joins.
const adminChannel = "admins"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type wsHub struct {
	mutex   sync.Mutex
	clients map[string]map[*client]bool // channel -> connections
}

var hub = &wsHub{clients: make(map[string]map[*client]bool)}

func (h *wsHub) register(channel string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.clients[channel] == nil {
		h.clients[channel] = make(map[*client]bool)
	}
	h.clients[channel][c] = true
}

func (h *wsHub) unregister(channel string, c *client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if clients, ok := h.clients[channel]; ok {
		if clients[c] {
			delete(clients, c)
			close(c.send)
		}
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to its channel:
// the owning user's id, or the shared admin group.
func ServeWS(w http.ResponseWriter, r *http.Request, userID string, isAdmin bool) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	channel := userID
	if isAdmin {
		channel = adminChannel
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	hub.register(channel, c)

	go c.writePump(channel)
	go c.readPump(channel)
}

func (c *client) writePump(channel string) {
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			break
		}
	}
	c.conn.Close()
}

// readPump drains the connection so pings and closes are processed.
func (c *client) readPump(channel string) {
	defer func() {
		hub.unregister(channel, c)
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
