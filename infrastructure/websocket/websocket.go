package websocket

import (
	"sync"

	"taskmanager/pkg/logger"
)

// Conn is the part of a websocket connection the hub needs.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Message struct {
	Type string      `json:"type"`
	Room string      `json:"room,omitempty"`
	Data interface{} `json:"data"`
}

type client struct {
	conn Conn
	room string
}

type broadcastMessage struct {
	message Message
	room    string
}

// Hub fans messages out to connected clients. A client without a room receives
// everything; a client in room "task:<id>" receives only that task's messages.
type Hub struct {
	clients    map[Conn]client
	rooms      map[string]map[Conn]bool
	register   chan client
	unregister chan Conn
	broadcast  chan broadcastMessage
	done       chan struct{}
	stopOnce   sync.Once
	mutex      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[Conn]client),
		rooms:      make(map[string]map[Conn]bool),
		register:   make(chan client),
		unregister: make(chan Conn),
		broadcast:  make(chan broadcastMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop is called.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mutex.Lock()
			h.clients[c.conn] = c
			if c.room != "" {
				if h.rooms[c.room] == nil {
					h.rooms[c.room] = make(map[Conn]bool)
				}
				h.rooms[c.room][c.conn] = true
			}
			h.mutex.Unlock()
			logger.Debug("WebSocket client connected", "room", c.room)

		case conn := <-h.unregister:
			h.remove(conn)

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-h.done:
			h.mutex.Lock()
			for conn := range h.clients {
				_ = conn.Close()
			}
			h.clients = make(map[Conn]client)
			h.rooms = make(map[string]map[Conn]bool)
			h.mutex.Unlock()
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) deliver(msg broadcastMessage) {
	h.mutex.RLock()
	targets := make([]Conn, 0, len(h.clients))
	for conn, c := range h.clients {
		if c.room == "" || (msg.room != "" && c.room == msg.room) {
			targets = append(targets, conn)
		}
	}
	h.mutex.RUnlock()

	for _, conn := range targets {
		if err := conn.WriteJSON(msg.message); err != nil {
			logger.Debug("WebSocket write failed, dropping client", "error", err)
			h.remove(conn)
		}
	}
}

func (h *Hub) remove(conn Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	c, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	if c.room != "" && h.rooms[c.room] != nil {
		delete(h.rooms[c.room], conn)
		if len(h.rooms[c.room]) == 0 {
			delete(h.rooms, c.room)
		}
	}
	_ = conn.Close()
}

func (h *Hub) Register(conn Conn, room string) {
	select {
	case h.register <- client{conn: conn, room: room}:
	case <-h.done:
	}
}

func (h *Hub) Unregister(conn Conn) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Broadcast queues a message for global clients and, when room is set, that room's clients.
func (h *Hub) Broadcast(room string, message Message) {
	message.Room = room
	select {
	case h.broadcast <- broadcastMessage{message: message, room: room}:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) RoomClientCount(room string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}
