package websocket

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wshub "taskmanager/infrastructure/websocket"
	"taskmanager/pkg/logger"
)

type WebSocketHandler struct {
	hub *wshub.Hub
}

func NewWebSocketHandler(hub *wshub.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

func (h *WebSocketHandler) WebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// HandleWebSocket keeps the connection registered until the client goes away.
// Clients only listen; anything they send is discarded.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	room := strings.TrimSpace(c.Query("room", ""))
	if room != "" && !strings.HasPrefix(room, "task:") {
		room = wshub.TaskRoom(room)
	}

	h.hub.Register(c, room)
	defer h.hub.Unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("WebSocket read error", "error", err)
			}
			return
		}
	}
}
