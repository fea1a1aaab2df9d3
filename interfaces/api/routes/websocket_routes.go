package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	wshub "taskmanager/infrastructure/websocket"
	websocketHandler "taskmanager/interfaces/api/websocket"
)

func SetupWebSocketRoutes(app *fiber.App, hub *wshub.Hub) {
	wsHandler := websocketHandler.NewWebSocketHandler(hub)

	app.Use("/ws", wsHandler.WebSocketUpgrade)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))
}
