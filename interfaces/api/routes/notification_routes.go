package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskmanager/interfaces/api/handlers"
)

func SetupNotificationRoutes(api fiber.Router, h *handlers.Handlers) {
	notifications := api.Group("/notifications")
	notifications.Get("/", h.NotificationHandler.GetFeed)
	notifications.Post("/", h.NotificationHandler.CreateNotification)
	notifications.Get("/history", h.NotificationHandler.ListHistory)
	notifications.Delete("/:id", h.NotificationHandler.DeleteNotification)
}
