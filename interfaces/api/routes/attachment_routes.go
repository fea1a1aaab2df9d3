package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskmanager/interfaces/api/handlers"
)

func SetupAttachmentRoutes(api fiber.Router, h *handlers.Handlers) {
	api.Post("/tasks/:id/attachments", h.AttachmentHandler.Upload)
	api.Get("/tasks/:id/attachments", h.AttachmentHandler.List)

	attachments := api.Group("/attachments")
	attachments.Get("/:id/download", h.AttachmentHandler.Download)
	attachments.Delete("/:id", h.AttachmentHandler.Delete)
}
