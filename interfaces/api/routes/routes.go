package routes

import (
	"github.com/gofiber/fiber/v2"

	wshub "taskmanager/infrastructure/websocket"
	"taskmanager/interfaces/api/handlers"
)

type Options struct {
	JWTSecret string
	Hub       *wshub.Hub // nil disables /ws
	// FilesDir is served at /files when attachments live on local disk.
	FilesDir string
}

func SetupRoutes(app *fiber.App, h *handlers.Handlers, opts Options) {
	SetupHealthRoutes(app, h)

	if opts.FilesDir != "" {
		app.Static("/files", opts.FilesDir, fiber.Static{ByteRange: true})
	}

	api := app.Group("/api/v1")

	SetupAuthRoutes(api, h, opts.JWTSecret)
	SetupTaskRoutes(api, h)
	SetupSubtaskRoutes(api, h)
	SetupNotificationRoutes(api, h)
	SetupAttachmentRoutes(api, h)

	if opts.Hub != nil {
		SetupWebSocketRoutes(app, opts.Hub)
	}
}
