package main

import (
	"context"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gofiber/fiber/v2"

	"taskmanager/interfaces/api/handlers"
	"taskmanager/interfaces/api/middleware"
	"taskmanager/interfaces/api/routes"
	"taskmanager/pkg/di"
	"taskmanager/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	container := di.NewContainer()

	if err := container.Initialize(); err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	cfg := container.GetConfig()

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(cfg.App.Debug),
		AppName:      cfg.App.Name,
		// multipart overhead on top of the largest accepted attachment
		BodyLimit: int(cfg.Storage.MaxUploadSize) + 1<<20,
	})

	// request id must run before the logger
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware())
	app.Use(middleware.CorsMiddleware(cfg.CORS.AllowOrigins))

	h := handlers.NewHandlers(container.GetHandlerServices())

	opts := routes.Options{
		JWTSecret: cfg.JWT.Secret,
		Hub:       container.Hub,
	}
	if cfg.Storage.Type != "s3" {
		opts.FilesDir = cfg.Storage.BasePath
	}
	routes.SetupRoutes(app, h, opts)

	port := cfg.App.Port
	go func() {
		logger.Info("Server starting", "port", port, "env", cfg.App.Env, "app", cfg.App.Name)
		if err := app.Listen(":" + port); err != nil {
			logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"api": func(ctx context.Context) error {
				logger.Info("Gracefully shutting down...")
				if err := app.ShutdownWithContext(ctx); err != nil {
					logger.Error("HTTP server shutdown failed", "error", err)
				}
				return container.Cleanup()
			},
		},
	)

	exitCode := <-wait
	logger.Info("Shutdown complete", "exit_code", exitCode)
	os.Exit(exitCode)
}
