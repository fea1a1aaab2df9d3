package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/scheduler"
	"taskmanager/pkg/utils"
)

// HealthCheck probes one dependency. Optional dependencies that are not
// configured are simply left out of the list.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type HealthHandler struct {
	appName   string
	checks    []HealthCheck
	storage   services.StorageService
	scheduler scheduler.EventScheduler
}

func NewHealthHandler(appName string, checks []HealthCheck, storage services.StorageService, eventScheduler scheduler.EventScheduler) *HealthHandler {
	return &HealthHandler{
		appName:   appName,
		checks:    checks,
		storage:   storage,
		scheduler: eventScheduler,
	}
}

// Health reports 200 while every dependency answers, 503 otherwise.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
	defer cancel()

	status := "ok"
	deps := make(map[string]string, len(h.checks))
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			logger.WarnContext(ctx, "Health check failed", "dependency", check.Name, "error", err)
			deps[check.Name] = "down"
			status = "degraded"
			continue
		}
		deps[check.Name] = "up"
	}

	body := fiber.Map{
		"status":       status,
		"service":      h.appName,
		"dependencies": deps,
	}
	if h.scheduler != nil {
		body["jobs"] = h.scheduler.ListJobs()
	}

	code := fiber.StatusOK
	if status != "ok" {
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(body)
}

func (h *HealthHandler) StorageStats(c *fiber.Ctx) error {
	if h.storage == nil {
		return utils.NotFoundResponse(c, "")
	}

	stats, err := h.storage.GetStorageStats(c.UserContext())
	if err != nil {
		return err
	}
	return utils.SuccessResponse(c, fiber.Map{
		"stats":            stats,
		"disk_free":        utils.FormatBytes(stats.DiskFree),
		"attachments_size": utils.FormatBytes(uint64(stats.AttachmentsSize)),
	})
}
