package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

type NotificationHandler struct {
	notificationService services.NotificationService
	now                 func() time.Time
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		now:                 time.Now,
	}
}

// GetFeed returns the tasks due within the next 24 hours and the overdue ones.
func (h *NotificationHandler) GetFeed(c *fiber.Ctx) error {
	ctx := c.UserContext()

	feed, err := h.notificationService.DueNotifications(ctx, h.now())
	if err != nil {
		logger.ErrorContext(ctx, "Failed to build notification feed", "error", err)
		return err
	}

	return utils.SuccessResponse(c, feed)
}

func (h *NotificationHandler) CreateNotification(c *fiber.Ctx) error {
	var req dto.CreateNotificationRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	notification, err := h.notificationService.CreateNotification(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.CreatedResponse(c, "Notificación creada exitosamente.", dto.NotificationToNotificationResponse(notification))
}

// ListHistory handles GET /notifications/history?task_id=
func (h *NotificationHandler) ListHistory(c *fiber.Ctx) error {
	var taskID *uuid.UUID
	if raw := c.Query("task_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return utils.ValidationErrorResponse(c, map[string][]string{
				"task_id": {"La tarea seleccionada no existe."},
			})
		}
		taskID = &id
	}

	items, err := h.notificationService.ListHistory(c.UserContext(), taskID)
	if err != nil {
		return err
	}

	return utils.SuccessResponse(c, dto.NotificationsToNotificationResponses(items))
}

func (h *NotificationHandler) DeleteNotification(c *fiber.Ctx) error {
	notificationID, ok, err := parseID(c, "id", "La notificación no existe.")
	if !ok {
		return err
	}

	if err := h.notificationService.DeleteNotification(c.UserContext(), notificationID); err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Notificación eliminada exitosamente.", nil)
}
