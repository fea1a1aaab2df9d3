package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskmanager/domain/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns the newest notifications first; a nil taskID lists every task.
	List(ctx context.Context, taskID *uuid.UUID, limit int) ([]*models.Notification, error)
	Exists(ctx context.Context, taskID uuid.UUID, notificationType models.NotificationType, dueDate time.Time) (bool, error)
	DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error)
}
