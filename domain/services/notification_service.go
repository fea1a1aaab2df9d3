package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
)

// DueSoonWindow is how far ahead a due date counts as "due soon".
const DueSoonWindow = 24 * time.Hour

type NotificationService interface {
	// DueNotifications splits non-completed tasks into due_soon (now <= due <= now+24h)
	// and overdue (due < now), each ordered by due date.
	DueNotifications(ctx context.Context, now time.Time) (*dto.NotificationFeed, error)
	CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error)
	ListHistory(ctx context.Context, taskID *uuid.UUID) ([]*models.Notification, error)
	DeleteNotification(ctx context.Context, notificationID uuid.UUID) error
	// InvalidateFeed drops cached feeds after any task or subtask change.
	InvalidateFeed(ctx context.Context)
}

// ReminderService turns the feed into persisted, deduplicated reminders on a schedule.
type ReminderService interface {
	RunReminders(ctx context.Context, now time.Time) (int, error)
	RegisterReminderJob() error
}
