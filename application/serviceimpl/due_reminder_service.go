package serviceimpl

import (
	"context"
	"fmt"
	"time"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/scheduler"
)

const dueReminderJobID = "due_reminder"

type DueReminderConfig struct {
	Cron    string // default "* * * * *", every minute
	Timeout time.Duration
}

// DueReminderService records one notification per task, type and due date, and
// pushes each new one to the event stream and the operator notifier.
type DueReminderService struct {
	config           DueReminderConfig
	feed             services.NotificationService
	notificationRepo repositories.NotificationRepository
	notifier         ports.ReminderNotifierPort // optional
	events           ports.EventPublisherPort   // optional
	scheduler        scheduler.EventScheduler
	now              func() time.Time
}

func NewDueReminderService(
	config DueReminderConfig,
	feed services.NotificationService,
	notificationRepo repositories.NotificationRepository,
	notifier ports.ReminderNotifierPort,
	events ports.EventPublisherPort,
	eventScheduler scheduler.EventScheduler,
) *DueReminderService {
	if config.Cron == "" {
		config.Cron = "* * * * *"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &DueReminderService{
		config:           config,
		feed:             feed,
		notificationRepo: notificationRepo,
		notifier:         notifier,
		events:           events,
		scheduler:        eventScheduler,
		now:              time.Now,
	}
}

var _ services.ReminderService = (*DueReminderService)(nil)

func (s *DueReminderService) RegisterReminderJob() error {
	return s.scheduler.AddJob(dueReminderJobID, s.config.Cron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
		defer cancel()

		if _, err := s.RunReminders(ctx, s.now()); err != nil {
			logger.ErrorContext(ctx, "Due reminder run failed", "error", err)
		}
	})
}

// RunReminders returns how many new reminders were recorded.
func (s *DueReminderService) RunReminders(ctx context.Context, now time.Time) (int, error) {
	feed, err := s.feed.DueNotifications(ctx, now)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, item := range feed.DueSoon {
		ok, err := s.remind(ctx, item, models.NotificationTypeDueSoon)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}
	for _, item := range feed.Overdue {
		ok, err := s.remind(ctx, item, models.NotificationTypeOverdue)
		if err != nil {
			return created, err
		}
		if ok {
			created++
		}
	}

	if created > 0 {
		logger.InfoContext(ctx, "Due reminders recorded", "count", created)
	}
	return created, nil
}

func (s *DueReminderService) remind(ctx context.Context, item dto.TaskSummary, notificationType models.NotificationType) (bool, error) {
	exists, err := s.notificationRepo.Exists(ctx, item.ID, notificationType, item.DueDate)
	if err != nil {
		return false, fmt.Errorf("check reminder for task %s: %w", item.ID, err)
	}
	if exists {
		return false, nil
	}

	due := item.DueDate.UTC()
	notification := &models.Notification{
		TaskID:  item.ID,
		Type:    notificationType,
		Message: reminderMessage(item, notificationType),
		DueDate: &due,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return false, fmt.Errorf("record reminder for task %s: %w", item.ID, err)
	}

	publishEvent(ctx, s.events, &ports.TaskEvent{
		Type:   ports.EventNotificationCreated,
		TaskID: item.ID.String(),
		Status: item.Status,
		Data:   dto.NotificationToNotificationResponse(notification),
	})

	if s.notifier != nil && s.notifier.IsEnabled() {
		if err := s.notifier.SendDueReminder(ctx, &ports.DueReminder{
			TaskID:  item.ID.String(),
			Title:   item.Title,
			Type:    string(notificationType),
			Status:  item.Status,
			DueDate: due,
			Message: notification.Message,
		}); err != nil {
			logger.WarnContext(ctx, "Reminder delivery failed", "task_id", item.ID, "error", err)
		}
	}

	return true, nil
}

func reminderMessage(item dto.TaskSummary, notificationType models.NotificationType) string {
	due := item.DueDate.UTC().Format("2006-01-02 15:04")
	if notificationType == models.NotificationTypeOverdue {
		return fmt.Sprintf("La tarea \"%s\" está vencida desde %s.", item.Title, due)
	}
	return fmt.Sprintf("La tarea \"%s\" vence pronto (%s).", item.Title, due)
}
