package serviceimpl

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/infrastructure/redis"
	"taskmanager/pkg/logger"
)

const (
	feedCachePrefix     = "notifications:feed:"
	notificationHistory = 100
)

type NotificationServiceImpl struct {
	taskRepo         repositories.TaskRepository
	notificationRepo repositories.NotificationRepository
	redisClient      *redis.Client // optional, without it every feed read hits the DB
	cacheWindow      time.Duration
	events           ports.EventPublisherPort // optional
	group            singleflight.Group
}

func NewNotificationService(
	taskRepo repositories.TaskRepository,
	notificationRepo repositories.NotificationRepository,
	redisClient *redis.Client,
	cacheWindow time.Duration,
	events ports.EventPublisherPort,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		taskRepo:         taskRepo,
		notificationRepo: notificationRepo,
		redisClient:      redisClient,
		cacheWindow:      cacheWindow,
		events:           events,
	}
}

var _ services.NotificationService = (*NotificationServiceImpl)(nil)

// DueNotifications coalesces concurrent calls for the same window into one query.
// With a cache window, the tasks due up to the end of the window are loaded once per
// window (and kept in redis when configured), then split against the caller's now.
func (s *NotificationServiceImpl) DueNotifications(ctx context.Context, now time.Time) (*dto.NotificationFeed, error) {
	now = now.UTC()
	if s.cacheWindow <= 0 {
		return s.loadShared(ctx, feedCachePrefix+now.Format(time.RFC3339Nano), func(ctx context.Context) (*dto.NotificationFeed, error) {
			return s.buildFeed(ctx, now, now.Add(services.DueSoonWindow))
		})
	}

	windowStart := now.Truncate(s.cacheWindow)
	horizon := windowStart.Add(s.cacheWindow + services.DueSoonWindow)
	key := feedCachePrefix + windowStart.Format(time.RFC3339)

	candidates, err := s.loadShared(ctx, key, func(ctx context.Context) (*dto.NotificationFeed, error) {
		if s.redisClient == nil {
			return s.buildFeed(ctx, windowStart, horizon)
		}

		var feed dto.NotificationFeed
		err := s.redisClient.GetOrSet(ctx, key, &feed, s.cacheWindow, func() (interface{}, error) {
			return s.buildFeed(ctx, windowStart, horizon)
		})
		if err == nil {
			return &feed, nil
		}

		logger.WarnContext(ctx, "Feed cache unavailable, reading from database", "error", err)
		return s.buildFeed(ctx, windowStart, horizon)
	})
	if err != nil {
		return nil, err
	}
	return splitFeed(candidates, now), nil
}

// loadShared runs load once per key for all concurrent callers. The shared load
// outlives any single caller's cancellation.
func (s *NotificationServiceImpl) loadShared(ctx context.Context, key string, load func(context.Context) (*dto.NotificationFeed, error)) (*dto.NotificationFeed, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return load(shared)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*dto.NotificationFeed), nil
	}
}

// buildFeed loads tasks overdue at now and tasks due in [now, until], earliest first.
func (s *NotificationServiceImpl) buildFeed(ctx context.Context, now, until time.Time) (*dto.NotificationFeed, error) {
	dueSoon, err := s.taskRepo.ListDueBetween(ctx, now, until)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load due soon tasks", "error", err)
		return nil, err
	}

	overdue, err := s.taskRepo.ListOverdue(ctx, now)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load overdue tasks", "error", err)
		return nil, err
	}

	feed := &dto.NotificationFeed{
		DueSoon:     make([]dto.TaskSummary, 0, len(dueSoon)),
		Overdue:     make([]dto.TaskSummary, 0, len(overdue)),
		GeneratedAt: now,
	}
	for _, task := range dueSoon {
		feed.DueSoon = append(feed.DueSoon, dto.TaskToTaskSummary(task))
	}
	for _, task := range overdue {
		feed.Overdue = append(feed.Overdue, dto.TaskToTaskSummary(task))
	}

	return feed, nil
}

// splitFeed re-buckets a window's candidates for now. Both candidate lists are sorted
// by due date and every overdue candidate precedes every due soon one, so order holds.
func splitFeed(candidates *dto.NotificationFeed, now time.Time) *dto.NotificationFeed {
	feed := &dto.NotificationFeed{
		DueSoon:     make([]dto.TaskSummary, 0, len(candidates.DueSoon)),
		Overdue:     make([]dto.TaskSummary, 0, len(candidates.Overdue)),
		GeneratedAt: now,
	}
	limit := now.Add(services.DueSoonWindow)

	for _, list := range [][]dto.TaskSummary{candidates.Overdue, candidates.DueSoon} {
		for _, item := range list {
			switch {
			case item.DueDate.Before(now):
				feed.Overdue = append(feed.Overdue, item)
			case !item.DueDate.After(limit):
				feed.DueSoon = append(feed.DueSoon, item)
			}
		}
	}
	return feed
}

func (s *NotificationServiceImpl) InvalidateFeed(ctx context.Context) {
	if s.redisClient == nil {
		return
	}
	if _, err := s.redisClient.ScanAndDelete(ctx, feedCachePrefix+"*"); err != nil {
		logger.WarnContext(ctx, "Failed to invalidate feed cache", "error", err)
	}
}

func (s *NotificationServiceImpl) CreateNotification(ctx context.Context, req *dto.CreateNotificationRequest) (*models.Notification, error) {
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return nil, services.ErrTaskNotFound
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		return nil, err
	}

	notificationType := models.NotificationType(req.Type)
	if notificationType == "" {
		notificationType = models.NotificationTypeCustom
	}

	notification := &models.Notification{
		TaskID:  taskID,
		Type:    notificationType,
		Message: strings.TrimSpace(req.Message),
		DueDate: utcPtr(task.DueDate),
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		notification.DueDate = &due
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		logger.ErrorContext(ctx, "Failed to create notification", "task_id", taskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Notification created", "notification_id", notification.ID, "task_id", taskID, "type", notification.Type)

	publishEvent(ctx, s.events, &ports.TaskEvent{
		Type:   ports.EventNotificationCreated,
		TaskID: taskID.String(),
		Data:   dto.NotificationToNotificationResponse(notification),
	})

	return notification, nil
}

func (s *NotificationServiceImpl) ListHistory(ctx context.Context, taskID *uuid.UUID) ([]*models.Notification, error) {
	return s.notificationRepo.List(ctx, taskID, notificationHistory)
}

func (s *NotificationServiceImpl) DeleteNotification(ctx context.Context, notificationID uuid.UUID) error {
	if err := s.notificationRepo.Delete(ctx, notificationID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrNotificationNotFound
		}
		logger.ErrorContext(ctx, "Failed to delete notification", "notification_id", notificationID, "error", err)
		return err
	}

	logger.InfoContext(ctx, "Notification deleted", "notification_id", notificationID)
	return nil
}
