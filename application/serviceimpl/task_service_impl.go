package serviceimpl

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
)

type TaskServiceImpl struct {
	taskRepo         repositories.TaskRepository
	notificationRepo repositories.NotificationRepository
	attachments      services.AttachmentService // optional
	feed             feedInvalidator            // optional
	events           ports.EventPublisherPort   // optional
}

func NewTaskService(
	taskRepo repositories.TaskRepository,
	notificationRepo repositories.NotificationRepository,
	attachments services.AttachmentService,
	feed feedInvalidator,
	events ports.EventPublisherPort,
) services.TaskService {
	return &TaskServiceImpl{
		taskRepo:         taskRepo,
		notificationRepo: notificationRepo,
		attachments:      attachments,
		feed:             feed,
		events:           events,
	}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*models.Task, error) {
	now := time.Now().UTC()

	task := dto.CreateTaskRequestToTask(req)
	task.ID = uuid.New()
	task.Title = strings.TrimSpace(task.Title)
	task.CreationDate = now
	task.ApplyDerivedStatus(models.TaskStatusPending)

	// a status other than the default is a human decision
	if status := models.TaskStatus(req.Status); status != "" && status != models.TaskStatusPending {
		task.OverrideStatus(status, now)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		logger.ErrorContext(ctx, "Failed to create task", "error", err)
		return nil, err
	}
	task.Subtasks = []models.Subtask{}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID, "status", task.Status, "priority", task.Priority)

	s.afterChange(ctx, &ports.TaskEvent{
		Type:   ports.EventTaskCreated,
		TaskID: task.ID.String(),
		Status: string(task.Status),
		Data:   dto.TaskToTaskResponse(task),
	})

	return task, nil
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	task, err := s.taskRepo.GetWithSubtasks(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to get task", "task_id", taskID, "error", err)
		return nil, err
	}
	return task, nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, req *dto.TaskFilterRequest) (*services.TaskListResult, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	perPage := services.DefaultTasksPerPage

	filter := repositories.TaskFilter{Search: req.Search}
	if req.Status != "" && req.Status != "all" {
		filter.Status = models.TaskStatus(req.Status)
	}
	if req.Priority != "" && req.Priority != "all" {
		filter.Priority = models.TaskPriority(req.Priority)
	}

	// pages too far out to address are simply past the end
	offset := math.MaxInt
	if page-1 <= math.MaxInt/perPage {
		offset = (page - 1) * perPage
	}

	result, err := s.taskRepo.List(ctx, filter, offset, perPage, req.All)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to list tasks", "error", err)
		return nil, err
	}

	lastPage := int((result.Total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}

	stats := services.TaskStats{
		Total:      result.Total,
		ByStatus:   make(map[models.TaskStatus]int64, len(models.AllTaskStatuses())),
		ByPriority: make(map[models.TaskPriority]int64, len(models.AllTaskPriorities())),
	}
	for _, status := range models.AllTaskStatuses() {
		stats.ByStatus[status] = result.ByStatus[status]
	}
	for _, priority := range models.AllTaskPriorities() {
		stats.ByPriority[priority] = result.ByPriority[priority]
	}

	return &services.TaskListResult{
		Tasks:    result.Items,
		All:      result.All,
		Page:     page,
		LastPage: lastPage,
		PerPage:  perPage,
		Total:    result.Total,
		Stats:    stats,
	}, nil
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error) {
	now := time.Now().UTC()

	return s.mutate(ctx, taskID, func(task *models.Task) bool {
		dueChanged := false

		if req.Title != nil {
			task.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.DueDate.Set {
			dueChanged = !sameTime(task.DueDate, req.DueDate.Value)
			task.DueDate = utcPtr(req.DueDate.Value)
		}
		if req.Priority != nil {
			task.Priority = models.TaskPriority(*req.Priority)
		}
		if req.Status != nil {
			task.OverrideStatus(models.TaskStatus(*req.Status), now)
		}

		return dueChanged
	})
}

func (s *TaskServiceImpl) RescheduleTask(ctx context.Context, taskID uuid.UUID, req *dto.RescheduleTaskRequest) (*models.Task, error) {
	now := time.Now().UTC()
	due := req.DueDate.UTC()

	return s.mutate(ctx, taskID, func(task *models.Task) bool {
		task.DueDate = &due
		task.OverrideStatus(models.TaskStatusRescheduled, now)
		return true
	})
}

func (s *TaskServiceImpl) CompleteTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	now := time.Now().UTC()

	return s.mutate(ctx, taskID, func(task *models.Task) bool {
		task.OverrideStatus(models.TaskStatusCompleted, now)
		return false
	})
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrTaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to delete task", "task_id", taskID, "error", err)
		return err
	}

	if s.attachments != nil {
		if err := s.attachments.RemoveTaskFiles(ctx, taskID); err != nil {
			logger.WarnContext(ctx, "Failed to remove task files", "task_id", taskID, "error", err)
		}
	}

	logger.InfoContext(ctx, "Task deleted", "task_id", taskID)

	s.afterChange(ctx, &ports.TaskEvent{
		Type:   ports.EventTaskDeleted,
		TaskID: taskID.String(),
	})
	return nil
}

// mutate applies apply to the locked task row and persists it. apply reports whether
// the due date moved, in which case reminders recorded for the old date are dropped.
func (s *TaskServiceImpl) mutate(ctx context.Context, taskID uuid.UUID, apply func(*models.Task) bool) (*models.Task, error) {
	var (
		previous   models.TaskStatus
		dueChanged bool
	)

	_, err := s.taskRepo.Update(ctx, taskID, func(task *models.Task) {
		previous = task.Status
		dueChanged = apply(task)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to update task", "task_id", taskID, "error", err)
		return nil, err
	}

	if dueChanged && s.notificationRepo != nil {
		if n, err := s.notificationRepo.DeleteByTask(ctx, taskID); err != nil {
			logger.WarnContext(ctx, "Failed to clear stale reminders", "task_id", taskID, "error", err)
		} else if n > 0 {
			logger.InfoContext(ctx, "Stale reminders cleared", "task_id", taskID, "count", n)
		}
	}

	updated, err := s.taskRepo.GetWithSubtasks(ctx, taskID)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Task updated", "task_id", taskID, "status", updated.Status)

	s.afterChange(ctx, &ports.TaskEvent{
		Type:   ports.EventTaskUpdated,
		TaskID: taskID.String(),
		Status: string(updated.Status),
		Data:   dto.TaskToTaskResponse(updated),
	})
	if updated.Status != previous {
		publishEvent(ctx, s.events, &ports.TaskEvent{
			Type:           ports.EventTaskStatusChanged,
			TaskID:         taskID.String(),
			Status:         string(updated.Status),
			PreviousStatus: string(previous),
		})
	}

	return updated, nil
}

func (s *TaskServiceImpl) afterChange(ctx context.Context, event *ports.TaskEvent) {
	if s.feed != nil {
		s.feed.InvalidateFeed(ctx)
	}
	publishEvent(ctx, s.events, event)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
