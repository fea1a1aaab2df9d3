package serviceimpl

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
)

type SubtaskServiceImpl struct {
	subtaskRepo repositories.SubtaskRepository
	taskRepo    repositories.TaskRepository
	feed        feedInvalidator          // optional
	events      ports.EventPublisherPort // optional
}

func NewSubtaskService(
	subtaskRepo repositories.SubtaskRepository,
	taskRepo repositories.TaskRepository,
	feed feedInvalidator,
	events ports.EventPublisherPort,
) services.SubtaskService {
	return &SubtaskServiceImpl{
		subtaskRepo: subtaskRepo,
		taskRepo:    taskRepo,
		feed:        feed,
		events:      events,
	}
}

func (s *SubtaskServiceImpl) CreateSubtask(ctx context.Context, req *dto.CreateSubtaskRequest) (*models.Subtask, *models.Task, error) {
	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		return nil, nil, services.ErrTaskNotFound
	}

	subtask := &models.Subtask{
		TaskID:      taskID,
		Title:       strings.TrimSpace(req.Title),
		IsCompleted: req.IsCompleted,
	}
	if req.Description != nil {
		subtask.Description = *req.Description
	}

	change, err := s.subtaskRepo.CreateWithStatus(ctx, subtask)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			logger.WarnContext(ctx, "Subtask rejected, task not found", "task_id", taskID)
			return nil, nil, services.ErrTaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to create subtask", "task_id", taskID, "error", err)
		return nil, nil, err
	}

	logger.InfoContext(ctx, "Subtask created", "subtask_id", subtask.ID, "task_id", taskID, "task_status", change.Task.Status)

	s.afterChange(ctx, ports.EventSubtaskCreated, subtask, change)
	return subtask, s.reload(ctx, change), nil
}

func (s *SubtaskServiceImpl) GetSubtask(ctx context.Context, subtaskID uuid.UUID) (*models.Subtask, error) {
	subtask, err := s.subtaskRepo.GetByID(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrSubtaskNotFound
		}
		return nil, err
	}
	return subtask, nil
}

func (s *SubtaskServiceImpl) ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]*models.Subtask, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		return nil, err
	}
	return s.subtaskRepo.ListByTask(ctx, taskID)
}

func (s *SubtaskServiceImpl) UpdateSubtask(ctx context.Context, subtaskID uuid.UUID, req *dto.UpdateSubtaskRequest) (*models.Subtask, *models.Task, error) {
	subtask, change, err := s.subtaskRepo.UpdateWithStatus(ctx, subtaskID, func(st *models.Subtask) {
		if req.Title != nil {
			st.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			st.Description = *req.Description
		}
		if req.IsCompleted != nil {
			st.IsCompleted = *req.IsCompleted
		}
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, services.ErrSubtaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to update subtask", "subtask_id", subtaskID, "error", err)
		return nil, nil, err
	}

	logger.InfoContext(ctx, "Subtask updated", "subtask_id", subtaskID, "task_status", change.Task.Status)

	s.afterChange(ctx, ports.EventSubtaskUpdated, subtask, change)
	return subtask, s.reload(ctx, change), nil
}

func (s *SubtaskServiceImpl) DeleteSubtask(ctx context.Context, subtaskID uuid.UUID) (*models.Task, error) {
	subtask, change, err := s.subtaskRepo.DeleteWithStatus(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrSubtaskNotFound
		}
		logger.ErrorContext(ctx, "Failed to delete subtask", "subtask_id", subtaskID, "error", err)
		return nil, err
	}

	logger.InfoContext(ctx, "Subtask deleted", "subtask_id", subtaskID, "task_status", change.Task.Status)

	s.afterChange(ctx, ports.EventSubtaskDeleted, subtask, change)
	return s.reload(ctx, change), nil
}

func (s *SubtaskServiceImpl) RecomputeStatus(ctx context.Context, taskID uuid.UUID) (*models.Task, error) {
	change, err := s.subtaskRepo.RecomputeStatus(ctx, taskID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		return nil, err
	}

	if change.Changed() {
		if s.feed != nil {
			s.feed.InvalidateFeed(ctx)
		}
		publishEvent(ctx, s.events, statusChangedEvent(change))
	}
	return s.reload(ctx, change), nil
}

func (s *SubtaskServiceImpl) afterChange(ctx context.Context, eventType ports.EventType, subtask *models.Subtask, change *repositories.StatusChange) {
	if s.feed != nil {
		s.feed.InvalidateFeed(ctx)
	}

	publishEvent(ctx, s.events, &ports.TaskEvent{
		Type:      eventType,
		TaskID:    subtask.TaskID.String(),
		SubtaskID: subtask.ID.String(),
		Status:    string(change.Task.Status),
		Data:      dto.SubtaskToSubtaskResponse(subtask),
	})
	if change.Changed() {
		publishEvent(ctx, s.events, statusChangedEvent(change))
	}
}

// reload returns the parent task with its subtasks, falling back to the bare row.
func (s *SubtaskServiceImpl) reload(ctx context.Context, change *repositories.StatusChange) *models.Task {
	task, err := s.taskRepo.GetWithSubtasks(ctx, change.Task.ID)
	if err != nil {
		logger.WarnContext(ctx, "Failed to reload task after subtask change", "task_id", change.Task.ID, "error", err)
		return change.Task
	}
	return task
}
