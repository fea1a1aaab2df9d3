package services

import (
	"context"

	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
)

// SubtaskService returns the parent task alongside each mutation so callers see the
// status the change produced.
type SubtaskService interface {
	CreateSubtask(ctx context.Context, req *dto.CreateSubtaskRequest) (*models.Subtask, *models.Task, error)
	GetSubtask(ctx context.Context, subtaskID uuid.UUID) (*models.Subtask, error)
	ListSubtasks(ctx context.Context, taskID uuid.UUID) ([]*models.Subtask, error)
	UpdateSubtask(ctx context.Context, subtaskID uuid.UUID, req *dto.UpdateSubtaskRequest) (*models.Subtask, *models.Task, error)
	DeleteSubtask(ctx context.Context, subtaskID uuid.UUID) (*models.Task, error)
	RecomputeStatus(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
}
