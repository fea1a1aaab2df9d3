package repositories

import (
	"context"

	"github.com/google/uuid"

	"taskmanager/domain/models"
)

// StatusChange describes what a status recomputation did to the parent task.
type StatusChange struct {
	Task           *models.Task
	PreviousStatus models.TaskStatus
}

func (c *StatusChange) Changed() bool {
	return c != nil && c.Task != nil && c.Task.Status != c.PreviousStatus
}

// SubtaskRepository mutates subtasks and recomputes the parent task's status in the
// same transaction, so no reader observes one without the other.
type SubtaskRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error)
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Subtask, error)

	// CreateWithStatus returns ErrNotFound without writing anything when the task is missing.
	CreateWithStatus(ctx context.Context, subtask *models.Subtask) (*StatusChange, error)
	// UpdateWithStatus loads the subtask, applies mutate and saves it. A manual task status
	// survives unless mutate flipped IsCompleted.
	UpdateWithStatus(ctx context.Context, id uuid.UUID, mutate func(*models.Subtask)) (*models.Subtask, *StatusChange, error)
	DeleteWithStatus(ctx context.Context, id uuid.UUID) (*models.Subtask, *StatusChange, error)

	// RecomputeStatus derives the task status from its subtasks, replacing any manual status.
	RecomputeStatus(ctx context.Context, taskID uuid.UUID) (*StatusChange, error)
}
