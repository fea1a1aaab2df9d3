package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"taskmanager/domain/models"
)

// TaskFilter narrows task listings. Empty fields do not filter.
type TaskFilter struct {
	Status   models.TaskStatus
	Priority models.TaskPriority
	Search   string // case-insensitive substring of the title
}

// TaskPage is one page of a filtered listing plus aggregates over the whole filtered set.
type TaskPage struct {
	Items      []*models.Task
	All        []*models.Task // populated only when requested
	Total      int64
	ByStatus   map[models.TaskStatus]int64
	ByPriority map[models.TaskPriority]int64
}

type TaskRepository interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetWithSubtasks(ctx context.Context, id uuid.UUID) (*models.Task, error)
	// Update applies mutate to the current row under a row lock and saves it.
	Update(ctx context.Context, id uuid.UUID, mutate func(*models.Task)) (*models.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter TaskFilter, offset, limit int, includeAll bool) (*TaskPage, error)

	// ListDueBetween returns non-completed tasks with from <= due_date <= to, earliest first.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error)
	// ListOverdue returns non-completed tasks with due_date < before, earliest first.
	ListOverdue(ctx context.Context, before time.Time) ([]*models.Task, error)
}
