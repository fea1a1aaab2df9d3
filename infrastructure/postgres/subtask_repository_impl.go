package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskmanager/domain/models"
	"taskmanager/domain/repositories"
)

type SubtaskRepositoryImpl struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) repositories.SubtaskRepository {
	return &SubtaskRepositoryImpl{db: db}
}

func (r *SubtaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&subtask).Error; err != nil {
		return nil, translateError(err)
	}
	return &subtask, nil
}

func (r *SubtaskRepositoryImpl) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*models.Subtask, error) {
	var subtasks []*models.Subtask
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").Order("id ASC").
		Find(&subtasks).Error
	return subtasks, err
}

func (r *SubtaskRepositoryImpl) CreateWithStatus(ctx context.Context, subtask *models.Subtask) (*repositories.StatusChange, error) {
	var change *repositories.StatusChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockTask(tx, subtask.TaskID); err != nil {
			return err
		}
		if err := tx.Create(subtask).Error; err != nil {
			return err
		}

		var err error
		change, err = recomputeTaskStatus(tx, subtask.TaskID, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func (r *SubtaskRepositoryImpl) UpdateWithStatus(ctx context.Context, id uuid.UUID, mutate func(*models.Subtask)) (*models.Subtask, *repositories.StatusChange, error) {
	var (
		subtask models.Subtask
		change  *repositories.StatusChange
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&subtask).Error; err != nil {
			return translateError(err)
		}
		if _, err := lockTask(tx, subtask.TaskID); err != nil {
			return err
		}

		wasCompleted := subtask.IsCompleted
		mutate(&subtask)
		subtask.UpdatedAt = time.Now().UTC()

		if err := tx.Model(&models.Subtask{}).Where("id = ?", subtask.ID).Updates(map[string]interface{}{
			"title":        subtask.Title,
			"description":  subtask.Description,
			"is_completed": subtask.IsCompleted,
			"updated_at":   subtask.UpdatedAt,
		}).Error; err != nil {
			return err
		}

		var err error
		change, err = recomputeTaskStatus(tx, subtask.TaskID, wasCompleted != subtask.IsCompleted)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &subtask, change, nil
}

func (r *SubtaskRepositoryImpl) DeleteWithStatus(ctx context.Context, id uuid.UUID) (*models.Subtask, *repositories.StatusChange, error) {
	var (
		subtask models.Subtask
		change  *repositories.StatusChange
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&subtask).Error; err != nil {
			return translateError(err)
		}
		if _, err := lockTask(tx, subtask.TaskID); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}

		var err error
		change, err = recomputeTaskStatus(tx, subtask.TaskID, true)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return &subtask, change, nil
}

func (r *SubtaskRepositoryImpl) RecomputeStatus(ctx context.Context, taskID uuid.UUID) (*repositories.StatusChange, error) {
	var change *repositories.StatusChange
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		change, err = recomputeTaskStatus(tx, taskID, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

// lockTask loads the parent row FOR UPDATE so concurrent subtask writes on the same
// task recompute one after another. SQLite ignores the locking clause.
func lockTask(tx *gorm.DB, taskID uuid.UUID) (*models.Task, error) {
	var task models.Task
	query := tx.Where("id = ?", taskID)
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := query.First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// recomputeTaskStatus derives the status from the current subtasks. When the task
// carries a manual status and override is false, the status is left alone.
func recomputeTaskStatus(tx *gorm.DB, taskID uuid.UUID, override bool) (*repositories.StatusChange, error) {
	task, err := lockTask(tx, taskID)
	if err != nil {
		return nil, err
	}

	change := &repositories.StatusChange{
		Task:           task,
		PreviousStatus: task.Status,
	}

	if task.IsManuallyOverridden() && !override {
		return change, nil
	}

	var counts struct {
		Total     int64
		Completed int64
	}
	if err := tx.Model(&models.Subtask{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN is_completed THEN 1 ELSE 0 END), 0) AS completed").
		Where("task_id = ?", taskID).
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	derived := models.DeriveStatus(counts.Total, counts.Completed)
	if task.Status == derived && task.StatusSource == models.StatusSourceDerived {
		return change, nil
	}

	task.ApplyDerivedStatus(derived)
	task.UpdatedAt = time.Now().UTC()

	if err := tx.Model(&models.Task{}).Where("id = ?", taskID).Updates(map[string]interface{}{
		"status":               task.Status,
		"status_source":        task.StatusSource,
		"status_overridden_at": nil,
		"updated_at":           task.UpdatedAt,
	}).Error; err != nil {
		return nil, err
	}

	return change, nil
}
