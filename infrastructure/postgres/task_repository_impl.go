package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmanager/domain/models"
	"taskmanager/domain/repositories"
)

type TaskRepositoryImpl struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) repositories.TaskRepository {
	return &TaskRepositoryImpl{db: db}
}

func (r *TaskRepositoryImpl) Create(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&task).Error; err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

func (r *TaskRepositoryImpl) GetWithSubtasks(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	var task models.Task
	err := r.db.WithContext(ctx).
		Preload("Subtasks", orderSubtasks).
		Where("id = ?", id).
		First(&task).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &task, nil
}

// Update loads the task row locked, applies mutate and writes the mutable columns
// back in one transaction, so a concurrent status recompute is never overwritten
// with a stale value. Zero values (cleared due date, empty description) are persisted.
func (r *TaskRepositoryImpl) Update(ctx context.Context, id uuid.UUID, mutate func(*models.Task)) (*models.Task, error) {
	var task *models.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if task, err = lockTask(tx, id); err != nil {
			return err
		}

		mutate(task)
		task.TitleSearch = models.SearchKey(task.Title)
		task.UpdatedAt = time.Now().UTC()

		return tx.Model(&models.Task{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"title":                task.Title,
				"title_search":         task.TitleSearch,
				"description":          task.Description,
				"due_date":             task.DueDate,
				"status":               task.Status,
				"priority":             task.Priority,
				"status_source":        task.StatusSource,
				"status_overridden_at": task.StatusOverriddenAt,
				"updated_at":           task.UpdatedAt,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Delete removes the task and everything hanging off it in one transaction.
func (r *TaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}

		result := tx.Where("id = ?", id).Delete(&models.Task{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

func (r *TaskRepositoryImpl) List(ctx context.Context, filter repositories.TaskFilter, offset, limit int, includeAll bool) (*repositories.TaskPage, error) {
	page := &repositories.TaskPage{
		ByStatus:   make(map[models.TaskStatus]int64),
		ByPriority: make(map[models.TaskPriority]int64),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// one snapshot for the page and its aggregates
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SET TRANSACTION ISOLATION LEVEL REPEATABLE READ READ ONLY").Error; err != nil {
				return err
			}
		}

		filtered := func() *gorm.DB {
			return applyTaskFilter(tx.Model(&models.Task{}), filter)
		}

		if err := filtered().Count(&page.Total).Error; err != nil {
			return err
		}

		var statusRows []struct {
			Status models.TaskStatus
			Count  int64
		}
		if err := filtered().Select("status, COUNT(*) AS count").Group("status").Scan(&statusRows).Error; err != nil {
			return err
		}
		for _, row := range statusRows {
			page.ByStatus[row.Status] = row.Count
		}

		var priorityRows []struct {
			Priority models.TaskPriority
			Count    int64
		}
		if err := filtered().Select("priority, COUNT(*) AS count").Group("priority").Scan(&priorityRows).Error; err != nil {
			return err
		}
		for _, row := range priorityRows {
			page.ByPriority[row.Priority] = row.Count
		}

		// past the last row there is nothing to fetch
		if int64(offset) < page.Total {
			if err := filtered().
				Preload("Subtasks", orderSubtasks).
				Order("creation_date DESC").Order("id DESC").
				Offset(offset).Limit(limit).
				Find(&page.Items).Error; err != nil {
				return err
			}
		}

		if includeAll {
			if err := filtered().
				Preload("Subtasks", orderSubtasks).
				Order("creation_date DESC").Order("id DESC").
				Find(&page.All).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (r *TaskRepositoryImpl) ListDueBetween(ctx context.Context, from, to time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Select("id", "title", "due_date", "status").
		Where("status <> ?", models.TaskStatusCompleted).
		Where("due_date IS NOT NULL AND due_date >= ? AND due_date <= ?", from.UTC(), to.UTC()).
		Order("due_date ASC").Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func (r *TaskRepositoryImpl) ListOverdue(ctx context.Context, before time.Time) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.db.WithContext(ctx).
		Select("id", "title", "due_date", "status").
		Where("status <> ?", models.TaskStatusCompleted).
		Where("due_date IS NOT NULL AND due_date < ?", before.UTC()).
		Order("due_date ASC").Order("id ASC").
		Find(&tasks).Error
	return tasks, err
}

func applyTaskFilter(query *gorm.DB, filter repositories.TaskFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where(`title_search LIKE ? ESCAPE '\'`, likePattern(search))
	}
	return query
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern makes search text match literally inside a LIKE expression.
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(models.SearchKey(search)) + "%"
}

func orderSubtasks(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}
