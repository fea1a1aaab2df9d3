package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskmanager/domain/models"
	"taskmanager/domain/repositories"
)

type NotificationRepositoryImpl struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) repositories.NotificationRepository {
	return &NotificationRepositoryImpl{db: db}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *NotificationRepositoryImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&notification).Error; err != nil {
		return nil, translateError(err)
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (r *NotificationRepositoryImpl) List(ctx context.Context, taskID *uuid.UUID, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if taskID != nil {
		query = query.Where("task_id = ?", *taskID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepositoryImpl) Exists(ctx context.Context, taskID uuid.UUID, notificationType models.NotificationType, dueDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("task_id = ? AND type = ? AND due_date = ?", taskID, notificationType, dueDate.UTC()).
		Count(&count).Error
	return count > 0, err
}

func (r *NotificationRepositoryImpl) DeleteByTask(ctx context.Context, taskID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
