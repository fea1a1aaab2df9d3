package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeDueSoon NotificationType = "due_soon"
	NotificationTypeOverdue NotificationType = "overdue"
	NotificationTypeCustom  NotificationType = "custom"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeDueSoon, NotificationTypeOverdue, NotificationTypeCustom:
		return true
	}
	return false
}

// Notification is a persisted reminder about a task. DueDate is a snapshot of the
// task's due date when the reminder was recorded.
type Notification struct {
	ID        uuid.UUID        `gorm:"primaryKey;type:uuid"`
	TaskID    uuid.UUID        `gorm:"type:uuid;not null;index:idx_notifications_task_type"`
	Type      NotificationType `gorm:"size:20;not null;index:idx_notifications_task_type"`
	Message   string           `gorm:"type:text;not null"`
	DueDate   *time.Time
	CreatedAt time.Time

	Task *Task `gorm:"foreignKey:TaskID"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
