package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Subtask struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title       string    `gorm:"size:255;not null"`
	Description string    `gorm:"type:text"`
	IsCompleted bool      `gorm:"not null;default:false;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Task *Task `gorm:"foreignKey:TaskID"`
}

func (Subtask) TableName() string {
	return "subtasks"
}

func (s *Subtask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
