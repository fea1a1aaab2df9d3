package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a file stored for a task. StoragePath is the object key inside the storage backend.
type Attachment struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	FileName    string    `gorm:"size:255;not null"`
	FileSize    int64     `gorm:"not null"`
	MimeType    string    `gorm:"size:100"`
	StoragePath string    `gorm:"size:500;not null"`
	URL         string    `gorm:"size:1000"`
	CreatedAt   time.Time
}

func (Attachment) TableName() string {
	return "attachments"
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
