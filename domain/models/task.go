package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID                 uuid.UUID    `gorm:"primaryKey;type:uuid"`
	Title              string       `gorm:"size:255;not null"`
	TitleSearch        string       `gorm:"size:510;not null;default:''"` // SearchKey(Title)
	Description        string       `gorm:"type:text"`
	CreationDate       time.Time    `gorm:"not null;index"`
	DueDate            *time.Time   `gorm:"index"`
	Status             TaskStatus   `gorm:"size:20;not null;default:'Pendiente';index"`
	Priority           TaskPriority `gorm:"size:10;not null;default:'Media';index"`
	StatusSource       StatusSource `gorm:"size:10;not null;default:'derived'"`
	StatusOverriddenAt *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	Subtasks      []Subtask      `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Attachments   []Attachment   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreationDate.IsZero() {
		t.CreationDate = time.Now().UTC()
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	if t.StatusSource == "" {
		t.StatusSource = StatusSourceDerived
	}
	t.TitleSearch = SearchKey(t.Title)
	return nil
}

// SearchKey is the case-folded form title searches compare against. Folding happens
// here rather than in SQL because SQLite's LOWER only folds ASCII.
func SearchKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// OverrideStatus records a status chosen by a person. It holds until a subtask
// change alters the task's completion profile.
func (t *Task) OverrideStatus(status TaskStatus, at time.Time) {
	at = at.UTC()
	t.Status = status
	t.StatusSource = StatusSourceManual
	t.StatusOverriddenAt = &at
}

// ApplyDerivedStatus records a status computed from subtask completion.
func (t *Task) ApplyDerivedStatus(status TaskStatus) {
	t.Status = status
	t.StatusSource = StatusSourceDerived
	t.StatusOverriddenAt = nil
}

func (t *Task) IsManuallyOverridden() bool {
	return t.StatusSource == StatusSourceManual
}
