package ports

import (
	"context"
	"time"
)

// DueReminder is what gets pushed to an operator channel when a task nears or passes its due date.
type DueReminder struct {
	TaskID  string
	Title   string
	Type    string // due_soon, overdue
	Status  string
	DueDate time.Time
	Message string
}

// ReminderNotifierPort sends due-date reminders outside the app (Telegram).
type ReminderNotifierPort interface {
	SendDueReminder(ctx context.Context, reminder *DueReminder) error
	IsEnabled() bool
}
