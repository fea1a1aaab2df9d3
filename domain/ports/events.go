package ports

import (
	"context"
	"time"
)

// ═══════════════════════════════════════════════════════════════════════════════
// Task events - plain structs, no transport dependency
// ═══════════════════════════════════════════════════════════════════════════════

type EventType string

const (
	EventTaskCreated         EventType = "task.created"
	EventTaskUpdated         EventType = "task.updated"
	EventTaskStatusChanged   EventType = "task.status_changed"
	EventTaskDeleted         EventType = "task.deleted"
	EventSubtaskCreated      EventType = "subtask.created"
	EventSubtaskUpdated      EventType = "subtask.updated"
	EventSubtaskDeleted      EventType = "subtask.deleted"
	EventNotificationCreated EventType = "notification.created"
)

type TaskEvent struct {
	Type           EventType `json:"type"`
	TaskID         string    `json:"task_id"`
	SubtaskID      string    `json:"subtask_id,omitempty"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Data           any       `json:"data,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisherPort delivers task events to whoever listens (NATS, WebSocket clients).
// Delivery is best-effort; a failed publish never undoes the change that caused it.
type EventPublisherPort interface {
	Publish(ctx context.Context, event *TaskEvent) error
}
