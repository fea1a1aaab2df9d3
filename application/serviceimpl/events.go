package serviceimpl

import (
	"context"
	"time"

	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/pkg/logger"
)

type feedInvalidator interface {
	InvalidateFeed(ctx context.Context)
}

// publishEvent delivers an event without letting a delivery failure leak to the caller.
func publishEvent(ctx context.Context, publisher ports.EventPublisherPort, event *ports.TaskEvent) {
	if publisher == nil || event == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.WarnContext(ctx, "Failed to publish event", "event", event.Type, "task_id", event.TaskID, "error", err)
	}
}

func statusChangedEvent(change *repositories.StatusChange) *ports.TaskEvent {
	return &ports.TaskEvent{
		Type:           ports.EventTaskStatusChanged,
		TaskID:         change.Task.ID.String(),
		Status:         string(change.Task.Status),
		PreviousStatus: string(change.PreviousStatus),
	}
}
