package websocket

import (
	"context"
	"encoding/json"

	"taskmanager/domain/ports"
	"taskmanager/pkg/logger"
)

// TaskRoom is the room that receives one task's events.
func TaskRoom(taskID string) string {
	return "task:" + taskID
}

// EventBroadcaster pushes task events to WebSocket clients.
type EventBroadcaster struct {
	hub *Hub
}

func NewEventBroadcaster(hub *Hub) *EventBroadcaster {
	return &EventBroadcaster{hub: hub}
}

var _ ports.EventPublisherPort = (*EventBroadcaster)(nil)

func (b *EventBroadcaster) Publish(_ context.Context, event *ports.TaskEvent) error {
	room := ""
	if event.TaskID != "" {
		room = TaskRoom(event.TaskID)
	}
	b.hub.Broadcast(room, Message{
		Type: string(event.Type),
		Data: event,
	})
	return nil
}

// HandleNATSMessage relays an event received from NATS, so every API instance
// serves every event to its own clients.
func (b *EventBroadcaster) HandleNATSMessage(subject string, data []byte) {
	var event ports.TaskEvent
	if err := json.Unmarshal(data, &event); err != nil {
		logger.Warn("Dropping malformed task event", "subject", subject, "error", err)
		return
	}
	_ = b.Publish(context.Background(), &event)
}
