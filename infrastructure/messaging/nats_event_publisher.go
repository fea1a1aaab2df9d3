package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"taskmanager/domain/ports"
	natspkg "taskmanager/infrastructure/nats"
)

// NATSEventPublisher implements ports.EventPublisherPort on the TASK_EVENTS stream.
type NATSEventPublisher struct {
	publisher *natspkg.Publisher
}

func NewNATSEventPublisher(client *natspkg.Client) ports.EventPublisherPort {
	return &NATSEventPublisher{
		publisher: natspkg.NewPublisher(client),
	}
}

func (p *NATSEventPublisher) Publish(ctx context.Context, event *ports.TaskEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	return p.publisher.Publish(ctx, natspkg.Subject(string(event.Type)), data)
}
