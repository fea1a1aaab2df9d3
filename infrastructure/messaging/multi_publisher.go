package messaging

import (
	"context"
	"errors"

	"taskmanager/domain/ports"
	"taskmanager/pkg/logger"
)

// MultiPublisher hands each event to every publisher. One failing publisher does
// not stop the others; their errors are joined.
type MultiPublisher struct {
	publishers []ports.EventPublisherPort
}

func NewMultiPublisher(publishers ...ports.EventPublisherPort) *MultiPublisher {
	m := &MultiPublisher{}
	for _, p := range publishers {
		if p != nil {
			m.publishers = append(m.publishers, p)
		}
	}
	return m
}

func (m *MultiPublisher) Publish(ctx context.Context, event *ports.TaskEvent) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, event); err != nil {
			logger.WarnContext(ctx, "Event publish failed",
				"event", event.Type,
				"task_id", event.TaskID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *MultiPublisher) Len() int {
	return len(m.publishers)
}
