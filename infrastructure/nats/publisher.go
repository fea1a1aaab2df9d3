package nats

import (
	"context"
	"fmt"

	"taskmanager/pkg/logger"
)

// Publisher writes raw payloads to the task event stream.
type Publisher struct {
	client *Client
}

func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, subject string, data []byte) error {
	ack, err := p.client.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	logger.DebugContext(ctx, "Event published to JetStream",
		"subject", subject,
		"stream", ack.Stream,
		"sequence", ack.Sequence,
	)
	return nil
}
