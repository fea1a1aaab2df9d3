package messaging_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"taskmanager/domain/ports"
	"taskmanager/infrastructure/messaging"
)

type stubPublisher struct {
	err   error
	calls int
}

func (s *stubPublisher) Publish(context.Context, *ports.TaskEvent) error {
	s.calls++
	return s.err
}

func TestMultiPublisher(t *testing.T) {
	errNATS := errors.New("nats unavailable")
	failing := &stubPublisher{err: errNATS}
	healthy := &stubPublisher{}

	multi := messaging.NewMultiPublisher(failing, nil, healthy)
	assert.Equal(t, 2, multi.Len(), "nil publishers are skipped")

	err := multi.Publish(context.Background(), &ports.TaskEvent{Type: ports.EventTaskCreated, TaskID: "t1"})
	assert.ErrorIs(t, err, errNATS)
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, healthy.calls, "a failing publisher does not block the rest")

	assert.NoError(t, messaging.NewMultiPublisher().Publish(context.Background(), &ports.TaskEvent{}))
}
