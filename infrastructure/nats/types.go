package nats

import "time"

const (
	StreamName    = "TASK_EVENTS"
	SubjectPrefix = "tasks.events"
	SubjectAll    = SubjectPrefix + ".>"

	streamMaxAge = 7 * 24 * time.Hour
)

// Subject returns the subject an event type is published on, e.g. tasks.events.task.created.
func Subject(eventType string) string {
	return SubjectPrefix + "." + eventType
}

type StreamStatus struct {
	Name      string    `json:"name"`
	Messages  uint64    `json:"messages"`
	Bytes     uint64    `json:"bytes"`
	FirstSeq  uint64    `json:"first_seq"`
	LastSeq   uint64    `json:"last_seq"`
	Consumers int       `json:"consumers"`
	LastTime  time.Time `json:"last_time,omitempty"`
}
