package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name      string
		total     int64
		completed int64
		want      TaskStatus
	}{
		{"no subtasks", 0, 0, TaskStatusPending},
		{"none completed", 3, 0, TaskStatusPending},
		{"some completed", 3, 1, TaskStatusInProgress},
		{"all but one", 3, 2, TaskStatusInProgress},
		{"all completed", 3, 3, TaskStatusCompleted},
		{"single completed", 1, 1, TaskStatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.total, tt.completed))
		})
	}
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	first := DeriveStatus(4, 2)
	assert.Equal(t, first, DeriveStatus(4, 2))
}

func TestTaskStatusIsValid(t *testing.T) {
	for _, s := range AllTaskStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, TaskStatus("all").IsValid())
	assert.False(t, TaskStatus("pendiente").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestTaskPriorityIsValid(t *testing.T) {
	for _, p := range AllTaskPriorities() {
		assert.True(t, p.IsValid(), p)
	}
	assert.False(t, TaskPriority("Urgente").IsValid())
}

func TestTaskOverrideAndDerive(t *testing.T) {
	task := &Task{}
	at := time.Date(2024, 1, 10, 12, 0, 0, 0, time.FixedZone("x", 3600))

	task.OverrideStatus(TaskStatusRescheduled, at)
	assert.True(t, task.IsManuallyOverridden())
	assert.Equal(t, TaskStatusRescheduled, task.Status)
	if assert.NotNil(t, task.StatusOverriddenAt) {
		assert.Equal(t, time.UTC, task.StatusOverriddenAt.Location())
		assert.True(t, at.Equal(*task.StatusOverriddenAt))
	}

	task.ApplyDerivedStatus(TaskStatusInProgress)
	assert.False(t, task.IsManuallyOverridden())
	assert.Equal(t, TaskStatusInProgress, task.Status)
	assert.Nil(t, task.StatusOverriddenAt)
}
