package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/domain/models"
	"taskmanager/domain/repositories"
	"taskmanager/infrastructure/postgres"
	"taskmanager/pkg/testutil"
)

func taskStatus(t *testing.T, repo repositories.TaskRepository, id uuid.UUID) (models.TaskStatus, models.StatusSource) {
	t.Helper()
	task, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return task.Status, task.StatusSource
}

func TestSubtaskRepository_RecomputesOnEveryMutation(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := postgres.NewTaskRepository(db)
	repo := postgres.NewSubtaskRepository(db)
	ctx := context.Background()

	task := testutil.SeedTask(t, db, "Mudanza", nil)

	first := &models.Subtask{TaskID: task.ID, Title: "Cajas"}
	change, err := repo.CreateWithStatus(ctx, first)
	require.NoError(t, err)
	assert.False(t, change.Changed())

	second := &models.Subtask{TaskID: task.ID, Title: "Camión", IsCompleted: true}
	change, err = repo.CreateWithStatus(ctx, second)
	require.NoError(t, err)
	assert.True(t, change.Changed())
	assert.Equal(t, models.TaskStatusPending, change.PreviousStatus)
	assert.Equal(t, models.TaskStatusInProgress, change.Task.Status)

	// deleting the last incomplete subtask completes the task
	_, change, err = repo.DeleteWithStatus(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, change.Task.Status)
	status, _ := taskStatus(t, tasks, task.ID)
	assert.Equal(t, models.TaskStatusCompleted, status)

	_, change, err = repo.UpdateWithStatus(ctx, second.ID, func(s *models.Subtask) { s.IsCompleted = false })
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusPending, change.Task.Status)

	_, _, err = repo.DeleteWithStatus(ctx, second.ID)
	require.NoError(t, err)
	status, source := taskStatus(t, tasks, task.ID)
	assert.Equal(t, models.TaskStatusPending, status)
	assert.Equal(t, models.StatusSourceDerived, source)
}

func TestSubtaskRepository_CreateForMissingTask(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewSubtaskRepository(db)

	_, err := repo.CreateWithStatus(context.Background(), &models.Subtask{TaskID: uuid.New(), Title: "Huérfana"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	var count int64
	db.Model(&models.Subtask{}).Count(&count)
	assert.Zero(t, count)
}

func TestSubtaskRepository_ManualOverride(t *testing.T) {
	db := testutil.NewTestDB(t)
	tasks := postgres.NewTaskRepository(db)
	repo := postgres.NewSubtaskRepository(db)
	ctx := context.Background()

	task := testutil.SeedTask(t, db, "Viaje", func(task *models.Task) {
		task.OverrideStatus(models.TaskStatusRescheduled, time.Now())
	})
	subtask := testutil.SeedSubtask(t, db, task.ID, "Pasaporte", false)

	// a title edit keeps the manual status
	updated, change, err := repo.UpdateWithStatus(ctx, subtask.ID, func(s *models.Subtask) { s.Title = "Renovar pasaporte" })
	require.NoError(t, err)
	assert.Equal(t, "Renovar pasaporte", updated.Title)
	assert.False(t, change.Changed())
	status, source := taskStatus(t, tasks, task.ID)
	assert.Equal(t, models.TaskStatusRescheduled, status)
	assert.Equal(t, models.StatusSourceManual, source)

	// a completion change supersedes it
	_, change, err = repo.UpdateWithStatus(ctx, subtask.ID, func(s *models.Subtask) { s.IsCompleted = true })
	require.NoError(t, err)
	assert.True(t, change.Changed())
	status, source = taskStatus(t, tasks, task.ID)
	assert.Equal(t, models.TaskStatusCompleted, status)
	assert.Equal(t, models.StatusSourceDerived, source)
}

func TestSubtaskRepository_RecomputeIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewSubtaskRepository(db)
	ctx := context.Background()

	task := testutil.SeedTask(t, db, "Informe", func(task *models.Task) {
		task.OverrideStatus(models.TaskStatusCompleted, time.Now())
	})
	testutil.SeedSubtask(t, db, task.ID, "Borrador", true)
	testutil.SeedSubtask(t, db, task.ID, "Revisión", false)

	first, err := repo.RecomputeStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, first.Task.Status)

	second, err := repo.RecomputeStatus(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusInProgress, second.Task.Status)
	assert.False(t, second.Changed())

	_, err = repo.RecomputeStatus(ctx, uuid.New())
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
