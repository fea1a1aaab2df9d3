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

func TestNotificationRepository(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := postgres.NewNotificationRepository(db)
	ctx := context.Background()

	task := testutil.SeedTask(t, db, "Pagar renta", nil)
	other := testutil.SeedTask(t, db, "Otra", nil)
	due := time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)

	first := &models.Notification{TaskID: task.ID, Type: models.NotificationTypeDueSoon, Message: "pronto", DueDate: &due}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, &models.Notification{TaskID: other.ID, Type: models.NotificationTypeCustom, Message: "otra"}))

	exists, err := repo.Exists(ctx, task.ID, models.NotificationTypeDueSoon, due)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, task.ID, models.NotificationTypeDueSoon, due.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, exists, "a new due date is a new reminder")

	exists, err = repo.Exists(ctx, task.ID, models.NotificationTypeOverdue, due)
	require.NoError(t, err)
	assert.False(t, exists)

	all, err := repo.List(ctx, nil, 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := repo.List(ctx, &task.ID, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, first.ID, mine[0].ID)

	removed, err := repo.DeleteByTask(ctx, task.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New()), repositories.ErrNotFound)
}
