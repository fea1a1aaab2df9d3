package serviceimpl_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/application/serviceimpl"
	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/infrastructure/postgres"
	"taskmanager/pkg/testutil"
)

func TestDueReminderService_RunReminders(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	taskRepo := postgres.NewTaskRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	feed := serviceimpl.NewNotificationService(taskRepo, notificationRepo, nil, 0, nil)
	events := &recordingPublisher{}
	notifier := &fakeNotifier{enabled: true, fail: true}
	sched := newFakeScheduler()

	service := serviceimpl.NewDueReminderService(serviceimpl.DueReminderConfig{}, feed, notificationRepo, notifier, events, sched)

	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	soon := testutil.SeedTask(t, db, "Llamar al banco", dueAt(time.Date(2024, 1, 10, 18, 0, 0, 0, time.UTC)))
	late := testutil.SeedTask(t, db, "Renovar seguro", dueAt(time.Date(2024, 1, 9, 8, 30, 0, 0, time.UTC)))

	created, err := service.RunReminders(ctx, now)
	require.NoError(t, err, "a failing notifier does not fail the run")
	assert.Equal(t, 2, created)
	assert.Len(t, notifier.sent, 2)
	assert.Equal(t, []ports.EventType{ports.EventNotificationCreated, ports.EventNotificationCreated}, events.types())

	soonHistory, err := notificationRepo.List(ctx, &soon.ID, 10)
	require.NoError(t, err)
	require.Len(t, soonHistory, 1)
	assert.Equal(t, models.NotificationTypeDueSoon, soonHistory[0].Type)
	assert.Equal(t, `La tarea "Llamar al banco" vence pronto (2024-01-10 18:00).`, soonHistory[0].Message)

	lateHistory, err := notificationRepo.List(ctx, &late.ID, 10)
	require.NoError(t, err)
	require.Len(t, lateHistory, 1)
	assert.Equal(t, models.NotificationTypeOverdue, lateHistory[0].Type)
	assert.Equal(t, `La tarea "Renovar seguro" está vencida desde 2024-01-09 08:30.`, lateHistory[0].Message)

	// a second pass over the same due dates records nothing new
	created, err = service.RunReminders(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, created)
	assert.Len(t, notifier.sent, 2)

	// once the due-soon task is past due it earns an overdue reminder
	created, err = service.RunReminders(ctx, time.Date(2024, 1, 10, 19, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestDueReminderService_DisabledNotifier(t *testing.T) {
	db := testutil.NewTestDB(t)
	notificationRepo := postgres.NewNotificationRepository(db)
	feed := serviceimpl.NewNotificationService(postgres.NewTaskRepository(db), notificationRepo, nil, 0, nil)
	notifier := &fakeNotifier{}

	service := serviceimpl.NewDueReminderService(serviceimpl.DueReminderConfig{}, feed, notificationRepo, notifier, nil, newFakeScheduler())
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	testutil.SeedTask(t, db, "Tarea", dueAt(now.Add(time.Hour)))

	created, err := service.RunReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Empty(t, notifier.sent)
}

func TestDueReminderService_RegisterReminderJob(t *testing.T) {
	tests := []struct {
		name     string
		cron     string
		wantCron string
		wantErr  bool
	}{
		{"default schedule", "", "* * * * *", false},
		{"custom schedule", "*/5 * * * *", "*/5 * * * *", false},
		{"invalid schedule", "cada minuto", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewTestDB(t)
			notificationRepo := postgres.NewNotificationRepository(db)
			feed := serviceimpl.NewNotificationService(postgres.NewTaskRepository(db), notificationRepo, nil, 0, nil)
			sched := newFakeScheduler()

			service := serviceimpl.NewDueReminderService(serviceimpl.DueReminderConfig{Cron: tt.cron}, feed, notificationRepo, nil, nil, sched)
			err := service.RegisterReminderJob()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			job, ok := sched.GetJob("due_reminder")
			require.True(t, ok)
			assert.Equal(t, tt.wantCron, job.CronExpr)
			assert.NotPanics(t, sched.jobs["due_reminder"])
		})
	}
}
