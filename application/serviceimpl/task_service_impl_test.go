package serviceimpl_test

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskmanager/application/serviceimpl"
	"taskmanager/domain/dto"
	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/domain/services"
	"taskmanager/infrastructure/postgres"
	"taskmanager/pkg/testutil"
)

type taskFixture struct {
	db          *gorm.DB
	service     services.TaskService
	events      *recordingPublisher
	invalidator *countingInvalidator
	storage     *memoryStorage
	attachments services.AttachmentService
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	taskRepo := postgres.NewTaskRepository(db)
	storage := newMemoryStorage()
	attachments := serviceimpl.NewAttachmentService(serviceimpl.AttachmentConfig{}, postgres.NewAttachmentRepository(db), taskRepo, storage)
	events := &recordingPublisher{}
	invalidator := &countingInvalidator{}

	return &taskFixture{
		db:          db,
		service:     serviceimpl.NewTaskService(taskRepo, postgres.NewNotificationRepository(db), attachments, invalidator, events),
		events:      events,
		invalidator: invalidator,
		storage:     storage,
		attachments: attachments,
	}
}

func strPtr(s string) *string { return &s }

func TestTaskService_CreateTask(t *testing.T) {
	due := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		req        dto.CreateTaskRequest
		wantStatus models.TaskStatus
		wantSource models.StatusSource
	}{
		{
			name:       "defaults to pending",
			req:        dto.CreateTaskRequest{Title: "  Preparar demo  ", Priority: "Alta", DueDate: &dto.DateTime{Time: due}},
			wantStatus: models.TaskStatusPending,
			wantSource: models.StatusSourceDerived,
		},
		{
			name:       "explicit status is a manual override",
			req:        dto.CreateTaskRequest{Title: "Archivar", Priority: "Baja", Status: "Completado"},
			wantStatus: models.TaskStatusCompleted,
			wantSource: models.StatusSourceManual,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTaskFixture(t)

			task, err := f.service.CreateTask(context.Background(), &tt.req)
			require.NoError(t, err)
			assert.Equal(t, strings.TrimSpace(tt.req.Title), task.Title)
			assert.Equal(t, tt.wantStatus, task.Status)
			assert.Equal(t, tt.wantSource, task.StatusSource)
			assert.False(t, task.CreationDate.IsZero())
			assert.NotNil(t, task.Subtasks)
			assert.Equal(t, []ports.EventType{ports.EventTaskCreated}, f.events.types())
			assert.Equal(t, 1, f.invalidator.calls)

			stored, err := f.service.GetTask(context.Background(), task.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, stored.Status)
		})
	}
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	due := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	task := testutil.SeedTask(t, f.db, "Informe", dueAt(due))
	testutil.SeedSubtask(t, f.db, task.ID, "Datos", true)
	testutil.SeedSubtask(t, f.db, task.ID, "Gráficos", false)
	require.NoError(t, f.db.Model(task).Update("status", models.TaskStatusInProgress).Error)
	require.NoError(t, f.db.Create(&models.Notification{TaskID: task.ID, Type: models.NotificationTypeDueSoon, Message: "pronto", DueDate: &due}).Error)

	t.Run("title only keeps status and reminders", func(t *testing.T) {
		updated, err := f.service.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Title: strPtr(" Informe final ")})
		require.NoError(t, err)
		assert.Equal(t, "Informe final", updated.Title)
		assert.Equal(t, models.TaskStatusInProgress, updated.Status)
		assert.Len(t, updated.Subtasks, 2)
		assert.Equal(t, int64(1), countNotifications(t, f.db, task.ID))
	})

	t.Run("moving the due date drops old reminders", func(t *testing.T) {
		later := due.Add(48 * time.Hour)
		updated, err := f.service.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{
			DueDate: dto.OptionalDateTime{Set: true, Value: &later},
		})
		require.NoError(t, err)
		require.NotNil(t, updated.DueDate)
		assert.True(t, later.Equal(*updated.DueDate))
		assert.Zero(t, countNotifications(t, f.db, task.ID))
	})

	t.Run("explicit null clears the due date", func(t *testing.T) {
		updated, err := f.service.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{
			DueDate: dto.OptionalDateTime{Set: true},
		})
		require.NoError(t, err)
		assert.Nil(t, updated.DueDate)
	})

	t.Run("status is recorded as manual", func(t *testing.T) {
		before := len(f.events.types())
		updated, err := f.service.UpdateTask(ctx, task.ID, &dto.UpdateTaskRequest{Status: strPtr("Completado")})
		require.NoError(t, err)
		assert.Equal(t, models.TaskStatusCompleted, updated.Status)
		assert.Equal(t, models.StatusSourceManual, updated.StatusSource)
		assert.NotNil(t, updated.StatusOverriddenAt)
		assert.Equal(t,
			[]ports.EventType{ports.EventTaskUpdated, ports.EventTaskStatusChanged},
			f.events.types()[before:],
		)
	})

	t.Run("missing task", func(t *testing.T) {
		_, err := f.service.UpdateTask(ctx, uuid.New(), &dto.UpdateTaskRequest{Title: strPtr("x")})
		assert.ErrorIs(t, err, services.ErrTaskNotFound)
	})
}

func TestTaskService_RescheduleAndComplete(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	task := testutil.SeedTask(t, f.db, "Revisión", nil)

	next := time.Date(2024, 5, 2, 15, 30, 0, 0, time.FixedZone("CST", -6*3600))
	rescheduled, err := f.service.RescheduleTask(ctx, task.ID, &dto.RescheduleTaskRequest{DueDate: &dto.DateTime{Time: next}})
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusRescheduled, rescheduled.Status)
	require.NotNil(t, rescheduled.DueDate)
	assert.True(t, next.Equal(*rescheduled.DueDate))

	completed, err := f.service.CompleteTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, completed.Status)

	_, err = f.service.CompleteTask(ctx, uuid.New())
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)

	for i := 0; i < 12; i++ {
		testutil.SeedTask(t, f.db, "Completada", func(task *models.Task) {
			task.Status = models.TaskStatusCompleted
		})
	}
	testutil.SeedTask(t, f.db, "Pendiente", nil)

	tests := []struct {
		name         string
		req          dto.TaskFilterRequest
		wantPage     int
		wantLastPage int
		wantItems    int
		wantTotal    int64
	}{
		{"first page", dto.TaskFilterRequest{Status: "Completado", Page: 1}, 1, 2, 10, 12},
		{"page clamped to one", dto.TaskFilterRequest{Status: "Completado", Page: -3}, 1, 2, 10, 12},
		{"beyond last page", dto.TaskFilterRequest{Status: "Completado", Page: 5}, 5, 2, 0, 12},
		{"offset would overflow", dto.TaskFilterRequest{Status: "Completado", Page: math.MaxInt / 5}, math.MaxInt / 5, 2, 0, 12},
		{"largest page", dto.TaskFilterRequest{Page: math.MaxInt}, math.MaxInt, 2, 0, 13},
		{"all means no filter", dto.TaskFilterRequest{Status: "all", Priority: "all"}, 1, 2, 10, 13},
		{"nothing matches", dto.TaskFilterRequest{Search: "inexistente"}, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := f.service.ListTasks(ctx, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantLastPage, result.LastPage)
			assert.Equal(t, services.DefaultTasksPerPage, result.PerPage)
			assert.Len(t, result.Tasks, tt.wantItems)
			assert.Equal(t, tt.wantTotal, result.Total)
			assert.Len(t, result.Stats.ByStatus, len(models.AllTaskStatuses()))
			assert.Len(t, result.Stats.ByPriority, len(models.AllTaskPriorities()))
		})
	}
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	f := newTaskFixture(t)
	task := testutil.SeedTask(t, f.db, "Con adjunto", nil)

	_, err := f.attachments.Upload(ctx, task.ID, &services.UploadInput{
		FileName: "nota.txt",
		Size:     4,
		Content:  strings.NewReader("hola"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, f.storage.count())

	require.NoError(t, f.service.DeleteTask(ctx, task.ID))
	assert.Zero(t, f.storage.count())
	assert.Contains(t, f.events.types(), ports.EventTaskDeleted)

	_, err = f.service.GetTask(ctx, task.ID)
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
	assert.ErrorIs(t, f.service.DeleteTask(ctx, task.ID), services.ErrTaskNotFound)
}

func dueAt(t time.Time) func(*models.Task) {
	return func(task *models.Task) { task.DueDate = &t }
}

func countNotifications(t *testing.T, db *gorm.DB, taskID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.Notification{}).Where("task_id = ?", taskID).Count(&n).Error)
	return n
}
