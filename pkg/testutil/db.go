// Package testutil holds helpers shared by package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"taskmanager/domain/models"
	"taskmanager/infrastructure/postgres"
)

// NewTestDB opens a private in-memory sqlite database with the schema migrated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, postgres.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// SeedTask inserts a task; mutate may adjust it before the insert.
func SeedTask(t *testing.T, db *gorm.DB, title string, mutate func(*models.Task)) *models.Task {
	t.Helper()

	task := &models.Task{
		Title:    title,
		Priority: models.TaskPriorityMedium,
		Status:   models.TaskStatusPending,
	}
	if mutate != nil {
		mutate(task)
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

// SeedSubtask inserts a subtask directly, bypassing status recomputation.
func SeedSubtask(t *testing.T, db *gorm.DB, taskID uuid.UUID, title string, completed bool) *models.Subtask {
	t.Helper()

	subtask := &models.Subtask{TaskID: taskID, Title: title, IsCompleted: completed}
	require.NoError(t, db.Create(subtask).Error)
	return subtask
}
