package services

import (
	"context"

	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/models"
)

// DefaultTasksPerPage is the fixed listing page size.
const DefaultTasksPerPage = 10

type TaskStats struct {
	Total      int64
	ByStatus   map[models.TaskStatus]int64
	ByPriority map[models.TaskPriority]int64
}

type TaskListResult struct {
	Tasks    []*models.Task
	All      []*models.Task
	Page     int
	LastPage int
	PerPage  int
	Total    int64
	Stats    TaskStats
}

type TaskService interface {
	CreateTask(ctx context.Context, req *dto.CreateTaskRequest) (*models.Task, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	ListTasks(ctx context.Context, req *dto.TaskFilterRequest) (*TaskListResult, error)
	UpdateTask(ctx context.Context, taskID uuid.UUID, req *dto.UpdateTaskRequest) (*models.Task, error)
	// RescheduleTask sets a new due date and marks the task Reprogramada.
	RescheduleTask(ctx context.Context, taskID uuid.UUID, req *dto.RescheduleTaskRequest) (*models.Task, error)
	CompleteTask(ctx context.Context, taskID uuid.UUID) (*models.Task, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
}
