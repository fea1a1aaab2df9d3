package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string    `json:"title" validate:"required,notblank,max=255"`
	Description *string   `json:"description"`
	DueDate     *DateTime `json:"due_date"`
	Priority    string    `json:"priority" validate:"required,task_priority"`
	Status      string    `json:"status" validate:"omitempty,task_status"`
}

func (CreateTaskRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"title.required":         "El título de la tarea es obligatorio.",
		"title.notblank":         "El título de la tarea es obligatorio.",
		"title.max":              "El título no puede tener más de 255 caracteres.",
		"priority.required":      "La prioridad es obligatoria.",
		"priority.task_priority": "La prioridad debe ser Alta, Media o Baja.",
		"status.task_status":     "El estado debe ser Pendiente, En Proceso, Completado o Reprogramada.",
	}
}

// UpdateTaskRequest is a partial update: nil fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string          `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string          `json:"description"`
	DueDate     OptionalDateTime `json:"due_date"`
	Priority    *string          `json:"priority" validate:"omitnil,task_priority"`
	Status      *string          `json:"status" validate:"omitnil,task_status"`
}

func (UpdateTaskRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"title.notblank":         "El título de la tarea es obligatorio.",
		"title.max":              "El título no puede tener más de 255 caracteres.",
		"priority.task_priority": "La prioridad debe ser Alta, Media o Baja.",
		"status.task_status":     "El estado debe ser Pendiente, En Proceso, Completado o Reprogramada.",
	}
}

type RescheduleTaskRequest struct {
	DueDate *DateTime `json:"due_date" validate:"required"`
}

func (RescheduleTaskRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"due_date.required": "La nueva fecha de entrega es obligatoria.",
	}
}

// TaskFilterRequest holds the listing query string. "all" or empty disables a filter.
type TaskFilterRequest struct {
	Status   string `query:"status" validate:"omitempty,task_status_filter"`
	Priority string `query:"priority" validate:"omitempty,task_priority_filter"`
	Search   string `query:"search" validate:"max=255"`
	Page     int    `query:"-"`
	All      bool   `query:"all"`
}

func (TaskFilterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"status.task_status_filter":     "El filtro de estado no es válido.",
		"priority.task_priority_filter": "El filtro de prioridad no es válido.",
	}
}

type TaskResponse struct {
	ID                 uuid.UUID         `json:"id"`
	Title              string            `json:"title"`
	Description        string            `json:"description"`
	CreationDate       time.Time         `json:"creation_date"`
	DueDate            *time.Time        `json:"due_date"`
	Status             string            `json:"status"`
	Priority           string            `json:"priority"`
	StatusSource       string            `json:"status_source"`
	StatusOverriddenAt *time.Time        `json:"status_overridden_at,omitempty"`
	SubtasksCount      int               `json:"subtasks_count"`
	CompletedSubtasks  int               `json:"completed_subtasks"`
	Subtasks           []SubtaskResponse `json:"subtasks"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

type TaskStatsResponse struct {
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByPriority map[string]int64 `json:"by_priority"`
}

type TaskListResponse struct {
	Tasks []TaskResponse    `json:"tasks"`
	Meta  PageMeta          `json:"meta"`
	Stats TaskStatsResponse `json:"stats"`
	All   []TaskResponse    `json:"all,omitempty"`
}

// TaskSummary is the slim task shape used by the notification feed.
type TaskSummary struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
	Status  string    `json:"status"`
}
