package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSubtaskRequest struct {
	TaskID      string  `json:"task_id" validate:"required,uuid"`
	Title       string  `json:"title" validate:"required,notblank,max=255"`
	Description *string `json:"description"`
	IsCompleted bool    `json:"is_completed"`
}

func (CreateSubtaskRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"task_id.required": "La tarea es obligatoria.",
		"task_id.uuid":     "La tarea seleccionada no existe.",
		"title.required":   "El título de la subtarea es obligatorio.",
		"title.notblank":   "El título de la subtarea es obligatorio.",
		"title.max":        "El título no puede tener más de 255 caracteres.",
	}
}

type UpdateSubtaskRequest struct {
	Title       *string `json:"title" validate:"omitnil,notblank,max=255"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"is_completed"`
}

func (UpdateSubtaskRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"title.notblank": "El título de la subtarea es obligatorio.",
		"title.max":      "El título no puede tener más de 255 caracteres.",
	}
}

type SubtaskResponse struct {
	ID          uuid.UUID `json:"id"`
	TaskID      uuid.UUID `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SubtaskMutationResponse returns the subtask together with the parent task status it produced.
type SubtaskMutationResponse struct {
	Subtask *SubtaskResponse `json:"subtask,omitempty"`
	Task    *TaskResponse    `json:"task,omitempty"`
}
