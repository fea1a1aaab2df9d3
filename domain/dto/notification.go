package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationFeed struct {
	DueSoon     []TaskSummary `json:"due_soon"`
	Overdue     []TaskSummary `json:"overdue"`
	GeneratedAt time.Time     `json:"generated_at"`
}

type CreateNotificationRequest struct {
	TaskID  string    `json:"task_id" validate:"required,uuid"`
	Type    string    `json:"type" validate:"omitempty,oneof=due_soon overdue custom"`
	Message string    `json:"message" validate:"required,max=1000"`
	DueDate *DateTime `json:"due_date"`
}

func (CreateNotificationRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"task_id.required": "La tarea es obligatoria.",
		"task_id.uuid":     "La tarea seleccionada no existe.",
		"type.oneof":       "El tipo debe ser due_soon, overdue o custom.",
		"message.required": "El mensaje es obligatorio.",
		"message.max":      "El mensaje no puede tener más de 1000 caracteres.",
	}
}

type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	TaskID    uuid.UUID  `json:"task_id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	DueDate   *time.Time `json:"due_date"`
	CreatedAt time.Time  `json:"created_at"`
}
