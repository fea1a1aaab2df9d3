package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name.required":     "El nombre es obligatorio.",
		"email.required":    "El correo electrónico es obligatorio.",
		"email.email":       "El correo electrónico no es válido.",
		"password.required": "La contraseña es obligatoria.",
		"password.min":      "La contraseña debe tener al menos 8 caracteres.",
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email.required":    "El correo electrónico es obligatorio.",
		"email.email":       "El correo electrónico no es válido.",
		"password.required": "La contraseña es obligatoria.",
	}
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user"`
}
