package handlers

import (
	"taskmanager/domain/services"
	"taskmanager/pkg/scheduler"
)

// Services contains all the services needed for handlers
type Services struct {
	TaskService         services.TaskService
	SubtaskService      services.SubtaskService
	NotificationService services.NotificationService
	AttachmentService   services.AttachmentService
	UserService         services.UserService
	StorageService      services.StorageService // nil with object storage
	Scheduler           scheduler.EventScheduler
	Health              []HealthCheck
	AppName             string
}

// Handlers contains all HTTP handlers
type Handlers struct {
	TaskHandler         *TaskHandler
	SubtaskHandler      *SubtaskHandler
	NotificationHandler *NotificationHandler
	AttachmentHandler   *AttachmentHandler
	AuthHandler         *AuthHandler
	HealthHandler       *HealthHandler
}

func NewHandlers(services *Services) *Handlers {
	return &Handlers{
		TaskHandler:         NewTaskHandler(services.TaskService),
		SubtaskHandler:      NewSubtaskHandler(services.SubtaskService),
		NotificationHandler: NewNotificationHandler(services.NotificationService),
		AttachmentHandler:   NewAttachmentHandler(services.AttachmentService),
		AuthHandler:         NewAuthHandler(services.UserService),
		HealthHandler:       NewHealthHandler(services.AppName, services.Health, services.StorageService, services.Scheduler),
	}
}
