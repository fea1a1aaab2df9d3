package routes

import (
	"github.com/gofiber/fiber/v2"

	"taskmanager/interfaces/api/handlers"
)

func SetupTaskRoutes(api fiber.Router, h *handlers.Handlers) {
	tasks := api.Group("/tasks")
	tasks.Get("/", h.TaskHandler.ListTasks)
	tasks.Post("/", h.TaskHandler.CreateTask)
	tasks.Get("/:id", h.TaskHandler.GetTask)
	tasks.Put("/:id", h.TaskHandler.UpdateTask)
	tasks.Patch("/:id/reschedule", h.TaskHandler.RescheduleTask)
	tasks.Patch("/:id/complete", h.TaskHandler.CompleteTask)
	tasks.Post("/:id/recompute", h.SubtaskHandler.RecomputeStatus)
	tasks.Get("/:id/subtasks", h.SubtaskHandler.ListSubtasks)
	tasks.Delete("/:id", h.TaskHandler.DeleteTask)
}

func SetupSubtaskRoutes(api fiber.Router, h *handlers.Handlers) {
	subtasks := api.Group("/subtasks")
	subtasks.Post("/", h.SubtaskHandler.CreateSubtask)
	subtasks.Get("/:id", h.SubtaskHandler.GetSubtask)
	subtasks.Put("/:id", h.SubtaskHandler.UpdateSubtask)
	subtasks.Delete("/:id", h.SubtaskHandler.DeleteSubtask)
}
