package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskmanager/domain/dto"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

const msgTaskNotFound = "La tarea no existe."

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks handles GET /tasks?page=&search=&status=&priority=&all=
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.TaskFilterRequest
	if err := c.QueryParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid query parameters", "error", err)
		return utils.BadRequestResponse(c, "Los parámetros de búsqueda no son válidos.")
	}
	if ok, err := validate(c, &req); !ok {
		return err
	}

	// non-numeric or out of range pages fall back to 1
	req.Page = c.QueryInt("page", 1)
	if req.Page < 1 {
		req.Page = 1
	}

	result, err := h.taskService.ListTasks(ctx, &req)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to retrieve tasks", "error", err)
		return err
	}

	resp := dto.TaskListResponse{
		Tasks: dto.TasksToTaskResponses(result.Tasks),
		Meta: dto.PageMeta{
			CurrentPage: result.Page,
			LastPage:    result.LastPage,
			PerPage:     result.PerPage,
			Total:       result.Total,
		},
		Stats: dto.TaskStatsResponse{
			Total:      result.Stats.Total,
			ByStatus:   make(map[string]int64, len(result.Stats.ByStatus)),
			ByPriority: make(map[string]int64, len(result.Stats.ByPriority)),
		},
	}
	for status, count := range result.Stats.ByStatus {
		resp.Stats.ByStatus[string(status)] = count
	}
	for priority, count := range result.Stats.ByPriority {
		resp.Stats.ByPriority[string(priority)] = count
	}
	if req.All {
		resp.All = dto.TasksToTaskResponses(result.All)
	}

	return utils.SuccessResponse(c, resp)
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	task, err := h.taskService.GetTask(c.UserContext(), taskID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.CreateTaskRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	task, err := h.taskService.CreateTask(ctx, &req)
	if err != nil {
		return serviceError(c, err)
	}

	logger.InfoContext(ctx, "Task created", "task_id", task.ID)
	return utils.CreatedResponse(c, "Tarea creada exitosamente.", dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	var req dto.UpdateTaskRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	task, err := h.taskService.UpdateTask(c.UserContext(), taskID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Tarea actualizada exitosamente.", dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) RescheduleTask(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	var req dto.RescheduleTaskRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	task, err := h.taskService.RescheduleTask(c.UserContext(), taskID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Tarea reprogramada exitosamente.", dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) CompleteTask(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	task, err := h.taskService.CompleteTask(c.UserContext(), taskID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Tarea marcada como completada.", dto.TaskToTaskResponse(task))
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	if err := h.taskService.DeleteTask(c.UserContext(), taskID); err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Tarea eliminada exitosamente.", nil)
}
