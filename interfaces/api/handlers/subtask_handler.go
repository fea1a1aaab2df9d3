package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskmanager/domain/dto"
	"taskmanager/domain/services"
	"taskmanager/pkg/utils"
)

const msgSubtaskNotFound = "La subtarea no existe."

// SubtaskHandler answers every mutation with the subtask and its parent task,
// so the client sees the recomputed task status without another request.
type SubtaskHandler struct {
	subtaskService services.SubtaskService
}

func NewSubtaskHandler(subtaskService services.SubtaskService) *SubtaskHandler {
	return &SubtaskHandler{subtaskService: subtaskService}
}

func (h *SubtaskHandler) ListSubtasks(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	subtasks, err := h.subtaskService.ListSubtasks(c.UserContext(), taskID)
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.SubtaskResponse, 0, len(subtasks))
	for _, subtask := range subtasks {
		out = append(out, *dto.SubtaskToSubtaskResponse(subtask))
	}
	return utils.SuccessResponse(c, out)
}

func (h *SubtaskHandler) GetSubtask(c *fiber.Ctx) error {
	subtaskID, ok, err := parseID(c, "id", msgSubtaskNotFound)
	if !ok {
		return err
	}

	subtask, err := h.subtaskService.GetSubtask(c.UserContext(), subtaskID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.SuccessResponse(c, dto.SubtaskToSubtaskResponse(subtask))
}

func (h *SubtaskHandler) CreateSubtask(c *fiber.Ctx) error {
	var req dto.CreateSubtaskRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	subtask, task, err := h.subtaskService.CreateSubtask(c.UserContext(), &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.CreatedResponse(c, "Subtarea creada exitosamente.", dto.SubtaskMutationResponse{
		Subtask: dto.SubtaskToSubtaskResponse(subtask),
		Task:    dto.TaskToTaskResponse(task),
	})
}

func (h *SubtaskHandler) UpdateSubtask(c *fiber.Ctx) error {
	subtaskID, ok, err := parseID(c, "id", msgSubtaskNotFound)
	if !ok {
		return err
	}

	var req dto.UpdateSubtaskRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	subtask, task, err := h.subtaskService.UpdateSubtask(c.UserContext(), subtaskID, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Subtarea actualizada exitosamente.", dto.SubtaskMutationResponse{
		Subtask: dto.SubtaskToSubtaskResponse(subtask),
		Task:    dto.TaskToTaskResponse(task),
	})
}

func (h *SubtaskHandler) DeleteSubtask(c *fiber.Ctx) error {
	subtaskID, ok, err := parseID(c, "id", msgSubtaskNotFound)
	if !ok {
		return err
	}

	task, err := h.subtaskService.DeleteSubtask(c.UserContext(), subtaskID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Subtarea eliminada exitosamente.", dto.SubtaskMutationResponse{
		Task: dto.TaskToTaskResponse(task),
	})
}

// RecomputeStatus forces a derived status for the task from its current subtasks.
func (h *SubtaskHandler) RecomputeStatus(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	task, err := h.subtaskService.RecomputeStatus(c.UserContext(), taskID)
	if err != nil {
		return serviceError(c, err)
	}
	return utils.MessageResponse(c, "Estado de la tarea recalculado.", dto.TaskToTaskResponse(task))
}
