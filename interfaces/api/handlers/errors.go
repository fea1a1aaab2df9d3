package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"taskmanager/domain/dto"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

// serviceError maps domain sentinels to responses. Anything else goes to the
// app error handler as a 500.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return utils.NotFoundResponse(c, "La tarea no existe.")
	case errors.Is(err, services.ErrSubtaskNotFound):
		return utils.NotFoundResponse(c, "La subtarea no existe.")
	case errors.Is(err, services.ErrNotificationNotFound):
		return utils.NotFoundResponse(c, "La notificación no existe.")
	case errors.Is(err, services.ErrAttachmentNotFound):
		return utils.NotFoundResponse(c, "El archivo adjunto no existe.")
	case errors.Is(err, services.ErrUserNotFound):
		return utils.NotFoundResponse(c, "El usuario no existe.")
	case errors.Is(err, services.ErrEmailTaken):
		return utils.ConflictResponse(c, "El correo electrónico ya está registrado.")
	case errors.Is(err, services.ErrInvalidCredentials):
		return utils.UnauthorizedResponse(c, "Correo o contraseña incorrectos.")
	case errors.Is(err, services.ErrFileTooLarge):
		return utils.ErrorResponse(c, fiber.StatusRequestEntityTooLarge, utils.ErrCodePayloadTooLarge, "El archivo es demasiado grande.", nil)
	case errors.Is(err, services.ErrInsufficientDisk):
		return utils.ErrorResponse(c, fiber.StatusInsufficientStorage, utils.ErrCodeInsufficientDisk, "No hay espacio suficiente para guardar el archivo.", nil)
	}
	return err
}

// parseBody decodes and validates a JSON body. ok is false when a response was already written.
func parseBody(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		logger.WarnContext(c.UserContext(), "Invalid request body", "error", err)
		if errors.Is(err, dto.ErrInvalidDate) {
			return false, utils.ValidationErrorResponse(c, map[string][]string{
				"due_date": {"La fecha de entrega no es válida."},
			})
		}
		return false, utils.BadRequestResponse(c, "El cuerpo de la solicitud no es válido.")
	}
	return validate(c, req)
}

func validate(c *fiber.Ctx, req interface{}) (bool, error) {
	if err := utils.ValidateStruct(req); err != nil {
		details := utils.GetValidationErrors(err, req)
		logger.WarnContext(c.UserContext(), "Validation failed", "errors", details)
		return false, utils.ValidationErrorResponse(c, details)
	}
	return true, nil
}

func parseID(c *fiber.Ctx, param, message string) (uuid.UUID, bool, error) {
	raw := c.Params(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.WarnContext(c.UserContext(), "Invalid id parameter", "param", param, "value", raw)
		return uuid.Nil, false, utils.NotFoundResponse(c, message)
	}
	return id, true, nil
}
