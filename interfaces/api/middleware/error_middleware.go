package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

// ErrorHandler turns errors returned by handlers into the JSON envelope.
// With debug on, the error text of a 500 is exposed in details.
func ErrorHandler(debug bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		errCode := utils.ErrCodeInternalError
		message := utils.MsgInternalError

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
			switch code {
			case fiber.StatusBadRequest:
				errCode = utils.ErrCodeBadRequest
			case fiber.StatusUnauthorized:
				errCode = utils.ErrCodeUnauthorized
			case fiber.StatusForbidden:
				errCode = utils.ErrCodeForbidden
			case fiber.StatusNotFound:
				errCode = utils.ErrCodeNotFound
				message = "Recurso no encontrado."
			case fiber.StatusConflict:
				errCode = utils.ErrCodeConflict
			case fiber.StatusRequestEntityTooLarge:
				errCode = utils.ErrCodePayloadTooLarge
			}
		}

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Unhandled error",
				"method", c.Method(),
				"path", c.Path(),
				"error", err,
			)
			var details interface{}
			if debug {
				details = err.Error()
			}
			return utils.InternalServerErrorResponse(c, details)
		}

		return utils.ErrorResponse(c, code, errCode, message, nil)
	}
}
