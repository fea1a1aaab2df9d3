package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

// Protected validates the bearer token and stores the user in Locals("user").
func Protected(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.UnauthorizedResponse(c, "Falta el encabezado de autorización.")
		}

		token := utils.ExtractTokenFromHeader(authHeader)
		if token == "" {
			return utils.UnauthorizedResponse(c, "Formato de autorización no válido.")
		}

		userCtx, err := utils.ValidateToken(token, jwtSecret)
		if err != nil {
			logger.WarnContext(c.UserContext(), "Token validation failed", "error", err)
			switch {
			case errors.Is(err, utils.ErrExpiredToken):
				return utils.UnauthorizedResponse(c, "El token ha expirado.")
			default:
				return utils.UnauthorizedResponse(c, "Token no válido.")
			}
		}

		c.Locals("user", userCtx)
		return c.Next()
	}
}
