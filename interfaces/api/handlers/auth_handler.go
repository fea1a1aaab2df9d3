package handlers

import (
	"github.com/gofiber/fiber/v2"

	"taskmanager/domain/dto"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

type AuthHandler struct {
	userService services.UserService
}

func NewAuthHandler(userService services.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.userService.Register(ctx, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.CreatedResponse(c, "Usuario registrado exitosamente.", dto.UserToUserResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.userService.Login(ctx, &req)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Sesión iniciada.", resp)
}

// Me returns the user behind the bearer token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userCtx, err := utils.GetUserFromContext(c)
	if err != nil {
		logger.WarnContext(ctx, "Unauthorized access attempt")
		return utils.UnauthorizedResponse(c, "")
	}

	user, err := h.userService.GetProfile(ctx, userCtx.ID)
	if err != nil {
		return serviceError(c, err)
	}

	return utils.SuccessResponse(c, dto.UserToUserResponse(user))
}
