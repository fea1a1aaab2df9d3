package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"taskmanager/domain/dto"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

const msgAttachmentNotFound = "El archivo adjunto no existe."

type AttachmentHandler struct {
	attachmentService services.AttachmentService
}

func NewAttachmentHandler(attachmentService services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload reads the multipart field "file".
func (h *AttachmentHandler) Upload(c *fiber.Ctx) error {
	ctx := c.UserContext()

	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ValidationErrorResponse(c, map[string][]string{
			"file": {"El archivo es obligatorio."},
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open uploaded file", "filename", fileHeader.Filename, "error", err)
		return err
	}
	defer file.Close()

	attachment, err := h.attachmentService.Upload(ctx, taskID, &services.UploadInput{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Size:        fileHeader.Size,
		Content:     file,
	})
	if err != nil {
		return serviceError(c, err)
	}

	return utils.CreatedResponse(c, "Archivo adjuntado exitosamente.", dto.AttachmentToAttachmentResponse(attachment))
}

func (h *AttachmentHandler) List(c *fiber.Ctx) error {
	taskID, ok, err := parseID(c, "id", msgTaskNotFound)
	if !ok {
		return err
	}

	attachments, err := h.attachmentService.List(c.UserContext(), taskID)
	if err != nil {
		return serviceError(c, err)
	}

	out := make([]dto.AttachmentResponse, 0, len(attachments))
	for _, attachment := range attachments {
		out = append(out, *dto.AttachmentToAttachmentResponse(attachment))
	}
	return utils.SuccessResponse(c, out)
}

// Download streams the stored file regardless of the storage provider.
func (h *AttachmentHandler) Download(c *fiber.Ctx) error {
	attachmentID, ok, err := parseID(c, "id", msgAttachmentNotFound)
	if !ok {
		return err
	}

	attachment, body, err := h.attachmentService.Open(c.UserContext(), attachmentID)
	if err != nil {
		return serviceError(c, err)
	}

	c.Set(fiber.HeaderContentType, attachment.MimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", attachment.FileName))
	// fasthttp closes body once it has been streamed
	return c.SendStream(body, int(attachment.FileSize))
}

func (h *AttachmentHandler) Delete(c *fiber.Ctx) error {
	attachmentID, ok, err := parseID(c, "id", msgAttachmentNotFound)
	if !ok {
		return err
	}

	if err := h.attachmentService.Delete(c.UserContext(), attachmentID); err != nil {
		return serviceError(c, err)
	}

	return utils.MessageResponse(c, "Archivo adjunto eliminado.", nil)
}
