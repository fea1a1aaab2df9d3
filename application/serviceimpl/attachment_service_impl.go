package serviceimpl

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"

	"github.com/google/uuid"

	"taskmanager/domain/models"
	"taskmanager/domain/ports"
	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/utils"
)

type AttachmentConfig struct {
	MaxUploadSize int64
	// LocalBasePath enables the free-space check; leave empty for object storage.
	LocalBasePath  string
	MinFreePercent float64
}

type AttachmentServiceImpl struct {
	config         AttachmentConfig
	attachmentRepo repositories.AttachmentRepository
	taskRepo       repositories.TaskRepository
	storage        ports.StoragePort
}

func NewAttachmentService(
	config AttachmentConfig,
	attachmentRepo repositories.AttachmentRepository,
	taskRepo repositories.TaskRepository,
	storage ports.StoragePort,
) services.AttachmentService {
	if config.MaxUploadSize == 0 {
		config.MaxUploadSize = 20 << 20
	}
	return &AttachmentServiceImpl{
		config:         config,
		attachmentRepo: attachmentRepo,
		taskRepo:       taskRepo,
		storage:        storage,
	}
}

func (s *AttachmentServiceImpl) Upload(ctx context.Context, taskID uuid.UUID, input *services.UploadInput) (*models.Attachment, error) {
	if input.Size > s.config.MaxUploadSize {
		return nil, services.ErrFileTooLarge
	}

	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		return nil, err
	}

	if s.config.LocalBasePath != "" {
		ok, info, err := utils.CheckDiskSpace(s.config.LocalBasePath, input.Size, s.config.MinFreePercent)
		if err != nil {
			logger.WarnContext(ctx, "Disk space check failed", "error", err)
		} else if !ok {
			logger.WarnContext(ctx, "Upload refused, low disk space",
				"required", utils.FormatBytes(uint64(input.Size)),
				"free", utils.FormatBytes(info.Free),
			)
			return nil, services.ErrInsufficientDisk
		}
	}

	fileName := utils.SanitizeFileName(input.FileName)
	contentType := input.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(filepath.Ext(fileName)); byExt != "" {
			contentType = byExt
		}
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	attachment := &models.Attachment{
		ID:       uuid.New(),
		TaskID:   taskID,
		FileName: fileName,
		FileSize: input.Size,
		MimeType: contentType,
	}
	attachment.StoragePath = utils.AttachmentKey(taskID, attachment.ID, fileName)

	url, err := s.storage.UploadFile(ctx, input.Content, input.Size, attachment.StoragePath, contentType)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to store attachment", "task_id", taskID, "path", attachment.StoragePath, "error", err)
		return nil, err
	}
	attachment.URL = url

	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		logger.ErrorContext(ctx, "Failed to save attachment record", "task_id", taskID, "error", err)
		if delErr := s.storage.DeleteFile(ctx, attachment.StoragePath); delErr != nil {
			logger.WarnContext(ctx, "Failed to remove stored attachment", "path", attachment.StoragePath, "error", delErr)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "Attachment uploaded",
		"attachment_id", attachment.ID,
		"task_id", taskID,
		"size", input.Size,
		"provider", s.storage.GetProviderName(),
	)
	return attachment, nil
}

func (s *AttachmentServiceImpl) List(ctx context.Context, taskID uuid.UUID) ([]*models.Attachment, error) {
	if _, err := s.taskRepo.GetByID(ctx, taskID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrTaskNotFound
		}
		return nil, err
	}
	return s.attachmentRepo.ListByTask(ctx, taskID)
}

func (s *AttachmentServiceImpl) Open(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, io.ReadCloser, error) {
	attachment, err := s.getAttachment(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	body, _, err := s.storage.GetFileContent(ctx, attachment.StoragePath)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to open attachment", "attachment_id", attachmentID, "error", err)
		return nil, nil, err
	}
	return attachment, body, nil
}

func (s *AttachmentServiceImpl) Delete(ctx context.Context, attachmentID uuid.UUID) error {
	attachment, err := s.getAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}

	if err := s.attachmentRepo.Delete(ctx, attachmentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return services.ErrAttachmentNotFound
		}
		return err
	}

	if err := s.storage.DeleteFile(ctx, attachment.StoragePath); err != nil {
		logger.WarnContext(ctx, "Failed to delete attachment file", "path", attachment.StoragePath, "error", err)
	}

	logger.InfoContext(ctx, "Attachment deleted", "attachment_id", attachmentID, "task_id", attachment.TaskID)
	return nil
}

func (s *AttachmentServiceImpl) RemoveTaskFiles(ctx context.Context, taskID uuid.UUID) error {
	return s.storage.DeleteFolder(ctx, utils.AttachmentPrefix(taskID))
}

func (s *AttachmentServiceImpl) getAttachment(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, services.ErrAttachmentNotFound
		}
		return nil, err
	}
	return attachment, nil
}
