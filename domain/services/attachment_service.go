package services

import (
	"context"
	"io"

	"github.com/google/uuid"

	"taskmanager/domain/models"
)

type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

type AttachmentService interface {
	Upload(ctx context.Context, taskID uuid.UUID, input *UploadInput) (*models.Attachment, error)
	List(ctx context.Context, taskID uuid.UUID) ([]*models.Attachment, error)
	Open(ctx context.Context, attachmentID uuid.UUID) (*models.Attachment, io.ReadCloser, error)
	Delete(ctx context.Context, attachmentID uuid.UUID) error
	// RemoveTaskFiles deletes stored blobs for a task that is being deleted.
	RemoveTaskFiles(ctx context.Context, taskID uuid.UUID) error
}
