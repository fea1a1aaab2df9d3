package serviceimpl_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmanager/application/serviceimpl"
	"taskmanager/domain/services"
	"taskmanager/infrastructure/postgres"
	"taskmanager/pkg/testutil"
)

func TestAttachmentService(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewTestDB(t)
	storage := newMemoryStorage()
	service := serviceimpl.NewAttachmentService(
		serviceimpl.AttachmentConfig{MaxUploadSize: 16},
		postgres.NewAttachmentRepository(db),
		postgres.NewTaskRepository(db),
		storage,
	)
	task := testutil.SeedTask(t, db, "Contrato", nil)

	attachment, err := service.Upload(ctx, task.ID, &services.UploadInput{
		FileName: "../Contrato Final.pdf",
		Size:     7,
		Content:  strings.NewReader("%PDF-1."),
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", attachment.MimeType)
	assert.NotContains(t, attachment.StoragePath, "..")
	assert.True(t, strings.HasPrefix(attachment.StoragePath, "tasks/"+task.ID.String()+"/"))
	assert.Equal(t, "memory://"+attachment.StoragePath, attachment.URL)

	list, err := service.List(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	opened, body, err := service.Open(ctx, attachment.ID)
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, body.Close())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.", string(data))
	assert.Equal(t, attachment.ID, opened.ID)

	require.NoError(t, service.Delete(ctx, attachment.ID))
	assert.Zero(t, storage.count())
	assert.ErrorIs(t, service.Delete(ctx, attachment.ID), services.ErrAttachmentNotFound)

	t.Run("rejections", func(t *testing.T) {
		_, err := service.Upload(ctx, task.ID, &services.UploadInput{FileName: "grande.bin", Size: 17, Content: strings.NewReader("")})
		assert.ErrorIs(t, err, services.ErrFileTooLarge)

		_, err = service.Upload(ctx, uuid.New(), &services.UploadInput{FileName: "a.txt", Size: 1, Content: strings.NewReader("a")})
		assert.ErrorIs(t, err, services.ErrTaskNotFound)

		_, err = service.List(ctx, uuid.New())
		assert.ErrorIs(t, err, services.ErrTaskNotFound)

		_, _, err = service.Open(ctx, uuid.New())
		assert.ErrorIs(t, err, services.ErrAttachmentNotFound)
		assert.Zero(t, storage.count())
	})
}
