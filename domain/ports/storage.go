package ports

import (
	"context"
	"io"
)

// StoragePort hides where attachment bytes live (local disk, S3-compatible object store).
type StoragePort interface {
	// UploadFile stores file under path and returns the public URL. size may be -1 when unknown.
	UploadFile(ctx context.Context, file io.Reader, size int64, path, contentType string) (string, error)

	// DeleteFile is a no-op for paths that do not exist.
	DeleteFile(ctx context.Context, path string) error

	// DeleteFolder removes every object under prefix.
	DeleteFolder(ctx context.Context, prefix string) error

	GetFileURL(path string) string

	// GetFileContent returns the object body and its content type. The caller closes the reader.
	GetFileContent(ctx context.Context, path string) (io.ReadCloser, string, error)

	GetProviderName() string
}
