package services

import "context"

// StorageService sweeps attachment files that lost their database rows and
// reports disk usage of the local attachment store.
type StorageService interface {
	RunCleanup(ctx context.Context) *CleanupResult
	GetStorageStats(ctx context.Context) (*StorageStats, error)
	RegisterCleanupJob() error
}

type CleanupResult struct {
	FilesRemoved int   `json:"files_removed"`
	BytesFreed   int64 `json:"bytes_freed"`
}

type StorageStats struct {
	Provider        string  `json:"provider"`
	DiskTotal       uint64  `json:"disk_total"`
	DiskFree        uint64  `json:"disk_free"`
	DiskUsedPercent float64 `json:"disk_used_percent"`
	AttachmentsSize int64   `json:"attachments_size"`
	TaskFolderCount int     `json:"task_folder_count"`
}
