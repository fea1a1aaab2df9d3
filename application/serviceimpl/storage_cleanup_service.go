package serviceimpl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"taskmanager/domain/repositories"
	"taskmanager/domain/services"
	"taskmanager/pkg/logger"
	"taskmanager/pkg/scheduler"
	"taskmanager/pkg/utils"
)

const storageCleanupJobID = "storage_cleanup"

type StorageCleanupConfig struct {
	BasePath       string        // local storage root, the sweep looks under <BasePath>/tasks
	CleanupCron    string        // default "0 3 * * *"
	MinFileAge     time.Duration // files younger than this are skipped, default 1h
	MinFreePercent float64       // warn below this, default 10
}

// StorageCleanupService removes local attachment files whose task or attachment
// row no longer exists. Object storage is cleaned on delete only.
type StorageCleanupService struct {
	config         StorageCleanupConfig
	taskRepo       repositories.TaskRepository
	attachmentRepo repositories.AttachmentRepository
	scheduler      scheduler.EventScheduler
	now            func() time.Time
}

var _ services.StorageService = (*StorageCleanupService)(nil)

func NewStorageCleanupService(
	config StorageCleanupConfig,
	taskRepo repositories.TaskRepository,
	attachmentRepo repositories.AttachmentRepository,
	eventScheduler scheduler.EventScheduler,
) *StorageCleanupService {
	if config.CleanupCron == "" {
		config.CleanupCron = "0 3 * * *"
	}
	if config.MinFileAge == 0 {
		config.MinFileAge = time.Hour
	}
	if config.MinFreePercent == 0 {
		config.MinFreePercent = 10
	}

	return &StorageCleanupService{
		config:         config,
		taskRepo:       taskRepo,
		attachmentRepo: attachmentRepo,
		scheduler:      eventScheduler,
		now:            time.Now,
	}
}

func (s *StorageCleanupService) RegisterCleanupJob() error {
	return s.scheduler.AddJob(storageCleanupJobID, s.config.CleanupCron, func() {
		s.RunCleanup(context.Background())
	})
}

func (s *StorageCleanupService) RunCleanup(ctx context.Context) *services.CleanupResult {
	result := &services.CleanupResult{}
	tasksDir := s.tasksDir()

	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.WarnContext(ctx, "Error reading attachments directory", "error", err)
		}
		return result
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		taskID, err := uuid.Parse(entry.Name())
		if err != nil {
			continue
		}

		taskDir := filepath.Join(tasksDir, entry.Name())
		_, err = s.taskRepo.GetByID(ctx, taskID)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			s.removeTaskDir(ctx, taskDir, taskID, result)
		case err != nil:
			logger.WarnContext(ctx, "Skipping task folder", "task_id", taskID, "error", err)
		default:
			s.sweepTaskDir(ctx, taskDir, result)
		}
	}

	s.checkDiskSpace(ctx)

	logger.InfoContext(ctx, "Storage cleanup completed",
		"files_removed", result.FilesRemoved,
		"space_freed", utils.FormatBytes(uint64(result.BytesFreed)),
	)
	return result
}

func (s *StorageCleanupService) removeTaskDir(ctx context.Context, dir string, taskID uuid.UUID, result *services.CleanupResult) {
	size, _ := utils.GetDirectorySize(dir)
	files := countFiles(dir)
	if err := os.RemoveAll(dir); err != nil {
		logger.WarnContext(ctx, "Failed to delete orphaned task folder", "task_id", taskID, "error", err)
		return
	}
	result.FilesRemoved += files
	result.BytesFreed += size
	logger.InfoContext(ctx, "Deleted orphaned task folder", "task_id", taskID, "size", utils.FormatBytes(uint64(size)))
}

// sweepTaskDir removes files named <attachment id>-... whose attachment row is gone.
func (s *StorageCleanupService) sweepTaskDir(ctx context.Context, dir string, result *services.CleanupResult) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	cutoff := s.now().Add(-s.config.MinFileAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if len(name) <= 36 || name[36] != '-' {
			continue
		}
		attachmentID, err := uuid.Parse(name[:36])
		if err != nil {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		if _, err := s.attachmentRepo.GetByID(ctx, attachmentID); !errors.Is(err, repositories.ErrNotFound) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, name)); err == nil {
			result.FilesRemoved++
			result.BytesFreed += info.Size()
			logger.DebugContext(ctx, "Deleted orphaned attachment file", "file", name)
		}
	}
}

func (s *StorageCleanupService) checkDiskSpace(ctx context.Context) {
	info, err := utils.GetDiskInfo(s.config.BasePath)
	if err != nil {
		logger.WarnContext(ctx, "Failed to get disk info", "error", err)
		return
	}

	if 100-info.UsedPercent < s.config.MinFreePercent {
		logger.WarnContext(ctx, "Low disk space warning",
			"free", utils.FormatBytes(info.Free),
			"used_percent", info.UsedPercent,
		)
	}
}

func (s *StorageCleanupService) GetStorageStats(ctx context.Context) (*services.StorageStats, error) {
	info, err := utils.GetDiskInfo(s.config.BasePath)
	if err != nil {
		return nil, err
	}

	size, err := utils.GetDirectorySize(s.tasksDir())
	if err != nil {
		logger.WarnContext(ctx, "Failed to measure attachments folder", "error", err)
	}

	folders := 0
	if entries, err := os.ReadDir(s.tasksDir()); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				folders++
			}
		}
	}

	return &services.StorageStats{
		Provider:        "local",
		DiskTotal:       info.Total,
		DiskFree:        info.Free,
		DiskUsedPercent: info.UsedPercent,
		AttachmentsSize: size,
		TaskFolderCount: folders,
	}, nil
}

func (s *StorageCleanupService) tasksDir() string {
	return filepath.Join(s.config.BasePath, "tasks")
}

func countFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(_ string, d os.DirEntry, err error) error {
		if err == nil && d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return count
}
