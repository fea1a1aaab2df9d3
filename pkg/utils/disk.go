package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

type DiskInfo struct {
	Total       uint64 // bytes
	Free        uint64 // bytes
	Used        uint64 // bytes
	UsedPercent float64
}

// CheckDiskSpace reports whether requiredBytes fit on the volume holding path
// while still leaving minFreePercent of the volume free (10 when zero).
func CheckDiskSpace(path string, requiredBytes int64, minFreePercent float64) (bool, *DiskInfo, error) {
	if minFreePercent == 0 {
		minFreePercent = 10.0
	}

	info, err := GetDiskInfo(path)
	if err != nil {
		return false, nil, err
	}

	if int64(info.Free) < requiredBytes {
		return false, info, nil
	}

	if info.Total == 0 {
		return false, info, nil
	}

	remainingFree := int64(info.Free) - requiredBytes
	remainingPercent := float64(remainingFree) / float64(info.Total) * 100
	if remainingPercent < minFreePercent {
		return false, info, nil
	}

	return true, info, nil
}

func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// GetDirectorySize sums regular file sizes under path. A missing path has size 0.
func GetDirectorySize(path string) (int64, error) {
	var size int64
	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return nil
			}
			size += info.Size()
		}
		return nil
	})
	return size, err
}
