package utils

import (
	"errors"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var (
	ErrUnsafePath       = errors.New("unsafe path detected")
	ErrPathTooLong      = errors.New("path is too long")
	ErrEmptyPath        = errors.New("path cannot be empty")
	ErrInvalidCharacter = errors.New("path contains invalid characters")
)

const MaxPathLength = 500

var (
	dangerousChars = regexp.MustCompile(`[<>:"|?*\x00-\x1f\x7f]`)
	repeatedSlash  = regexp.MustCompile(`/+`)
)

// ValidateStorageKey normalizes an object key and rejects anything that could escape the storage root.
func ValidateStorageKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmptyPath
	}

	if len(key) > MaxPathLength {
		return "", ErrPathTooLong
	}

	key = strings.ReplaceAll(key, "\\", "/")

	if strings.Contains(key, "..") || filepath.IsAbs(key) || strings.HasPrefix(key, "/") {
		return "", ErrUnsafePath
	}

	if dangerousChars.MatchString(key) {
		return "", ErrInvalidCharacter
	}

	key = repeatedSlash.ReplaceAllString(key, "/")
	key = strings.Trim(key, "/")
	if key == "" {
		return "", ErrEmptyPath
	}

	return key, nil
}

// AttachmentKey builds tasks/<task_id>/<id>-<slug(name)><ext>. The extension is lowercased.
func AttachmentKey(taskID, id uuid.UUID, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	ext := strings.ToLower(path.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, path.Ext(base)))
	if name == "" {
		name = "file"
	}
	return path.Join("tasks", taskID.String(), id.String()+"-"+name+ext)
}

// SanitizeFileName keeps the display name safe to echo back in headers and JSON.
func SanitizeFileName(fileName string) string {
	fileName = filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	fileName = dangerousChars.ReplaceAllString(fileName, "_")
	fileName = strings.TrimSpace(fileName)

	if fileName == "" || fileName == "." || fileName == ".." || fileName == "/" {
		fileName = "file"
	}

	return fileName
}

// AttachmentPrefix is the folder holding every attachment of a task.
func AttachmentPrefix(taskID uuid.UUID) string {
	return path.Join("tasks", taskID.String())
}
