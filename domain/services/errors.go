package services

import "errors"

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrSubtaskNotFound      = errors.New("subtask not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAttachmentNotFound   = errors.New("attachment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInsufficientDisk     = errors.New("insufficient disk space")
	ErrFileTooLarge         = errors.New("file too large")
)
