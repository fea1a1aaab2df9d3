package dto

import (
	"taskmanager/domain/models"
)

func TaskToTaskResponse(task *models.Task) *TaskResponse {
	if task == nil {
		return nil
	}

	resp := &TaskResponse{
		ID:                 task.ID,
		Title:              task.Title,
		Description:        task.Description,
		CreationDate:       task.CreationDate,
		DueDate:            task.DueDate,
		Status:             string(task.Status),
		Priority:           string(task.Priority),
		StatusSource:       string(task.StatusSource),
		StatusOverriddenAt: task.StatusOverriddenAt,
		SubtasksCount:      len(task.Subtasks),
		Subtasks:           make([]SubtaskResponse, 0, len(task.Subtasks)),
		CreatedAt:          task.CreatedAt,
		UpdatedAt:          task.UpdatedAt,
	}

	for i := range task.Subtasks {
		if task.Subtasks[i].IsCompleted {
			resp.CompletedSubtasks++
		}
		resp.Subtasks = append(resp.Subtasks, *SubtaskToSubtaskResponse(&task.Subtasks[i]))
	}

	return resp
}

func TasksToTaskResponses(tasks []*models.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, *TaskToTaskResponse(task))
	}
	return out
}

func TaskToTaskSummary(task *models.Task) TaskSummary {
	summary := TaskSummary{
		ID:     task.ID,
		Title:  task.Title,
		Status: string(task.Status),
	}
	if task.DueDate != nil {
		summary.DueDate = task.DueDate.UTC()
	}
	return summary
}

func CreateTaskRequestToTask(req *CreateTaskRequest) *models.Task {
	task := &models.Task{
		Title:    req.Title,
		Priority: models.TaskPriority(req.Priority),
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.DueDate != nil {
		due := req.DueDate.UTC()
		task.DueDate = &due
	}
	return task
}

func SubtaskToSubtaskResponse(subtask *models.Subtask) *SubtaskResponse {
	if subtask == nil {
		return nil
	}
	return &SubtaskResponse{
		ID:          subtask.ID,
		TaskID:      subtask.TaskID,
		Title:       subtask.Title,
		Description: subtask.Description,
		IsCompleted: subtask.IsCompleted,
		CreatedAt:   subtask.CreatedAt,
		UpdatedAt:   subtask.UpdatedAt,
	}
}

func NotificationToNotificationResponse(n *models.Notification) *NotificationResponse {
	if n == nil {
		return nil
	}
	return &NotificationResponse{
		ID:        n.ID,
		TaskID:    n.TaskID,
		Type:      string(n.Type),
		Message:   n.Message,
		DueDate:   n.DueDate,
		CreatedAt: n.CreatedAt,
	}
}

func NotificationsToNotificationResponses(items []*models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, *NotificationToNotificationResponse(n))
	}
	return out
}

func AttachmentToAttachmentResponse(a *models.Attachment) *AttachmentResponse {
	if a == nil {
		return nil
	}
	return &AttachmentResponse{
		ID:        a.ID,
		TaskID:    a.TaskID,
		FileName:  a.FileName,
		FileSize:  a.FileSize,
		MimeType:  a.MimeType,
		URL:       a.URL,
		CreatedAt: a.CreatedAt,
	}
}

func UserToUserResponse(user *models.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
