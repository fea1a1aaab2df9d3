package models

type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "Pendiente"
	TaskStatusInProgress  TaskStatus = "En Proceso"
	TaskStatusCompleted   TaskStatus = "Completado"
	TaskStatusRescheduled TaskStatus = "Reprogramada"
)

func AllTaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusPending,
		TaskStatusInProgress,
		TaskStatusCompleted,
		TaskStatusRescheduled,
	}
}

func (s TaskStatus) IsValid() bool {
	for _, v := range AllTaskStatuses() {
		if s == v {
			return true
		}
	}
	return false
}

type TaskPriority string

const (
	TaskPriorityHigh   TaskPriority = "Alta"
	TaskPriorityMedium TaskPriority = "Media"
	TaskPriorityLow    TaskPriority = "Baja"
)

func AllTaskPriorities() []TaskPriority {
	return []TaskPriority{TaskPriorityHigh, TaskPriorityMedium, TaskPriorityLow}
}

func (p TaskPriority) IsValid() bool {
	for _, v := range AllTaskPriorities() {
		if p == v {
			return true
		}
	}
	return false
}

// StatusSource tells whether a task's status was derived from its subtasks or set by hand.
type StatusSource string

const (
	StatusSourceDerived StatusSource = "derived"
	StatusSourceManual  StatusSource = "manual"
)

// DeriveStatus maps subtask completion to a task status:
// no subtasks or none completed is Pendiente, all completed is Completado,
// anything in between is En Proceso.
func DeriveStatus(total, completed int64) TaskStatus {
	switch {
	case total == 0 || completed <= 0:
		return TaskStatusPending
	case completed >= total:
		return TaskStatusCompleted
	default:
		return TaskStatusInProgress
	}
}
