package domain

import (
	"context"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Task is a single to-do item owned by one user.
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Status      TaskStatus
	Priority    TaskPriority
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	Status   TaskStatus
	Priority TaskPriority
	Query    string // case-insensitive substring match on title or description
}

// TaskUpdate carries a partial update; only non-nil fields are applied.
type TaskUpdate struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *TaskPriority
}

// TaskRepository defines persistence operations for tasks. All reads and
// mutations are scoped to the owning user; a task belonging to another user
// behaves as if it did not exist.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	GetByID(ctx context.Context, userID, id string) (*Task, error)
	ListByUser(ctx context.Context, userID string, filter TaskFilter) ([]Task, error)
	Update(ctx context.Context, userID, id string, update TaskUpdate) (*Task, error)
	Delete(ctx context.Context, userID, id string) error
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}
