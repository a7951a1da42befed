package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/msomdec/taskdeck/internal/domain"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 2000
	maxSearchLen      = 200
)

// TaskService handles per-user task CRUD. Every operation is scoped to the
// calling user; tasks owned by anyone else behave as if they do not exist.
type TaskService struct {
	tasks domain.TaskRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(tasks domain.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// CreateTask describes a new task. Status and Priority are optional and
// default to todo/medium.
type CreateTask struct {
	Title       string
	Description *string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
}

// Create validates input and stores a new task for the user.
func (s *TaskService) Create(ctx context.Context, userID string, in CreateTask) (*domain.Task, error) {
	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	description := in.Description
	if description != nil {
		trimmed := strings.TrimSpace(*description)
		if err := validateDescription(trimmed); err != nil {
			return nil, err
		}
		description = &trimmed
	}

	status := in.Status
	if status == "" {
		status = domain.TaskStatusTodo
	} else if !status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, status)
	}

	priority := in.Priority
	if priority == "" {
		priority = domain.TaskPriorityMedium
	} else if !priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", domain.ErrInvalidInput, priority)
	}

	task := &domain.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return task, nil
}

// List returns the user's tasks, newest first, optionally filtered by
// status, priority, and a search query over title and description.
func (s *TaskService) List(ctx context.Context, userID string, filter domain.TaskFilter) ([]domain.Task, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, filter.Status)
	}
	if filter.Priority != "" && !filter.Priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", domain.ErrInvalidInput, filter.Priority)
	}
	if len(filter.Query) > maxSearchLen {
		return nil, fmt.Errorf("%w: search query too long", domain.ErrInvalidInput)
	}

	tasks, err := s.tasks.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one of the user's tasks by ID.
func (s *TaskService) Get(ctx context.Context, userID, taskID string) (*domain.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}
	return s.tasks.GetByID(ctx, userID, taskID)
}

// Update applies the non-nil fields of the update to one of the user's
// tasks and returns the updated task.
func (s *TaskService) Update(ctx context.Context, userID, taskID string, update domain.TaskUpdate) (*domain.Task, error) {
	if err := validateTaskID(taskID); err != nil {
		return nil, err
	}

	if update.Title != nil {
		trimmed := strings.TrimSpace(*update.Title)
		if err := validateTitle(trimmed); err != nil {
			return nil, err
		}
		update.Title = &trimmed
	}
	if update.Description != nil {
		trimmed := strings.TrimSpace(*update.Description)
		if err := validateDescription(trimmed); err != nil {
			return nil, err
		}
		update.Description = &trimmed
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", domain.ErrInvalidInput, *update.Status)
	}
	if update.Priority != nil && !update.Priority.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %q", domain.ErrInvalidInput, *update.Priority)
	}

	return s.tasks.Update(ctx, userID, taskID, update)
}

// Delete removes one of the user's tasks.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if err := validateTaskID(taskID); err != nil {
		return err
	}
	return s.tasks.Delete(ctx, userID, taskID)
}

func validateTaskID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid task id", domain.ErrInvalidInput)
	}
	return nil
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(title) > maxTitleLen {
		return fmt.Errorf("%w: title must be at most %d characters", domain.ErrInvalidInput, maxTitleLen)
	}
	return nil
}

func validateDescription(description string) error {
	if len(description) > maxDescriptionLen {
		return fmt.Errorf("%w: description must be at most %d characters", domain.ErrInvalidInput, maxDescriptionLen)
	}
	return nil
}
