package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// TaskUpdate carries the changed task fields for UpdateTask. Nil pointers
// mean "leave unchanged". Only description and the completion flag are
// mutable; the HTTP layer rejects payloads naming anything else.
type TaskUpdate struct {
	Description *string
	IsCompleted *bool
}

// sortFieldColumns maps the sort field names accepted on the wire to
// their database columns.
var sortFieldColumns = map[string]string{
	"description": "description",
	"isCompleted": "is_completed",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// ParseListQuery builds list options from the raw query string values of
// GET /tasks. It is deliberately forgiving: a numeric parse failure or an
// unrecognized sort direction degrades to the absence of that constraint
// rather than an error.
//
//   - isCompleted: "true" filters to completed tasks; any other non-empty
//     value filters to incomplete ones; empty means no filter.
//   - sortBy: "field:direction" with direction "asc" (default) or "desc".
//   - limit/skip: non-numeric or non-positive values mean no limit/skip.
func ParseListQuery(isCompleted, sortBy, limit, skip string) store.ListTasksOptions {
	var opts store.ListTasksOptions

	if isCompleted != "" {
		completed := isCompleted == "true"
		opts.Completed = &completed
	}

	if sortBy != "" {
		field, direction, _ := strings.Cut(sortBy, ":")
		opts.SortField = sortFieldColumns[field]
		opts.SortDesc = direction == "desc"
	}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		opts.Limit = n
	}
	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		opts.Skip = n
	}

	return opts
}

// TaskManager defines the task-facing service surface consumed by the
// HTTP layer. The owner ID on every call is the authenticated caller.
type TaskManager interface {
	CreateTask(ctx context.Context, ownerID uuid.UUID, description string) (*domain.Task, error)
	ListTasks(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error)
	GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, patch TaskUpdate) (*domain.Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
}

// TaskService implements the ownership-scoped task query engine. The
// owner is an explicit parameter on every operation and is embedded in
// each lookup by the store; there is no path that reaches another user's
// tasks.
type TaskService struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure TaskService implements TaskManager.
var _ TaskManager = (*TaskService)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(taskStore store.TaskStore, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskService{
		taskStore: taskStore,
		logger:    logger.With("component", "task_service"),
	}
}

// CreateTask creates a task owned by the given user. The owner is always
// the authenticated caller, never a field of the request.
func (s *TaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, description)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		s.logger.Error("failed to create task",
			"error", err,
			"owner_id", ownerID)
		return nil, err
	}

	s.logger.Debug("task created", "task_id", task.ID, "owner_id", ownerID)
	return task, nil
}

// ListTasks returns the owner's tasks constrained by opts.
func (s *TaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	tasks, err := s.taskStore.ListOwned(ctx, ownerID, opts)
	if err != nil {
		s.logger.Error("failed to list tasks",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetTask returns a single task, scoped to the owner. A task belonging to
// another user is reported as store.ErrTaskNotFound.
func (s *TaskService) GetTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	return s.taskStore.GetOwned(ctx, ownerID, taskID)
}

// UpdateTask applies the changed fields to the owner's task and persists
// it. The ownership predicate lives in the store lookup, so an update
// against someone else's task is indistinguishable from a missing task.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch TaskUpdate,
) (*domain.Task, error) {
	task, err := s.taskStore.GetOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.IsCompleted != nil {
		task.IsCompleted = *patch.IsCompleted
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.taskStore.UpdateOwned(ctx, task); err != nil {
		s.logger.Error("failed to update task",
			"error", err,
			"task_id", taskID,
			"owner_id", ownerID)
		return nil, err
	}

	return task, nil
}

// DeleteTask removes the owner's task and returns it.
func (s *TaskService) DeleteTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.DeleteOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("task deleted", "task_id", taskID, "owner_id", ownerID)
	return task, nil
}
