package mocks

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MockTaskService implements service.TaskManager for testing
type MockTaskService struct {
	// Function fields for customizable behavior
	CreateTaskFn func(ctx context.Context, ownerID uuid.UUID, description string) (*domain.Task, error)
	ListTasksFn  func(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error)
	GetTaskFn    func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	UpdateTaskFn func(ctx context.Context, ownerID, taskID uuid.UUID, patch service.TaskUpdate) (*domain.Task, error)
	DeleteTaskFn func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Default values used when functions aren't explicitly defined
	Task  *domain.Task
	Tasks []*domain.Task
	Err   error

	// Call tracking for verification
	LastListOpts store.ListTasksOptions
}

// CreateTask implements the service.TaskManager interface
func (m *MockTaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
) (*domain.Task, error) {
	if m.CreateTaskFn != nil {
		return m.CreateTaskFn(ctx, ownerID, description)
	}
	return m.Task, m.Err
}

// ListTasks implements the service.TaskManager interface
func (m *MockTaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	m.LastListOpts = opts
	if m.ListTasksFn != nil {
		return m.ListTasksFn(ctx, ownerID, opts)
	}
	return m.Tasks, m.Err
}

// GetTask implements the service.TaskManager interface
func (m *MockTaskService) GetTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.GetTaskFn != nil {
		return m.GetTaskFn(ctx, ownerID, taskID)
	}
	return m.Task, m.Err
}

// UpdateTask implements the service.TaskManager interface
func (m *MockTaskService) UpdateTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch service.TaskUpdate,
) (*domain.Task, error) {
	if m.UpdateTaskFn != nil {
		return m.UpdateTaskFn(ctx, ownerID, taskID, patch)
	}
	return m.Task, m.Err
}

// DeleteTask implements the service.TaskManager interface
func (m *MockTaskService) DeleteTask(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, ownerID, taskID)
	}
	return m.Task, m.Err
}
