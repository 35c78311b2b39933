package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/store"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	// Function fields for customizable behavior
	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetOwnedFn       func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	ListOwnedFn      func(ctx context.Context, ownerID uuid.UUID, opts store.ListTasksOptions) ([]*domain.Task, error)
	UpdateOwnedFn    func(ctx context.Context, task *domain.Task) error
	DeleteOwnedFn    func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	DeleteAllOwnedFn func(ctx context.Context, ownerID uuid.UUID) error

	// Data for the default in-memory implementation, keyed by task ID.
	mu    sync.Mutex
	Tasks map[uuid.UUID]*domain.Task

	// Call tracking for verification
	DeleteAllOwnedCalls []uuid.UUID
}

// NewMockTaskStore creates a new mock store with initialized defaults
func NewMockTaskStore() *MockTaskStore {
	return &MockTaskStore{
		Tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// AddTask seeds the in-memory map. Intended for test setup.
func (m *MockTaskStore) AddTask(task *domain.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
}

// Create implements the store.TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tasks[task.ID] = task
	return nil
}

// GetOwned implements the store.TaskStore interface
func (m *MockTaskStore) GetOwned(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.GetOwnedFn != nil {
		return m.GetOwnedFn(ctx, ownerID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	return task, nil
}

// ListOwned implements the store.TaskStore interface. The default
// implementation applies the completion filter and pagination but only
// sorts by creation time, which is enough for most tests.
func (m *MockTaskStore) ListOwned(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	if m.ListOwnedFn != nil {
		return m.ListOwnedFn(ctx, ownerID, opts)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var tasks []*domain.Task
	for _, task := range m.Tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if opts.Completed != nil && task.IsCompleted != *opts.Completed {
			continue
		}
		tasks = append(tasks, task)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if opts.SortDesc {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
	})
	if opts.Skip > 0 {
		if opts.Skip >= len(tasks) {
			return nil, nil
		}
		tasks = tasks[opts.Skip:]
	}
	if opts.Limit > 0 && opts.Limit < len(tasks) {
		tasks = tasks[:opts.Limit]
	}
	return tasks, nil
}

// UpdateOwned implements the store.TaskStore interface
func (m *MockTaskStore) UpdateOwned(ctx context.Context, task *domain.Task) error {
	if m.UpdateOwnedFn != nil {
		return m.UpdateOwnedFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	m.Tasks[task.ID] = task
	return nil
}

// DeleteOwned implements the store.TaskStore interface
func (m *MockTaskStore) DeleteOwned(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	if m.DeleteOwnedFn != nil {
		return m.DeleteOwnedFn(ctx, ownerID, taskID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.Tasks[taskID]
	if !ok || task.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	delete(m.Tasks, taskID)
	return task, nil
}

// DeleteAllOwned implements the store.TaskStore interface
func (m *MockTaskStore) DeleteAllOwned(ctx context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	m.DeleteAllOwnedCalls = append(m.DeleteAllOwnedCalls, ownerID)
	m.mu.Unlock()

	if m.DeleteAllOwnedFn != nil {
		return m.DeleteAllOwnedFn(ctx, ownerID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, task := range m.Tasks {
		if task.OwnerID == ownerID {
			delete(m.Tasks, id)
		}
	}
	return nil
}

// WithTx implements the store.TaskStore interface. The mock has no real
// transaction, so it returns itself.
func (m *MockTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return m
}
