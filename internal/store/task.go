package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
)

// ListTasksOptions carries the filter, sort, and pagination constraints
// for listing a user's tasks. The zero value means "everything, in
// creation order, unbounded".
type ListTasksOptions struct {
	// Completed filters on the completion flag when non-nil.
	Completed *bool

	// SortField names the column to order by. Implementations validate it
	// against a whitelist and fall back to creation time when it is empty
	// or unknown.
	SortField string

	// SortDesc orders descending when true; the default is ascending.
	SortDesc bool

	// Limit caps the number of returned tasks. Zero or negative means no limit.
	Limit int

	// Skip drops that many tasks from the front of the result. Zero or
	// negative means no skip.
	Skip int
}

// TaskStore defines the interface for task data persistence. Every read
// and mutation takes the owner's ID and embeds it in the lookup predicate,
// so a task belonging to another user is indistinguishable from a task
// that does not exist.
type TaskStore interface {
	// Create saves a new task to the store.
	Create(ctx context.Context, task *domain.Task) error

	// GetOwned retrieves a task by ID, scoped to the given owner.
	// Returns ErrTaskNotFound if no task matches both the ID and owner.
	GetOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// ListOwned returns the owner's tasks, constrained by opts.
	ListOwned(ctx context.Context, ownerID uuid.UUID, opts ListTasksOptions) ([]*domain.Task, error)

	// UpdateOwned persists the task's mutable fields, scoped to its owner.
	// Returns ErrTaskNotFound if no task matches both the ID and owner.
	UpdateOwned(ctx context.Context, task *domain.Task) error

	// DeleteOwned removes a task by ID, scoped to the given owner, and
	// returns the deleted task.
	// Returns ErrTaskNotFound if no task matches both the ID and owner.
	DeleteOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// DeleteAllOwned removes every task belonging to the given owner.
	// Deleting for an owner with no tasks is a no-op.
	DeleteAllOwned(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
