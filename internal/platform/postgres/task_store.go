package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/platform/logger"
	"github.com/phrazzld/tasker-api/internal/store"
)

const taskColumns = "id, description, is_completed, owner_id, created_at, updated_at"

// sortableTaskColumns whitelists the columns ListOwned may order by.
// Anything else falls back to created_at so a crafted sortBy value can
// never reach the SQL text.
var sortableTaskColumns = map[string]bool{
	"description":  true,
	"is_completed": true,
	"created_at":   true,
	"updated_at":   true,
}

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// The owner's ID is part of every WHERE clause, never a post-hoc check:
// a task that exists but belongs to someone else produces the same
// ErrTaskNotFound as a task that does not exist at all.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a new PostgresTaskStore bound to the given transaction.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the owner does not exist (foreign key
// violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, description, is_completed, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Description,
		task.IsCompleted,
		task.OwnerID,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: owner %s not found", store.ErrInvalidEntity, task.OwnerID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return MapError(err)
	}

	log.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// GetOwned implements store.TaskStore.GetOwned
func (s *PostgresTaskStore) GetOwned(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM tasks WHERE id = $1 AND owner_id = $2",
		taskColumns,
	)

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(
		&task.ID,
		&task.Description,
		&task.IsCompleted,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return &task, nil
}

// ListOwned implements store.TaskStore.ListOwned
// The query always carries the owner predicate; filter, sort, and
// pagination clauses are appended from the validated options.
func (s *PostgresTaskStore) ListOwned(
	ctx context.Context,
	ownerID uuid.UUID,
	opts store.ListTasksOptions,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM tasks WHERE owner_id = $1", taskColumns)

	args := []any{ownerID}
	if opts.Completed != nil {
		args = append(args, *opts.Completed)
		fmt.Fprintf(&sb, " AND is_completed = $%d", len(args))
	}

	sortField := opts.SortField
	if !sortableTaskColumns[sortField] {
		sortField = "created_at"
	}
	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	fmt.Fprintf(&sb, " ORDER BY %s %s", sortField, direction)

	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if opts.Skip > 0 {
		args = append(args, opts.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	tasks := []*domain.Task{}
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Description,
			&task.IsCompleted,
			&task.OwnerID,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, &task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// UpdateOwned implements store.TaskStore.UpdateOwned
func (s *PostgresTaskStore) UpdateOwned(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET description = $3, is_completed = $4, updated_at = $5
		WHERE id = $1 AND owner_id = $2
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Description,
		task.IsCompleted,
		time.Now().UTC(),
	)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// DeleteOwned implements store.TaskStore.DeleteOwned
// The RETURNING clause hands back the deleted row so callers can echo it
// without a second lookup.
func (s *PostgresTaskStore) DeleteOwned(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
) (*domain.Task, error) {
	query := fmt.Sprintf(
		"DELETE FROM tasks WHERE id = $1 AND owner_id = $2 RETURNING %s",
		taskColumns,
	)

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, taskID, ownerID).Scan(
		&task.ID,
		&task.Description,
		&task.IsCompleted,
		&task.OwnerID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return &task, nil
}

// DeleteAllOwned implements store.TaskStore.DeleteAllOwned
func (s *PostgresTaskStore) DeleteAllOwned(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE owner_id = $1`, ownerID)
	if err != nil {
		log.Error("failed to delete tasks for owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return MapError(err)
	}

	if deleted, err := result.RowsAffected(); err == nil {
		log.Info("deleted tasks for owner",
			slog.String("owner_id", ownerID.String()),
			slog.Int64("count", deleted))
	}
	return nil
}
