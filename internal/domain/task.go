package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	ErrEmptyTaskID      = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyDescription = fmt.Errorf("%w: description cannot be empty", ErrValidation)
	ErrEmptyOwnerID     = fmt.Errorf("%w: task owner cannot be empty", ErrValidation)
)

// Task represents a single to-do item. Every task has exactly one owner
// and is only ever reachable through that owner's session.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
	OwnerID     uuid.UUID `json:"owner"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. The description is
// trimmed and the completion flag starts false. Returns an error if
// validation fails.
func NewTask(ownerID uuid.UUID, description string) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Description: strings.TrimSpace(description),
		IsCompleted: false,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}
	if t.Description == "" {
		return ErrEmptyDescription
	}
	if t.OwnerID == uuid.Nil {
		return ErrEmptyOwnerID
	}
	return nil
}
