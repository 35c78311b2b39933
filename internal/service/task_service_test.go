package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/tasker-api/internal/domain"
	"github.com/phrazzld/tasker-api/internal/mocks"
	"github.com/phrazzld/tasker-api/internal/service"
	"github.com/phrazzld/tasker-api/internal/store"
)

func TestParseListQuery(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name        string
		isCompleted string
		sortBy      string
		limit       string
		skip        string
		want        store.ListTasksOptions
	}{
		{
			name: "no constraints",
			want: store.ListTasksOptions{},
		},
		{
			name:        "completed filter true",
			isCompleted: "true",
			want:        store.ListTasksOptions{Completed: boolPtr(true)},
		},
		{
			name:        "completed filter other value means false",
			isCompleted: "false",
			want:        store.ListTasksOptions{Completed: boolPtr(false)},
		},
		{
			name:   "sort descending by creation time",
			sortBy: "createdAt:desc",
			want:   store.ListTasksOptions{SortField: "created_at", SortDesc: true},
		},
		{
			name:   "sort ascending by completion flag",
			sortBy: "isCompleted:asc",
			want:   store.ListTasksOptions{SortField: "is_completed"},
		},
		{
			name:   "sort without direction defaults to ascending",
			sortBy: "description",
			want:   store.ListTasksOptions{SortField: "description"},
		},
		{
			name:   "unknown sort field degrades to default order",
			sortBy: "owner:desc",
			want:   store.ListTasksOptions{SortDesc: true},
		},
		{
			name:  "limit and skip",
			limit: "10",
			skip:  "20",
			want:  store.ListTasksOptions{Limit: 10, Skip: 20},
		},
		{
			name:  "malformed pagination is ignored",
			limit: "ten",
			skip:  "-5",
			want:  store.ListTasksOptions{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ParseListQuery(tt.isCompleted, tt.sortBy, tt.limit, tt.skip)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTaskService_CreateTask(t *testing.T) {
	ctx := context.Background()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	ownerID := uuid.New()

	task, err := svc.CreateTask(ctx, ownerID, "  buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "buy milk", task.Description)
	assert.Equal(t, ownerID, task.OwnerID)
	assert.False(t, task.IsCompleted)

	stored, err := taskStore.GetOwned(ctx, ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, stored.ID)
}

func TestTaskService_CreateTask_EmptyDescription(t *testing.T) {
	ctx := context.Background()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	_, err := svc.CreateTask(ctx, uuid.New(), "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, taskStore.Tasks)
}

func TestTaskService_GetTask_OwnershipScoping(t *testing.T) {
	ctx := context.Background()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	aliceID := uuid.New()
	bobID := uuid.New()

	task, err := svc.CreateTask(ctx, aliceID, "alice task")
	require.NoError(t, err)

	// The owner sees the task.
	got, err := svc.GetTask(ctx, aliceID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	// Anyone else gets the same answer as for a task that does not exist.
	_, err = svc.GetTask(ctx, bobID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, missingErr := svc.GetTask(ctx, bobID, uuid.New())
	assert.Equal(t, missingErr, err,
		"foreign task and missing task must be indistinguishable")
}

func TestTaskService_UpdateTask(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*service.TaskService, *mocks.MockTaskStore, uuid.UUID, *domain.Task) {
		taskStore := mocks.NewMockTaskStore()
		svc := service.NewTaskService(taskStore, nil)
		ownerID := uuid.New()
		task, err := svc.CreateTask(ctx, ownerID, "original")
		require.NoError(t, err)
		return svc, taskStore, ownerID, task
	}

	t.Run("description and completion", func(t *testing.T) {
		svc, _, ownerID, task := setup(t)

		description := "  updated  "
		completed := true
		updated, err := svc.UpdateTask(ctx, ownerID, task.ID, service.TaskUpdate{
			Description: &description,
			IsCompleted: &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, "updated", updated.Description)
		assert.True(t, updated.IsCompleted)
	})

	t.Run("completion only keeps description", func(t *testing.T) {
		svc, _, ownerID, task := setup(t)

		completed := true
		updated, err := svc.UpdateTask(ctx, ownerID, task.ID, service.TaskUpdate{
			IsCompleted: &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, "original", updated.Description)
		assert.True(t, updated.IsCompleted)
	})

	t.Run("blank description is rejected", func(t *testing.T) {
		svc, taskStore, ownerID, task := setup(t)

		description := "   "
		_, err := svc.UpdateTask(ctx, ownerID, task.ID, service.TaskUpdate{
			Description: &description,
		})
		assert.ErrorIs(t, err, domain.ErrValidation)

		stored, err := taskStore.GetOwned(ctx, ownerID, task.ID)
		require.NoError(t, err)
		assert.Equal(t, "original", stored.Description)
	})

	t.Run("foreign task reads as missing", func(t *testing.T) {
		svc, _, _, task := setup(t)

		completed := true
		_, err := svc.UpdateTask(ctx, uuid.New(), task.ID, service.TaskUpdate{
			IsCompleted: &completed,
		})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	ctx := context.Background()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)
	ownerID := uuid.New()

	task, err := svc.CreateTask(ctx, ownerID, "doomed")
	require.NoError(t, err)

	deleted, err := svc.DeleteTask(ctx, ownerID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, deleted.ID, "delete should echo the removed task")

	_, err = svc.GetTask(ctx, ownerID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	// Deleting again behaves like the task never existed.
	_, err = svc.DeleteTask(ctx, ownerID, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

func TestTaskService_ListTasks(t *testing.T) {
	ctx := context.Background()
	taskStore := mocks.NewMockTaskStore()
	svc := service.NewTaskService(taskStore, nil)

	aliceID := uuid.New()
	bobID := uuid.New()

	for _, description := range []string{"one", "two", "three"} {
		_, err := svc.CreateTask(ctx, aliceID, description)
		require.NoError(t, err)
	}
	_, err := svc.CreateTask(ctx, bobID, "bob task")
	require.NoError(t, err)

	tasks, err := svc.ListTasks(ctx, aliceID, store.ListTasksOptions{})
	require.NoError(t, err)
	assert.Len(t, tasks, 3, "only the owner's tasks are listed")
	for _, task := range tasks {
		assert.Equal(t, aliceID, task.OwnerID)
	}
}
