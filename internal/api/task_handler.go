package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/phrazzld/tasker-api/internal/api/shared"
	"github.com/phrazzld/tasker-api/internal/service"
)

// taskUpdateFields is the allowed field set for PATCH /tasks/{id}. The
// owner is conspicuously absent: ownership can never be reassigned.
var taskUpdateFields = map[string]bool{
	"description": true,
	"isCompleted": true,
}

// TaskHandler handles task-related API requests. Every operation runs
// against the authenticated caller's tasks only.
type TaskHandler struct {
	taskService service.TaskManager
	validator   *validator.Validate
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskManager, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		validator:   validator.New(),
		logger:      logger.With("component", "task_handler"),
	}
}

// Create handles POST /tasks. The owner is forced to the authenticated
// caller; the request body cannot name one.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	var req CreateTaskRequest
	if err := DecodeJSON(r, &req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		RespondWithError(w, r, http.StatusBadRequest, "validation error: "+err.Error())
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), user.ID, req.Description)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// List handles GET /tasks with the isCompleted, sortBy, limit, and skip
// query parameters. Malformed pagination values degrade to "no
// constraint" rather than an error.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	q := r.URL.Query()
	opts := service.ParseListQuery(
		q.Get("isCompleted"),
		q.Get("sortBy"),
		q.Get("limit"),
		q.Get("skip"),
	)

	tasks, err := h.taskService.ListTasks(r.Context(), user.ID, opts)
	if err != nil {
		h.logger.Error("failed to list tasks", "error", err, "user_id", user.ID)
		RespondWithError(w, r, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks))
}

// Get handles GET /tasks/{id}. A malformed ID, a missing task, and a
// task owned by someone else all yield the same 404.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	task, err := h.taskService.GetTask(r.Context(), user.ID, taskID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Update handles PATCH /tasks/{id}. Fields outside
// {description, isCompleted} reject the update before anything is
// applied, whoever the caller is.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	fields, err := DecodePatch(r, taskUpdateFields)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	var patch service.TaskUpdate
	if _, present := fields["description"]; present {
		var description string
		if err := UnmarshalField(fields, "description", &description); err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		patch.Description = &description
	}
	if _, present := fields["isCompleted"]; present {
		var completed bool
		if err := UnmarshalField(fields, "isCompleted", &completed); err != nil {
			RespondWithMappedError(w, r, err)
			return
		}
		patch.IsCompleted = &completed
	}

	task, err := h.taskService.UpdateTask(r.Context(), user.ID, taskID, patch)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}, echoing the deleted task.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := shared.AuthenticatedUser(r.Context())
	if !ok {
		RespondWithError(w, r, http.StatusUnauthorized, "please authenticate")
		return
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondWithError(w, r, http.StatusNotFound, "not found")
		return
	}

	task, err := h.taskService.DeleteTask(r.Context(), user.ID, taskID)
	if err != nil {
		RespondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}
