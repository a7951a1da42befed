package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/taskdeck/internal/domain"
	"github.com/msomdec/taskdeck/internal/service"
)

// TaskHandler handles task CRUD HTTP requests. All routes require a valid
// access token; the owning user comes from the verified claims.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// HandleCreate creates a task for the authenticated user.
// POST /api/tasks
// Request:  {"title":"...","description":"...","status":"...","priority":"..."}
// Response: 201 with the created task
func (h *TaskHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
		Status      string  `json:"status"`
		Priority    string  `json:"priority"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	task, err := h.tasks.Create(r.Context(), claims.UserID, service.CreateTask{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
	})
	if err != nil {
		h.writeTaskError(w, "create task", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTaskDTO(task))
}

// HandleList lists the authenticated user's tasks, newest first.
// GET /api/tasks?status=&priority=&q=
// Response: {"tasks":[...]}
func (h *TaskHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	q := r.URL.Query()
	filter := domain.TaskFilter{
		Status:   domain.TaskStatus(q.Get("status")),
		Priority: domain.TaskPriority(q.Get("priority")),
		Query:    q.Get("q"),
	}

	tasks, err := h.tasks.List(r.Context(), claims.UserID, filter)
	if err != nil {
		h.writeTaskError(w, "list tasks", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"tasks": toTaskDTOs(tasks)})
}

// HandleGet returns one of the authenticated user's tasks.
// GET /api/tasks/{id}
func (h *TaskHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	task, err := h.tasks.Get(r.Context(), claims.UserID, r.PathValue("id"))
	if err != nil {
		h.writeTaskError(w, "get task", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleUpdate applies a partial update to one of the user's tasks.
// PUT /api/tasks/{id}
// Request: any subset of {"title","description","status","priority"}
func (h *TaskHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Status      *string `json:"status"`
		Priority    *string `json:"priority"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	update := domain.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		update.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		update.Priority = &priority
	}

	task, err := h.tasks.Update(r.Context(), claims.UserID, r.PathValue("id"), update)
	if err != nil {
		h.writeTaskError(w, "update task", err)
		return
	}

	writeJSON(w, http.StatusOK, toTaskDTO(task))
}

// HandleDelete removes one of the user's tasks.
// DELETE /api/tasks/{id}
// Response: {"deleted":true}
func (h *TaskHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	if err := h.tasks.Delete(r.Context(), claims.UserID, r.PathValue("id")); err != nil {
		h.writeTaskError(w, "delete task", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *TaskHandler) writeTaskError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Task not found.")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
	}
}
