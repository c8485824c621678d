package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pribylovaa/go-task-manager/internal/http/apierrors"
	"github.com/pribylovaa/go-task-manager/internal/http/middleware"
	"github.com/pribylovaa/go-task-manager/internal/models"
	"github.com/pribylovaa/go-task-manager/internal/storage"
)

type taskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Position    int64  `json:"position"`
}

type shareTaskRequest struct {
	UserID uuid.UUID `json:"user_id"`
}

type reorderRequest struct {
	Tasks []struct {
		ID       uuid.UUID `json:"id"`
		Position int64     `json:"position"`
	} `json:"tasks"`
}

// CreateTask — POST /tasks/create.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	var in taskRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.Svc.CreateTask(r.Context(), principal.UserID, in.Title, in.Description, in.Position)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

// ListTasks — GET /tasks/get-my-tasks?status=&page=&limit=.
// Отдаёт свои и расшаренные пользователю задачи.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	filter := storage.TaskFilter{
		Status: models.TaskStatusAny,
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
	}

	switch r.URL.Query().Get("status") {
	case "active":
		filter.Status = models.TaskStatusActive
	case "completed":
		filter.Status = models.TaskStatusCompleted
	}

	page, err := h.Svc.ListTasks(r.Context(), principal.UserID, filter)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// UpdateTask — PUT /tasks/update/{id} (только владелец).
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var in taskRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.Svc.UpdateTask(r.Context(), principal.UserID, id, in.Title, in.Description, in.Completed, in.Position)
	if err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

// DeleteTask — DELETE /tasks/delete/{id} (только владелец).
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := h.Svc.DeleteTask(r.Context(), principal.UserID, id); err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task deleted"})
}

// ShareTask — POST /tasks/share/{taskId} (только владелец задачи).
func (h *Handlers) ShareTask(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	taskID, err := uuid.Parse(chi.URLParam(r, "taskId"))
	if err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid task id")
		return
	}

	var in shareTaskRequest
	if err := decodeStrict(r, &in); err != nil || in.UserID == uuid.Nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Svc.ShareTask(r.Context(), principal.UserID, taskID, in.UserID); err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Task shared"})
}

// ReorderTasks — PUT /tasks/reorder (только владелец перечисленных задач).
func (h *Handlers) ReorderTasks(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.PrincipalFrom(r.Context())

	var in reorderRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.Write(w, http.StatusBadRequest, "invalid request body")
		return
	}

	positions := make(map[uuid.UUID]int64, len(in.Tasks))
	for _, t := range in.Tasks {
		positions[t.ID] = t.Position
	}

	if err := h.Svc.ReorderTasks(r.Context(), principal.UserID, positions); err != nil {
		apierrors.WriteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Tasks reordered"})
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}

	return v
}
