package api

import (
	"context"
	"net/http"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/state"
)

// TasksHandler handles pending tasks and action requests.
type TasksHandler struct {
	State *state.Container
}

type finishTaskRequest struct {
	User string `json:"user,omitempty"`
	Note string `json:"note,omitempty"`
}

type queueRequest struct {
	Type        string            `json:"type"`
	RequestedBy string            `json:"requestedBy,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

type resolveRequest struct {
	Status model.TaskStatus `json:"status"`
}

// List handles GET /api/tasks.
func (h *TasksHandler) List(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.State.Tasks())
}

// Create handles POST /api/tasks.
func (h *TasksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req state.TaskRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.State.CreateTask(r.Context(), req)
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, task)
}

// Complete handles POST /api/tasks/{id}/complete.
func (h *TasksHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, h.State.CompleteTask)
}

// Cancel handles POST /api/tasks/{id}/cancel.
func (h *TasksHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, h.State.CancelTask)
}

func (h *TasksHandler) finish(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, user, note string) error) {
	var req finishTaskRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	if err := fn(r.Context(), r.PathValue("id"), req.User, req.Note); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// QueueRequest handles POST /api/requests.
func (h *TasksHandler) QueueRequest(w http.ResponseWriter, r *http.Request) {
	var req queueRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	queued, err := h.State.QueueRequest(r.Context(), req.Type, req.RequestedBy, req.Details)
	if err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, queued)
}

// ResolveRequest handles PUT /api/requests/{id}.
func (h *TasksHandler) ResolveRequest(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.State.ResolveRequest(r.Context(), r.PathValue("id"), req.Status); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
