package api

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/state"
)

// ItemsHandler handles item CRUD endpoints.
type ItemsHandler struct {
	State *state.Container
}

type itemResponse struct {
	model.InventoryItem
	LowStockThreshold int `json:"lowStockThreshold"`
}

type updateItemRequest struct {
	state.ItemChanges
	User string `json:"user,omitempty"`
}

type userRequest struct {
	User string `json:"user,omitempty"`
}

// List handles GET /api/items. The optional status and category query
// parameters filter the result.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := model.ItemStatus(r.URL.Query().Get("status"))
	category := r.URL.Query().Get("category")

	items := lo.Filter(h.State.Items(), func(it model.InventoryItem, _ int) bool {
		return (status == "" || it.Status == status) && (category == "" || it.Category == category)
	})
	jsonResponse(w, http.StatusOK, items)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req state.NewItem
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.State.CreateItem(r.Context(), req)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, ok := h.State.Item(id)
	if !ok {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	threshold, err := h.State.Threshold(id)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, itemResponse{InventoryItem: item, LowStockThreshold: threshold})
}

// Update handles PATCH /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.State.UpdateItem(r.Context(), r.PathValue("id"), req.ItemChanges, req.User)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	n, err := h.State.RemoveItems(r.Context(), []string{r.PathValue("id")}, req.User)
	if err != nil {
		domainError(w, err)
		return
	}
	if n == 0 {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Duplicate handles POST /api/items/{id}/duplicate.
func (h *ItemsHandler) Duplicate(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			jsonError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	item, err := h.State.DuplicateItem(r.Context(), r.PathValue("id"), req.User)
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, item)
}

// History handles GET /api/items/{id}/history.
func (h *ItemsHandler) History(w http.ResponseWriter, r *http.Request) {
	history, err := h.State.History(r.PathValue("id"))
	if err != nil {
		domainError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, history)
}
