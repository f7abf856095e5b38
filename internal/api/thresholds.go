package api

import (
	"net/http"

	"github.com/erazemk/inventario/internal/state"
)

// ThresholdsHandler edits the low-stock policy.
type ThresholdsHandler struct {
	State *state.Container
}

// thresholdRequest carries a threshold; null clears it.
type thresholdRequest struct {
	Value *int `json:"value"`
}

// SetGlobal handles PUT /api/thresholds/global.
func (h *ThresholdsHandler) SetGlobal(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Value == nil {
		jsonError(w, http.StatusUnprocessableEntity, "the global threshold cannot be cleared")
		return
	}

	if err := h.State.SetGlobalThreshold(r.Context(), *req.Value); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.State.Thresholds())
}

// SetProduct handles PUT /api/thresholds/products/{id}.
func (h *ThresholdsHandler) SetProduct(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.State.SetProductThreshold(r.Context(), r.PathValue("id"), req.Value); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.State.Thresholds())
}

// SetCategory handles PUT /api/thresholds/categories/{category}.
func (h *ThresholdsHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req thresholdRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.State.SetCategoryThreshold(r.Context(), r.PathValue("category"), req.Value); err != nil {
		domainError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, h.State.Thresholds())
}
