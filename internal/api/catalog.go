package api

import (
	"net/http"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/state"
)

// CatalogHandler edits catalogue lists and column preferences.
type CatalogHandler struct {
	State *state.Container
}

type catalogEntryRequest struct {
	Value string `json:"value"`
}

type columnsRequest struct {
	VisibleColumns []string `json:"visibleColumns"`
}

// Add handles POST /api/catalog/{kind}.
func (h *CatalogHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req catalogEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind := model.CatalogKind(r.PathValue("kind"))
	if err := h.State.AddCatalogEntry(r.Context(), kind, req.Value); err != nil {
		domainError(w, err)
		return
	}
	snap := h.State.Snapshot()
	jsonResponse(w, http.StatusOK, *snap.Catalog(kind))
}

// Remove handles DELETE /api/catalog/{kind}/{value}.
func (h *CatalogHandler) Remove(w http.ResponseWriter, r *http.Request) {
	kind := model.CatalogKind(r.PathValue("kind"))
	if err := h.State.RemoveCatalogEntry(r.Context(), kind, r.PathValue("value")); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetColumns handles PUT /api/preferences/{table}.
func (h *CatalogHandler) SetColumns(w http.ResponseWriter, r *http.Request) {
	var req columnsRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.State.SetColumnPreferences(r.Context(), r.PathValue("table"), req.VisibleColumns); err != nil {
		domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
