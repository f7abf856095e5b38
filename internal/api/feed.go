package api

import (
	"net/http"

	"github.com/erazemk/inventario/internal/state"
)

// FeedHandler serves the read-only views of the snapshot.
type FeedHandler struct {
	State *state.Container
}

// Health handles GET /api/healthz.
func (h *FeedHandler) Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Snapshot handles GET /api/snapshot.
func (h *FeedHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.State.Snapshot())
}

// Alerts handles GET /api/alerts.
func (h *FeedHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.State.Alerts())
}

// Activity handles GET /api/activity.
func (h *FeedHandler) Activity(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, h.State.RecentActivities())
}
