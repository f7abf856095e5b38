package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/inventario/internal/state"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(c *state.Container, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{State: c}
	commandsHandler := &CommandsHandler{State: c, Logger: logger}
	thresholdsHandler := &ThresholdsHandler{State: c}
	feedHandler := &FeedHandler{State: c}
	tasksHandler := &TasksHandler{State: c}
	catalogHandler := &CatalogHandler{State: c}

	mux.HandleFunc("GET /api/healthz", feedHandler.Health)

	// Read-only views.
	mux.HandleFunc("GET /api/snapshot", feedHandler.Snapshot)
	mux.HandleFunc("GET /api/alerts", feedHandler.Alerts)
	mux.HandleFunc("GET /api/activity", feedHandler.Activity)

	// Items.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PATCH /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("POST /api/items/{id}/duplicate", itemsHandler.Duplicate)
	mux.HandleFunc("GET /api/items/{id}/history", itemsHandler.History)

	// Status transitions and bulk actions.
	mux.HandleFunc("POST /api/commands", commandsHandler.Dispatch)

	// Low-stock thresholds.
	mux.HandleFunc("PUT /api/thresholds/global", thresholdsHandler.SetGlobal)
	mux.HandleFunc("PUT /api/thresholds/products/{id}", thresholdsHandler.SetProduct)
	mux.HandleFunc("PUT /api/thresholds/categories/{category}", thresholdsHandler.SetCategory)

	// Pending tasks and requests.
	mux.HandleFunc("GET /api/tasks", tasksHandler.List)
	mux.HandleFunc("POST /api/tasks", tasksHandler.Create)
	mux.HandleFunc("POST /api/tasks/{id}/complete", tasksHandler.Complete)
	mux.HandleFunc("POST /api/tasks/{id}/cancel", tasksHandler.Cancel)
	mux.HandleFunc("POST /api/requests", tasksHandler.QueueRequest)
	mux.HandleFunc("PUT /api/requests/{id}", tasksHandler.ResolveRequest)

	// Catalogues and preferences.
	mux.HandleFunc("POST /api/catalog/{kind}", catalogHandler.Add)
	mux.HandleFunc("DELETE /api/catalog/{kind}/{value}", catalogHandler.Remove)
	mux.HandleFunc("PUT /api/preferences/{table}", catalogHandler.SetColumns)

	return mux
}
