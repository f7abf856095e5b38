package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/inventario/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("error encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// errorStatus maps a domain error onto an HTTP status code.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, model.ErrInvalidThreshold):
		return http.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidArgument), errors.Is(err, model.ErrUnknownAction):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// domainError writes err with the status errorStatus picks for it.
func domainError(w http.ResponseWriter, err error) {
	jsonError(w, errorStatus(err), err.Error())
}
