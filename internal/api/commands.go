package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/inventario/internal/model"
	"github.com/erazemk/inventario/internal/state"
)

// CommandsHandler routes action envelopes to the container.
type CommandsHandler struct {
	State  *state.Container
	Logger *slog.Logger
}

// Dispatch handles POST /api/commands with a {"action", "payload"} body.
// It answers 200 when the command was applied, 409 when it was rejected and
// 400 for unknown actions or malformed payloads.
func (h *CommandsHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var env state.Envelope
	if err := decodeJSON(r, &env); err != nil {
		h.Logger.Warn("malformed command envelope", "remote", r.RemoteAddr, "error", err)
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if env.Action == "" {
		h.Logger.Warn("command envelope without action", "remote", r.RemoteAddr)
		jsonError(w, http.StatusBadRequest, "action required")
		return
	}

	res := h.State.DispatchJSON(r.Context(), env.Action, env.Payload)
	switch {
	case res.OK:
		jsonResponse(w, http.StatusOK, res)
	case errors.Is(res.Err, model.ErrUnknownAction), errors.Is(res.Err, model.ErrInvalidArgument):
		h.Logger.Warn("bad command", "action", env.Action, "remote", r.RemoteAddr, "reason", res.Reason)
		jsonResponse(w, http.StatusBadRequest, res)
	default:
		h.Logger.Info("command refused", "action", env.Action, "remote", r.RemoteAddr, "reason", res.Reason)
		jsonResponse(w, http.StatusConflict, res)
	}
}
