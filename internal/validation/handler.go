package validation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"tracklint/pkg/handlers"
	"tracklint/pkg/routes"
)

// Handler provides HTTP endpoints for validation operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// StartRequest selects the working table for a validation run.
// An empty table selects the current working table.
type StartRequest struct {
	Table string `json:"table"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "validation"),
	}
}

// Routes returns the route group definition for validation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/validations",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Start},
			{Method: "GET", Pattern: "/current", Handler: h.Current},
			{Method: "GET", Pattern: "/current/tracks", Handler: h.Tracks},
			{Method: "GET", Pattern: "/current/tracks/{title}", Handler: h.Track},
			{Method: "POST", Pattern: "/current/corrections", Handler: h.Correct},
		},
	}
}

// Start launches a validation run for the requested table and returns the
// run state with 202; batches continue in the background.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}
	}

	run, err := h.sys.StartRun(r.Context(), req.Table)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, run)
}

// Current returns the state and progress of the latest run.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	run, err := h.sys.CurrentRun()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, run)
}

// Tracks returns the track-level pass state list for the latest run.
func (h *Handler) Tracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.sys.Tracks()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, tracks)
}

// Track returns the per-platform detail for one track by its title path parameter.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	view, err := h.sys.Track(r.PathValue("title"))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}

// Correct applies a row correction and returns the recomputed aggregates.
func (h *Handler) Correct(w http.ResponseWriter, r *http.Request) {
	var cmd CorrectionCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Correct(cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
