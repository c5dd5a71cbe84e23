package rules

import (
	"io"
	"log/slog"
	"net/http"

	"tracklint/pkg/handlers"
	"tracklint/pkg/routes"
)

// Handler provides HTTP endpoints for rule operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given system, logger, and upload size limit.
func NewHandler(sys System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "rules"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for rule endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/rules",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Current},
			{Method: "GET", Pattern: "/context", Handler: h.Context},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "DELETE", Pattern: "", Handler: h.Clear},
		},
	}
}

// Current returns a summary of the active rule set.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	rs, err := h.sys.Current()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rs.Summarize())
}

// Context returns the markdown rendering of the active rule set.
func (h *Handler) Context(w http.ResponseWriter, r *http.Request) {
	context, err := h.sys.Context()
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(context))
}

// Upload processes a multipart form upload containing a rule CSV file.
// The uploaded rules replace any previously loaded rule set.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}

	rs, err := h.sys.Load(data, header.Filename)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, rs.Summarize())
}

// Clear removes the active rule set.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	h.sys.Clear()
	w.WriteHeader(http.StatusNoContent)
}
