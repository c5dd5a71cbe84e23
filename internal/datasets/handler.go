package datasets

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"tracklint/pkg/handlers"
	"tracklint/pkg/pagination"
	"tracklint/pkg/routes"
)

// Handler provides HTTP endpoints for dataset operations.
type Handler struct {
	sys           System
	logger        *slog.Logger
	pagination    pagination.Config
	maxUploadSize int64
}

// UploadResult reports per-file outcomes of a multi-file upload. Files that
// fail to ingest do not abort the rest of the batch.
type UploadResult struct {
	Ingested []IngestResult `json:"ingested"`
	Failed   []UploadError  `json:"failed"`
}

// UploadError pairs a failed filename with its error message.
type UploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// NewHandler creates a Handler with the given system, logger, pagination
// config, and upload size limit.
func NewHandler(
	sys System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUploadSize int64,
) *Handler {
	return &Handler{
		sys:           sys,
		logger:        logger.With("handler", "datasets"),
		pagination:    pagination,
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for dataset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/datasets",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Schema},
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "/{table}/rows", Handler: h.Rows},
			{Method: "GET", Pattern: "/{table}/export", Handler: h.Export},
		},
	}
}

// Schema lists every ingested table with columns and row counts.
func (h *Handler) Schema(w http.ResponseWriter, r *http.Request) {
	tables, err := h.sys.Schema(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, tables)
}

// Upload processes a multipart form upload containing one or more dataset
// files under the "files" field. Each file is ingested independently; the
// response reports successes and failures per file.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, err)
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["files"]
		if len(headers) == 0 {
			headers = r.MultipartForm.File["file"]
		}
	}

	if len(headers) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("no files provided"))
		return
	}

	result := UploadResult{
		Ingested: make([]IngestResult, 0, len(headers)),
		Failed:   make([]UploadError, 0),
	}

	for _, header := range headers {
		ingested, err := h.ingestFile(r, header)
		if err != nil {
			h.logger.Warn("file ingest failed", "filename", header.Filename, "error", err)
			result.Failed = append(result.Failed, UploadError{
				Filename: header.Filename,
				Error:    err.Error(),
			})
			continue
		}

		result.Ingested = append(result.Ingested, *ingested)
	}

	status := http.StatusCreated
	if len(result.Ingested) == 0 {
		status = http.StatusBadRequest
	}

	handlers.RespondJSON(w, status, result)
}

func (h *Handler) ingestFile(r *http.Request, header *multipart.FileHeader) (*IngestResult, error) {
	file, err := header.Open()
	if err != nil {
		return nil, ErrInvalidFile
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, ErrInvalidFile
	}

	return h.sys.Ingest(r.Context(), header.Filename, data)
}

// Rows returns a page of rows from the table path parameter.
func (h *Handler) Rows(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Rows(r.Context(), r.PathValue("table"), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Export streams the table path parameter as a CSV attachment.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	table := r.PathValue("table")

	var buf bytes.Buffer
	if err := h.sys.Export(r.Context(), table, &buf); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table+".csv"))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
