package handler

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"green-kart/internal/ingest"
	"green-kart/internal/model"

	"github.com/rs/zerolog"
)

// maxUploadBytes caps bulk upload request bodies.
const maxUploadBytes = 10 << 20 // 10 MiB

// AdminHandler handles administrative HTTP requests.
type AdminHandler struct {
	ingester *ingest.Service
	source   ingest.Source
	logger   zerolog.Logger
}

// NewAdminHandler creates a new admin handler. The source is used for
// imports by reference and may be nil when no object storage is
// configured.
func NewAdminHandler(ingester *ingest.Service, source ingest.Source, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		ingester: ingester,
		source:   source,
		logger:   logger.With().Str("handler", "admin").Logger(),
	}
}

// BulkUpload handles POST /api/admin/products/bulk requests. The body is
// either a CSV file (Content-Type text/csv) or a JSON product array.
func (h *AdminHandler) BulkUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	body := http.MaxBytesReader(w, r.Body, maxUploadBytes)
	defer body.Close()

	contentType := r.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}

	var (
		result *ingest.Result
		err    error
	)
	switch contentType {
	case "text/csv", "application/csv":
		result, err = h.ingester.IngestCSV(r.Context(), body)
	default:
		var data []byte
		data, err = io.ReadAll(body)
		if err == nil {
			result, err = h.ingester.IngestJSON(r.Context(), data)
		}
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, err.Error(), h.logger)
		return
	}

	h.writeResult(w, result)
}

// importRequest asks for an ingestion of a CSV object by reference.
type importRequest struct {
	Ref string `json:"ref"`
}

// Import handles POST /api/admin/products/import requests, ingesting a
// CSV batch from configured object storage.
func (h *AdminHandler) Import(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeValidation, "method not allowed", h.logger)
		return
	}

	if h.source == nil {
		writeError(w, http.StatusServiceUnavailable, model.ErrCodeValidation, "no import source is configured", h.logger)
		return
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Ref == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "ref is required", h.logger)
		return
	}

	result, err := h.ingester.IngestCSVFrom(r.Context(), h.source, req.Ref)
	if err != nil {
		h.logger.Error().Err(err).Str("ref", req.Ref).Msg("import failed")
		writeError(w, http.StatusBadGateway, model.ErrCodeInternalError, "failed to fetch import source", h.logger)
		return
	}

	h.writeResult(w, result)
}

// writeResult reports a batch outcome. A batch where every row failed is
// still a processed batch; partial success is expected and the report
// carries per-row errors.
func (h *AdminHandler) writeResult(w http.ResponseWriter, result *ingest.Result) {
	status := http.StatusOK
	if result.SuccessCount > 0 && result.ErrorCount == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}
