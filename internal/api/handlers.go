// Package api provides HTTP API handlers.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/veridash/veridash/internal/controller"
	"github.com/veridash/veridash/internal/export"
	"github.com/veridash/veridash/internal/history"
	"github.com/veridash/veridash/internal/models"
	"github.com/veridash/veridash/internal/notify"
	"github.com/veridash/veridash/internal/stats"
	"github.com/veridash/veridash/internal/validate"
)

// Handler contains all HTTP handlers.
type Handler struct {
	ctrl      *controller.Controller
	notifier  *notify.Notifier
	store     history.Store
	exportDir string
}

// NewHandler creates a new handler.
func NewHandler(ctrl *controller.Controller, notifier *notify.Notifier, store history.Store, exportDir string) *Handler {
	return &Handler{
		ctrl:      ctrl,
		notifier:  notifier,
		store:     store,
		exportDir: exportDir,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   "1.0.0",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// SubmitText handles pasted-text verification requests.
func (h *Handler) SubmitText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	payload := &models.SubmissionPayload{
		Type: models.PayloadText,
		Text: req.Text,
	}
	h.submit(w, r, payload)
}

// SubmitFile handles uploaded-document verification requests. Both the
// file picker and drag-and-drop funnel through this endpoint.
func (h *Handler) SubmitFile(w http.ResponseWriter, r *http.Request) {
	// Parse up to slightly more than the validation cap so an oversize
	// upload gets the proper validation message rather than a parse error.
	if err := r.ParseMultipartForm(validate.MaxFileSize + 1024*1024); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}

	payload := &models.SubmissionPayload{
		Type: models.PayloadFile,
		File: &models.FileBlob{
			Name:     header.Filename,
			Size:     header.Size,
			MimeType: header.Header.Get("Content-Type"),
			Data:     data,
		},
	}
	h.submit(w, r, payload)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, payload *models.SubmissionPayload) {
	report, err := h.ctrl.Submit(r.Context(), payload)
	if err != nil {
		var vErr *validate.ValidationError
		var sErr *controller.SubmissionError
		switch {
		case errors.As(err, &vErr):
			writeError(w, http.StatusBadRequest, vErr.Message)
		case errors.Is(err, controller.ErrSubmissionInFlight):
			writeError(w, http.StatusConflict, err.Error())
		case errors.As(err, &sErr):
			writeError(w, http.StatusBadGateway, sErr.Message)
		default:
			log.Error().Err(err).Msg("Submission failed")
			writeError(w, http.StatusInternalServerError, "Verification failed")
		}
		return
	}

	_, id := h.ctrl.Report()
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"report_id": id,
		"report":    report,
		"stats":     stats.Summarize(report),
	})
}

// GetState returns the controller state, error banner, and toast slot.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	report, id := h.ctrl.Report()

	response := map[string]interface{}{
		"state":      h.ctrl.State(),
		"error":      h.ctrl.ErrMessage(),
		"has_report": report != nil,
		"toast":      h.notifier.Current(),
	}
	if report != nil {
		response["report_id"] = id
		response["stats"] = stats.Summarize(report)
	}
	writeJSON(w, http.StatusOK, response)
}

// Clear resets the held report and error.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.ctrl.Clear(); err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DismissToast manually closes the visible notification.
func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	h.notifier.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

// ExportJSON downloads the held report as a JSON file.
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	report, _ := h.ctrl.Report()
	if report == nil {
		writeError(w, http.StatusNotFound, "No report to export")
		return
	}

	body, err := export.ToJSON(report)
	if err != nil {
		log.Error().Err(err).Msg("Failed to serialize report")
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName(time.Now())+`"`)
	w.Write([]byte(body))
}

// SaveExport writes the JSON export into the configured export
// directory and returns the written path.
func (h *Handler) SaveExport(w http.ResponseWriter, r *http.Request) {
	report, _ := h.ctrl.Report()
	if report == nil {
		writeError(w, http.StatusNotFound, "No report to export")
		return
	}

	if err := os.MkdirAll(h.exportDir, 0755); err != nil {
		log.Error().Err(err).Msg("Failed to create export directory")
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	path, err := export.WriteJSON(report, h.exportDir, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to write export")
		writeError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"path": path})
}

// ExportSummary returns the plain-text summary of the held report.
func (h *Handler) ExportSummary(w http.ResponseWriter, r *http.Request) {
	report, _ := h.ctrl.Report()
	if report == nil {
		writeError(w, http.StatusNotFound, "No report to export")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(export.ToTextSummary(report, time.Now())))
}

// ListReports returns paginated archived reports.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	entries, err := h.store.ListReports(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list reports")
		writeError(w, http.StatusInternalServerError, "Failed to list reports")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reports": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

// GetReport returns an archived report by ID.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "ID is required")
		return
	}

	report, err := h.store.GetReport(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get report")
		writeError(w, http.StatusInternalServerError, "Failed to get report")
		return
	}
	if report == nil {
		writeError(w, http.StatusNotFound, "Report not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"report_id": id,
		"report":    report,
		"stats":     stats.Summarize(report),
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
