package handler

import (
	"log/slog"
	"net/http"

	"spisovka/internal/domain/models"
	"spisovka/internal/domain/services"
	"spisovka/internal/httputil"
)

// SpisHandler handles spis record HTTP requests
type SpisHandler struct {
	spisService services.SpisService
	logger      *slog.Logger
}

// NewSpisHandler creates a new spis handler
func NewSpisHandler(spisService services.SpisService, logger *slog.Logger) *SpisHandler {
	return &SpisHandler{
		spisService: spisService,
		logger:      logger,
	}
}

// HealthCheck reports that the server is up
// GET /health
func (h *SpisHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateSpis creates an empty record
// POST /api/spisy
func (h *SpisHandler) CreateSpis(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSpisRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	spis, err := h.spisService.CreateSpis(r.Context(), httputil.GetUserID(r), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, spis)
}

// GetSpis returns a record with its raw attachment lists
// GET /api/spisy/{id}
func (h *SpisHandler) GetSpis(w http.ResponseWriter, r *http.Request) {
	spis, err := h.spisService.GetSpis(r.Context(), httputil.GetUserID(r), r.PathValue("id"))
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, spis)
}

// SetLocked makes a record read-only or writable
// PATCH /api/spisy/{id}/lock
func (h *SpisHandler) SetLocked(w http.ResponseWriter, r *http.Request) {
	var req models.SetLockedRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Locked == nil {
		httputil.RespondError(w, http.StatusBadRequest, "locked is required")
		return
	}

	spis, err := h.spisService.SetLocked(r.Context(), httputil.GetUserID(r), r.PathValue("id"), *req.Locked)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, spis)
}
