package staff

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// Handler serves roster and template endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates a new staff handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the staff endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.ListStaff)
	r.Get("/{staffID}/availability", h.GetAvailability)
	r.Put("/{staffID}/availability", h.PutAvailability)
}

// ListStaff handles GET /staff.
func (h *Handler) ListStaff(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Roster(r.Context())
	if err != nil {
		h.logger.Error("failed to list staff", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}
	writeJSON(w, http.StatusOK, members)
}

// GetAvailability handles GET /staff/{staffID}/availability.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	tmpl, err := h.svc.GetTemplate(r.Context(), staffID)
	if errors.Is(err, ErrTemplateNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("failed to load template", "staff_id", staffID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load availability template")
		return
	}
	writeJSON(w, http.StatusOK, tmpl)
}

// PutAvailability handles PUT /staff/{staffID}/availability.
func (h *Handler) PutAvailability(w http.ResponseWriter, r *http.Request) {
	staffID := chi.URLParam(r, "staffID")
	var req SaveTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tmpl, err := h.svc.SaveTemplate(r.Context(), staffID, &req)
	switch {
	case errors.Is(err, ErrInvalidTemplate):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrUnknownStaff):
		writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		h.logger.Error("failed to save template", "staff_id", staffID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save availability template")
	default:
		writeJSON(w, http.StatusOK, tmpl)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
