package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// Handler handles HTTP requests for events.
type Handler struct {
	repo   Repository
	logger *logging.Logger
}

// NewHandler creates a new events handler.
func NewHandler(repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{repo: repo, logger: logger}
}

// Routes mounts the events endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.CreateEvent)
	r.Get("/", h.ListEvents)
	r.Get("/{eventID}", h.GetEvent)
	r.Put("/{eventID}", h.UpdateEvent)
	r.Delete("/{eventID}", h.DeleteEvent)
}

// DeleteEventResponse is returned after a successful delete.
type DeleteEventResponse struct {
	Message      string `json:"message"`
	DeletedEvent *Event `json:"deletedEvent"`
}

// CreateEvent handles POST /events requests.
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode event request", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.respondError(w, "create", "", err)
		return
	}

	h.logger.Info("event created", "event_id", event.ID, "event_type", event.EventType)
	writeJSON(w, http.StatusCreated, event)
}

// ListEvents handles GET /events requests. Optional query params: staff, from, to (RFC3339).
func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := ListFilter{Staff: strings.TrimSpace(q.Get("staff"))}
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"from", &filter.From}, {"to", &filter.To}} {
		raw := q.Get(p.name)
		if raw == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid "+p.name+": expected RFC3339 timestamp")
			return
		}
		*p.dst = &t
	}

	events, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list", "", err)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// GetEvent handles GET /events/{eventID} requests.
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	event, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get", id, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// UpdateEvent handles PUT /events/{eventID} requests.
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	var req UpdateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to decode event update", "event_id", id, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	event, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.respondError(w, "update", id, err)
		return
	}
	h.logger.Info("event updated", "event_id", event.ID)
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /events/{eventID} requests.
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "eventID")
	event, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.respondError(w, "delete", id, err)
		return
	}
	h.logger.Info("event deleted", "event_id", event.ID)
	writeJSON(w, http.StatusOK, DeleteEventResponse{Message: "Event deleted successfully", DeletedEvent: event})
}

func (h *Handler) respondError(w http.ResponseWriter, op, id string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "Event not found")
	case errors.Is(err, ErrEmptyUpdate):
		writeError(w, http.StatusBadRequest, "No update data provided")
	case IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("event operation failed", "op", op, "event_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
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
