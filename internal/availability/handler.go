package availability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// Computer is the subset of Service used by the HTTP handler.
type Computer interface {
	WeeklyAvailability(ctx context.Context) (*Response, error)
	DayAvailability(ctx context.Context, rawDate string) (*Response, error)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Handler serves the sales-rep availability endpoints.
type Handler struct {
	svc    Computer
	logger *logging.Logger
}

// NewHandler creates a new availability handler.
func NewHandler(svc Computer, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// Routes mounts the availability endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.RedirectToCurrentWeek)
	r.Get("/current-week", h.CurrentWeek)
	r.Get("/day={day}", h.Day)
	r.Get("/day/{day}", h.Day)
}

// CurrentWeek handles GET /sales-rep-availability/current-week.
func (h *Handler) CurrentWeek(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.WeeklyAvailability(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Day handles GET /sales-rep-availability/day={day}.
func (h *Handler) Day(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.DayAvailability(r.Context(), chi.URLParam(r, "day"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RedirectToCurrentWeek keeps the bare collection path working for older clients.
func (h *Handler) RedirectToCurrentWeek(w http.ResponseWriter, r *http.Request) {
	target := "current-week"
	if path := r.URL.Path; len(path) > 0 && path[len(path)-1] != '/' {
		target = path + "/current-week"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	if IsClientError(err) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Success: false,
			Message: "Invalid date format. Use YYYY-MM-DD",
			Error:   err.Error(),
		})
		return
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		h.logger.Error("availability request failed", "source", fetchErr.Source, "error", fetchErr.Err)
	} else {
		h.logger.Error("availability request failed", "error", err)
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Success: false,
		Message: "Server error",
		Error:   err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
