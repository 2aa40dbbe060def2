package staff

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// Repository is the storage used by Service. *Store implements it.
type Repository interface {
	ListSchedulableStaff(ctx context.Context) ([]schedule.RawStaff, error)
	GetTemplate(ctx context.Context, staffID string) (*schedule.RawTemplate, error)
	UpsertTemplate(ctx context.Context, tmpl schedule.RawTemplate) error
}

// Member is a roster entry with parsed capabilities.
type Member struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
}

// Template is the API view of a weekly availability template.
type Template struct {
	StaffID               string              `json:"staff_id"`
	MaxAppointmentsPerDay int                 `json:"max_appointments_per_day"`
	Days                  []schedule.DayEntry `json:"days"`
}

// SaveTemplateRequest is the body of PUT /staff/{staffID}/availability.
type SaveTemplateRequest struct {
	MaxAppointmentsPerDay *int                `json:"max_appointments_per_day"`
	Days                  []schedule.DayEntry `json:"days"`
}

// Validate checks day names and slot strings strictly and returns a copy with
// canonical weekday names and trimmed slots.
func (r *SaveTemplateRequest) Validate() (SaveTemplateRequest, error) {
	if r.MaxAppointmentsPerDay != nil && *r.MaxAppointmentsPerDay < 0 {
		return SaveTemplateRequest{}, fmt.Errorf("%w: max_appointments_per_day must not be negative", ErrInvalidTemplate)
	}
	if len(r.Days) == 0 {
		return SaveTemplateRequest{}, fmt.Errorf("%w: at least one day is required", ErrInvalidTemplate)
	}
	out := SaveTemplateRequest{MaxAppointmentsPerDay: r.MaxAppointmentsPerDay}
	seen := make(map[time.Weekday]bool, len(r.Days))
	for _, day := range r.Days {
		wd, err := schedule.ParseWeekday(day.Day)
		if err != nil {
			return SaveTemplateRequest{}, fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
		}
		if seen[wd] {
			return SaveTemplateRequest{}, fmt.Errorf("%w: %s listed more than once", ErrInvalidTemplate, wd)
		}
		seen[wd] = true
		slots := make([]string, 0, len(day.Slots))
		for _, raw := range day.Slots {
			slot := strings.TrimSpace(raw)
			if _, err := schedule.ParseTimeOfDay(slot); err != nil {
				return SaveTemplateRequest{}, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, wd, err)
			}
			slots = append(slots, slot)
		}
		out.Days = append(out.Days, schedule.DayEntry{Day: wd.String(), Slots: slots})
	}
	return out, nil
}

// Service maintains weekly templates and exposes the roster.
type Service struct {
	repo   Repository
	logger *logging.Logger
}

// NewService constructs a staff service.
func NewService(repo Repository, logger *logging.Logger) *Service {
	if repo == nil {
		panic("staff: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Roster returns the schedulable staff with parsed capabilities.
func (s *Service) Roster(ctx context.Context) ([]Member, error) {
	raw, err := s.repo.ListSchedulableStaff(ctx)
	if err != nil {
		return nil, err
	}
	parser := schedule.NewParser(s.logger, nil)
	out := make([]Member, 0, len(raw))
	for _, r := range raw {
		m := parser.Staff(r)
		out = append(out, Member{ID: m.ID, Name: m.Name, Capabilities: m.Capabilities})
	}
	return out, nil
}

// GetTemplate returns the parsed template of a staff member. Malformed stored
// entries are skipped the same way availability computation skips them.
func (s *Service) GetTemplate(ctx context.Context, staffID string) (*Template, error) {
	raw, err := s.repo.GetTemplate(ctx, staffID)
	if err != nil {
		return nil, err
	}
	parsed, ok := schedule.NewParser(s.logger, nil).Template(*raw)
	if !ok {
		return &Template{StaffID: staffID, MaxAppointmentsPerDay: maxOrDefault(raw.MaxAppointments), Days: []schedule.DayEntry{}}, nil
	}
	return viewOf(parsed), nil
}

// SaveTemplate validates and stores a template.
func (s *Service) SaveTemplate(ctx context.Context, staffID string, req *SaveTemplateRequest) (*Template, error) {
	clean, err := req.Validate()
	if err != nil {
		return nil, err
	}
	raw := schedule.RawTemplate{StaffID: staffID, MaxAppointments: clean.MaxAppointmentsPerDay}
	for _, day := range clean.Days {
		encoded, err := json.Marshal(day)
		if err != nil {
			return nil, fmt.Errorf("staff: encode day: %w", err)
		}
		raw.AvailabilitySlots = append(raw.AvailabilitySlots, string(encoded))
	}
	if err := s.repo.UpsertTemplate(ctx, raw); err != nil {
		return nil, err
	}
	s.logger.Info("availability template saved", "staff_id", staffID, "days", len(clean.Days))

	parsed, _ := schedule.NewParser(s.logger, nil).Template(raw)
	return viewOf(parsed), nil
}

var weekOrder = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday}

func viewOf(t schedule.AvailabilityTemplate) *Template {
	view := &Template{StaffID: t.StaffID, MaxAppointmentsPerDay: t.MaxPerDay, Days: make([]schedule.DayEntry, 0, len(t.Days))}
	for _, wd := range weekOrder {
		if slots, ok := t.SlotsFor(wd); ok {
			if slots == nil {
				slots = []string{}
			}
			view.Days = append(view.Days, schedule.DayEntry{Day: wd.String(), Slots: slots})
		}
	}
	return view
}

func maxOrDefault(v *int) int {
	if v == nil || *v <= 0 {
		return schedule.DefaultMaxPerDay
	}
	return *v
}
