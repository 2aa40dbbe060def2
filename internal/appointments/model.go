package appointments

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

// Event is a booked appointment or other calendar entry owned by a sales rep.
// ScheduledTime may be nil for legacy rows.
type Event struct {
	ID            string          `json:"id"`
	EventType     string          `json:"event_type"`
	Status        string          `json:"status"`
	ScheduledTime *time.Time      `json:"scheduled_time"`
	EndTime       *time.Time      `json:"end_time,omitempty"`
	Staff         *string         `json:"staff,omitempty"`
	Title         string          `json:"title,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Details       json.RawMessage `json:"details,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Appointment converts the event for conflict checks. A nil ScheduledTime
// becomes a zero start, which the resolver skips.
func (e *Event) Appointment() schedule.Appointment {
	a := schedule.Appointment{ID: e.ID}
	if e.Staff != nil {
		a.StaffID = *e.Staff
	}
	if e.ScheduledTime != nil {
		a.Start = e.ScheduledTime.UTC()
	}
	if e.EndTime != nil {
		end := e.EndTime.UTC()
		a.End = &end
	}
	return a
}

// Overlaps reports whether the event blocks any part of [from, to].
func (e *Event) Overlaps(from, to time.Time) bool {
	if e.ScheduledTime == nil || e.ScheduledTime.After(to) {
		return false
	}
	if e.EndTime != nil {
		return !e.EndTime.Before(from)
	}
	return !e.ScheduledTime.Before(from)
}

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	EventType     string          `json:"event_type"`
	ScheduledTime *time.Time      `json:"scheduled_time"`
	EndTime       *time.Time      `json:"end_time"`
	Status        string          `json:"status"`
	Staff         *string         `json:"staff"`
	Title         string          `json:"title"`
	Notes         string          `json:"notes"`
	Details       json.RawMessage `json:"details"`
}

// Validate validates the create event request.
func (r *CreateEventRequest) Validate() error {
	var missing []string
	if strings.TrimSpace(r.EventType) == "" {
		missing = append(missing, "event_type")
	}
	if r.ScheduledTime == nil || r.ScheduledTime.IsZero() {
		missing = append(missing, "scheduled_time")
	}
	if strings.TrimSpace(r.Status) == "" {
		missing = append(missing, "status")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrMissingFields, strings.Join(missing, ", "))
	}
	if r.EndTime != nil && r.EndTime.Before(*r.ScheduledTime) {
		return ErrEndBeforeStart
	}
	return nil
}

// NewEvent builds an event from a validated request.
func NewEvent(r *CreateEventRequest, now time.Time) *Event {
	now = now.UTC()
	start := r.ScheduledTime.UTC()
	e := &Event{
		ID:            uuid.New().String(),
		EventType:     strings.TrimSpace(r.EventType),
		Status:        strings.TrimSpace(r.Status),
		ScheduledTime: &start,
		Staff:         normalizeStaff(r.Staff),
		Title:         r.Title,
		Notes:         r.Notes,
		Details:       r.Details,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if r.EndTime != nil {
		end := r.EndTime.UTC()
		e.EndTime = &end
	}
	return e
}

// UpdateEventRequest is a partial update; nil fields are left unchanged.
// ClearEndTime turns a ranged event back into a point event.
type UpdateEventRequest struct {
	EventType     *string         `json:"event_type"`
	ScheduledTime *time.Time      `json:"scheduled_time"`
	EndTime       *time.Time      `json:"end_time"`
	ClearEndTime  bool            `json:"clear_end_time"`
	Status        *string         `json:"status"`
	Staff         *string         `json:"staff"`
	Title         *string         `json:"title"`
	Notes         *string         `json:"notes"`
	Details       json.RawMessage `json:"details"`
}

// IsEmpty reports whether the request carries no changes.
func (r *UpdateEventRequest) IsEmpty() bool {
	return r.EventType == nil && r.ScheduledTime == nil && r.EndTime == nil && !r.ClearEndTime &&
		r.Status == nil && r.Staff == nil && r.Title == nil && r.Notes == nil && len(r.Details) == 0
}

// Apply copies the request onto e and stamps UpdatedAt. The result is
// validated as a whole so an update cannot leave end before start.
func (r *UpdateEventRequest) Apply(e *Event, now time.Time) error {
	if r.IsEmpty() {
		return ErrEmptyUpdate
	}
	if r.ClearEndTime && r.EndTime != nil {
		return ErrConflictingEndTime
	}
	next := *e
	if r.EventType != nil {
		next.EventType = strings.TrimSpace(*r.EventType)
	}
	if r.Status != nil {
		next.Status = strings.TrimSpace(*r.Status)
	}
	if r.ScheduledTime != nil {
		start := r.ScheduledTime.UTC()
		next.ScheduledTime = &start
	}
	if r.EndTime != nil {
		end := r.EndTime.UTC()
		next.EndTime = &end
	}
	if r.ClearEndTime {
		next.EndTime = nil
	}
	if r.Staff != nil {
		next.Staff = normalizeStaff(r.Staff)
	}
	if r.Title != nil {
		next.Title = *r.Title
	}
	if r.Notes != nil {
		next.Notes = *r.Notes
	}
	if len(r.Details) > 0 {
		next.Details = r.Details
	}
	if next.EventType == "" || next.Status == "" {
		return fmt.Errorf("%w: event_type and status cannot be blank", ErrMissingFields)
	}
	if next.ScheduledTime != nil && next.EndTime != nil && next.EndTime.Before(*next.ScheduledTime) {
		return ErrEndBeforeStart
	}
	next.UpdatedAt = now.UTC()
	*e = next
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Staff string
	From  *time.Time
	To    *time.Time
}

// Matches reports whether e passes the filter.
func (f ListFilter) Matches(e *Event) bool {
	if f.Staff != "" && (e.Staff == nil || *e.Staff != f.Staff) {
		return false
	}
	if f.From != nil && (e.ScheduledTime == nil || e.ScheduledTime.Before(*f.From)) {
		return false
	}
	if f.To != nil && (e.ScheduledTime == nil || e.ScheduledTime.After(*f.To)) {
		return false
	}
	return true
}

func normalizeStaff(staff *string) *string {
	if staff == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*staff)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}
