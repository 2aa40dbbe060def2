package schedule

import "time"

// DefaultMaxPerDay applies when a template has no cap or a non-positive one.
const DefaultMaxPerDay = 1

// StaffMember is a schedulable sales representative.
type StaffMember struct {
	ID           string
	Name         string
	Capabilities []string
}

// AvailabilityTemplate is a staff member's recurring weekly declaration.
type AvailabilityTemplate struct {
	StaffID   string
	Days      map[time.Weekday][]string
	MaxPerDay int
}

// SlotsFor returns the raw time-of-day strings declared for weekday.
func (t AvailabilityTemplate) SlotsFor(weekday time.Weekday) ([]string, bool) {
	slots, ok := t.Days[weekday]
	return slots, ok
}

// Appointment is a booked event owned by a staff member. A zero Start marks a
// record whose scheduled time was missing or unreadable.
type Appointment struct {
	ID      string
	StaffID string
	Start   time.Time
	End     *time.Time
}

// HasEnd reports whether the appointment carries an end distinct from its start.
func (a Appointment) HasEnd() bool {
	return a.End != nil && !a.End.IsZero() && !a.End.Equal(a.Start)
}

// DayAvailability lists the free slots of one calendar day.
type DayAvailability struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}

// StaffAvailability is the per-staff result of an availability computation.
type StaffAvailability struct {
	StaffID      string            `json:"staffId"`
	StaffName    string            `json:"staffName"`
	Capabilities []string          `json:"capabilities"`
	Availability []DayAvailability `json:"availability"`
}
