package schedule

import (
	"time"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// Resolver decides which candidate slots are blocked by booked appointments.
// All comparisons happen in the resolver's location.
type Resolver struct {
	loc    *time.Location
	logger *logging.Logger
	skips  SkipRecorder
}

// NewResolver creates a resolver comparing in loc.
func NewResolver(loc *time.Location, logger *logging.Logger, skips SkipRecorder) *Resolver {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	if skips == nil {
		skips = noopRecorder{}
	}
	return &Resolver{loc: loc, logger: logger, skips: skips}
}

// Usable filters out appointments that cannot take part in conflict checks:
// a missing start, or an end before the start.
func (r *Resolver) Usable(appts []Appointment) []Appointment {
	out := make([]Appointment, 0, len(appts))
	for _, a := range appts {
		switch {
		case a.Start.IsZero():
			r.logger.Warn("skipping appointment without scheduled time", "appointment_id", a.ID, "staff_id", a.StaffID)
			r.skips.RecordSkip(SkipAppointment)
		case a.End != nil && !a.End.IsZero() && a.End.Before(a.Start):
			r.logger.Warn("skipping appointment ending before it starts", "appointment_id", a.ID, "staff_id", a.StaffID)
			r.skips.RecordSkip(SkipAppointment)
		default:
			out = append(out, a)
		}
	}
	return out
}

// CountOn returns how many appointments start on date.
func (r *Resolver) CountOn(date CalendarDate, appts []Appointment) int {
	n := 0
	for _, a := range appts {
		if DateOf(a.Start.In(r.loc)) == date {
			n++
		}
	}
	return n
}

// Conflicts reports whether slot is blocked by appt.
//
// Without an end, the slot conflicts when it falls on the appointment's date
// and the hour fields differ by at most one. Only the hour component is
// compared: 09:00 and 10:59 conflict, 09:59 and 11:00 do not.
//
// With an end on the same date, the hour rule still applies and any slot
// inside [start, end) is blocked as well. A multi-day appointment blocks every
// day strictly between its start and end dates, slots at or after the start
// time on the first day and slots before the end time on the last day.
func (r *Resolver) Conflicts(slot time.Time, appt Appointment) bool {
	s := slot.In(r.loc)
	as := appt.Start.In(r.loc)
	slotDate, startDate := DateOf(s), DateOf(as)

	if !appt.HasEnd() {
		return slotDate == startDate && hourBucketClash(s, as)
	}

	ae := appt.End.In(r.loc)
	endDate := DateOf(ae)
	slotClock := ClockOf(s).Seconds()

	if startDate == endDate {
		if slotDate != startDate {
			return false
		}
		return hourBucketClash(s, as) ||
			(slotClock >= ClockOf(as).Seconds() && slotClock < ClockOf(ae).Seconds())
	}

	switch {
	case slotDate.After(startDate) && slotDate.Before(endDate):
		return true
	case slotDate == startDate:
		return slotClock >= ClockOf(as).Seconds()
	case slotDate == endDate:
		return slotClock < ClockOf(ae).Seconds()
	default:
		return false
	}
}

func hourBucketClash(a, b time.Time) bool {
	diff := a.Hour() - b.Hour()
	if diff < 0 {
		diff = -diff
	}
	return diff <= 1
}

// FreeSlots returns the candidates on date that no appointment blocks. When
// the day has reached maxPerDay appointments nothing is free.
func (r *Resolver) FreeSlots(date CalendarDate, slots []CandidateSlot, appts []Appointment, maxPerDay int) []CandidateSlot {
	if maxPerDay <= 0 {
		maxPerDay = DefaultMaxPerDay
	}
	if count := r.CountOn(date, appts); count >= maxPerDay {
		r.logger.Debug("day at appointment cap", "date", date.String(), "count", count, "max", maxPerDay)
		return nil
	}
	free := make([]CandidateSlot, 0, len(slots))
	for _, slot := range slots {
		blocked := false
		for _, a := range appts {
			if r.Conflicts(slot.At, a) {
				blocked = true
				break
			}
		}
		if !blocked {
			free = append(free, slot)
		}
	}
	return free
}
