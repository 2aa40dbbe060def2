package schedule

import (
	"sort"
	"time"
)

// SlotsOn keeps the candidates whose instant falls on date in loc. Buffers
// that roll across midnight belong to the neighbouring day and are dropped.
func SlotsOn(date CalendarDate, slots []CandidateSlot, loc *time.Location) []CandidateSlot {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]CandidateSlot, 0, len(slots))
	for _, slot := range slots {
		if DateOf(slot.At.In(loc)) == date {
			out = append(out, slot)
		}
	}
	return out
}

// RenderSlots formats free candidates of date as HH:MM:SS strings in loc, in
// chronological order. Instants on other dates are skipped and duplicates
// keep their first position.
func RenderSlots(date CalendarDate, slots []CandidateSlot, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	sorted := SlotsOn(date, slots, loc)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].At.Before(sorted[j].At)
	})
	out := make([]string, 0, len(sorted))
	seen := make(map[string]struct{}, len(sorted))
	for _, slot := range sorted {
		label := ClockOf(slot.At.In(loc)).String()
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// Aggregate attaches staff details to computed days and returns results in
// roster order. Staff missing from days are omitted; days are sorted by date.
func Aggregate(staff []StaffMember, days map[string][]DayAvailability) []StaffAvailability {
	out := make([]StaffAvailability, 0, len(days))
	emitted := make(map[string]bool, len(days))
	for _, member := range staff {
		staffDays, ok := days[member.ID]
		if !ok || emitted[member.ID] {
			continue
		}
		emitted[member.ID] = true
		sorted := append([]DayAvailability{}, staffDays...)
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day < sorted[j].Day })
		caps := member.Capabilities
		if caps == nil {
			caps = []string{}
		}
		out = append(out, StaffAvailability{
			StaffID:      member.ID,
			StaffName:    member.Name,
			Capabilities: caps,
			Availability: sorted,
		})
	}
	return out
}
