package schedule

import (
	"time"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// Input is everything one availability computation needs. Location must be
// the already-resolved organizational timezone.
type Input struct {
	Window       Window
	Location     *time.Location
	Staff        []RawStaff
	Templates    []RawTemplate
	Appointments []Appointment
}

// Engine computes free slots from stored rows. It holds no state between
// calls.
type Engine struct {
	logger *logging.Logger
	skips  SkipRecorder
}

// NewEngine creates an engine. skips may be nil.
func NewEngine(logger *logging.Logger, skips SkipRecorder) *Engine {
	if logger == nil {
		logger = logging.Default()
	}
	if skips == nil {
		skips = noopRecorder{}
	}
	return &Engine{logger: logger, skips: skips}
}

// Compute returns per-staff availability for the window. Staff without a
// usable template are left out. Every window day matching a template weekday
// is reported, with an empty slot list when nothing is free.
func (e *Engine) Compute(in Input) []StaffAvailability {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}
	parser := NewParser(e.logger, e.skips)
	expander := NewExpander(loc, e.logger, e.skips)
	resolver := NewResolver(loc, e.logger, e.skips)

	templates := make(map[string]AvailabilityTemplate, len(in.Templates))
	for _, raw := range in.Templates {
		if _, dup := templates[raw.StaffID]; dup {
			continue
		}
		if tmpl, ok := parser.Template(raw); ok {
			templates[raw.StaffID] = tmpl
		}
	}

	byStaff := make(map[string][]Appointment)
	for _, a := range resolver.Usable(in.Appointments) {
		byStaff[a.StaffID] = append(byStaff[a.StaffID], a)
	}

	staff := make([]StaffMember, 0, len(in.Staff))
	days := make(map[string][]DayAvailability, len(templates))
	for _, raw := range in.Staff {
		member := parser.Staff(raw)
		staff = append(staff, member)
		tmpl, ok := templates[member.ID]
		if !ok {
			continue
		}
		if _, seen := days[member.ID]; seen {
			continue
		}
		memberDays := make([]DayAvailability, 0, len(in.Window.Dates))
		for _, date := range in.Window.Dates {
			declared, ok := tmpl.SlotsFor(date.Weekday())
			if !ok {
				continue
			}
			candidates := SlotsOn(date, expander.Expand(date, declared), loc)
			free := resolver.FreeSlots(date, candidates, byStaff[member.ID], tmpl.MaxPerDay)
			memberDays = append(memberDays, DayAvailability{
				Day:   date.String(),
				Slots: RenderSlots(date, free, loc),
			})
		}
		days[member.ID] = memberDays
	}

	result := Aggregate(staff, days)
	e.logger.Debug("availability computed",
		"scope", string(in.Window.Scope),
		"org_tz", loc.String(),
		"staff_count", len(result),
	)
	return result
}
