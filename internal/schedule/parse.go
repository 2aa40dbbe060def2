package schedule

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// RawStaff is a roster row as stored: each capability is a JSON object
// serialized into a string.
type RawStaff struct {
	ID                string
	Name              string
	ProjectCategories []string
}

// RawTemplate is a template row as stored: each day entry is a JSON string of
// the form {"day":"Monday","slots":["09:00"]}.
type RawTemplate struct {
	StaffID           string
	AvailabilitySlots []string
	MaxAppointments   *int
}

type categoryRecord struct {
	Name string `json:"name"`
}

// DayEntry is one decoded weekday entry of a stored template.
type DayEntry struct {
	Day   string   `json:"day"`
	Slots []string `json:"slots"`
}

// Parser decodes JSON-in-string fields once at the boundary. Bad records are
// logged and skipped individually.
type Parser struct {
	logger *logging.Logger
	skips  SkipRecorder
}

// NewParser creates a boundary parser.
func NewParser(logger *logging.Logger, skips SkipRecorder) *Parser {
	if logger == nil {
		logger = logging.Default()
	}
	if skips == nil {
		skips = noopRecorder{}
	}
	return &Parser{logger: logger, skips: skips}
}

// Staff converts a roster row, dropping malformed capability entries.
func (p *Parser) Staff(raw RawStaff) StaffMember {
	caps := make([]string, 0, len(raw.ProjectCategories))
	for _, entry := range raw.ProjectCategories {
		var rec categoryRecord
		if err := json.Unmarshal([]byte(entry), &rec); err != nil || strings.TrimSpace(rec.Name) == "" {
			p.logger.Warn("skipping malformed capability", "staff_id", raw.ID, "entry", entry)
			p.skips.RecordSkip(SkipCapability)
			continue
		}
		caps = append(caps, rec.Name)
	}
	return StaffMember{ID: raw.ID, Name: raw.Name, Capabilities: caps}
}

// Template converts a template row. It returns false when no day entry could
// be decoded, in which case the staff member has no usable template.
func (p *Parser) Template(raw RawTemplate) (AvailabilityTemplate, bool) {
	tmpl := AvailabilityTemplate{
		StaffID:   raw.StaffID,
		Days:      make(map[time.Weekday][]string),
		MaxPerDay: DefaultMaxPerDay,
	}
	if raw.MaxAppointments != nil && *raw.MaxAppointments > 0 {
		tmpl.MaxPerDay = *raw.MaxAppointments
	}
	for _, entry := range raw.AvailabilitySlots {
		var day DayEntry
		if err := json.Unmarshal([]byte(entry), &day); err != nil {
			p.logger.Warn("skipping malformed template day", "staff_id", raw.StaffID, "error", err)
			p.skips.RecordSkip(SkipTemplateDay)
			continue
		}
		wd, err := ParseWeekday(day.Day)
		if err != nil {
			p.logger.Warn("skipping template day with unknown weekday", "staff_id", raw.StaffID, "day", day.Day)
			p.skips.RecordSkip(SkipTemplateDay)
			continue
		}
		if _, dup := tmpl.Days[wd]; dup {
			p.logger.Warn("ignoring duplicate template day", "staff_id", raw.StaffID, "day", wd.String())
			continue
		}
		tmpl.Days[wd] = append([]string(nil), day.Slots...)
	}
	if len(tmpl.Days) == 0 {
		p.logger.Warn("staff template has no usable days", "staff_id", raw.StaffID)
		p.skips.RecordSkip(SkipTemplate)
		return AvailabilityTemplate{}, false
	}
	return tmpl, true
}
