package schedule

import (
	"sort"
	"time"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

// BufferHours is the padding generated on each side of a declared slot.
const BufferHours = 1

// CandidateSlot is a concrete instant offered for booking on a given day.
type CandidateSlot struct {
	At     time.Time
	Source TimeOfDay
	// Offset is -BufferHours, 0 or +BufferHours relative to Source.
	Offset int
}

// Expander turns template time-of-day strings into buffered candidate slots.
type Expander struct {
	loc    *time.Location
	logger *logging.Logger
	skips  SkipRecorder
}

// NewExpander creates an expander anchored in loc.
func NewExpander(loc *time.Location, logger *logging.Logger, skips SkipRecorder) *Expander {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.Default()
	}
	if skips == nil {
		skips = noopRecorder{}
	}
	return &Expander{loc: loc, logger: logger, skips: skips}
}

// Expand validates each raw entry and emits the anchor plus one slot an hour
// before and after it, sorted chronologically. Invalid entries are dropped.
func (e *Expander) Expand(date CalendarDate, raw []string) []CandidateSlot {
	slots := make([]CandidateSlot, 0, len(raw)*3)
	for _, entry := range raw {
		tod, err := ParseTimeOfDay(entry)
		if err != nil {
			e.logger.Warn("dropping invalid slot", "slot", entry, "date", date.String(), "error", err)
			e.skips.RecordSkip(SkipSlot)
			continue
		}
		slots = append(slots, ExpandTimeOfDay(date, tod, e.loc)...)
	}
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].At.Before(slots[j].At)
	})
	return slots
}

// ExpandTimeOfDay returns the candidates for one declared time. Hours are
// shifted on the wall clock, so 00:30 yields 23:30 of the previous day and
// shifts across a DST change keep their wall-clock hour. Wall times that do
// not exist in loc (a spring-forward gap) yield no candidate.
func ExpandTimeOfDay(date CalendarDate, tod TimeOfDay, loc *time.Location) []CandidateSlot {
	if loc == nil {
		loc = time.UTC
	}
	out := make([]CandidateSlot, 0, 3)
	for _, offset := range []int{-BufferHours, 0, BufferHours} {
		at, ok := wallTime(date, tod.Hour+offset, tod.Minute, tod.Second, loc)
		if !ok {
			continue
		}
		out = append(out, CandidateSlot{At: at, Source: tod, Offset: offset})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].At.Before(out[j].At)
	})
	return out
}

// wallTime anchors the wall clock in loc and reports false when loc skips
// that reading.
func wallTime(date CalendarDate, hour, minute, second int, loc *time.Location) (time.Time, bool) {
	want := date.At(hour, minute, second, time.UTC)
	at := date.At(hour, minute, second, loc)
	y, m, d := at.Date()
	h, mi, sec := at.Clock()
	wy, wm, wd := want.Date()
	wh, wmi, wsec := want.Clock()
	if y != wy || m != wm || d != wd || h != wh || mi != wmi || sec != wsec {
		return time.Time{}, false
	}
	return at, true
}
