package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// CalendarDate is a wall-calendar day with no time or zone attached.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	y, m, d := t.Date()
	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate parses a strict YYYY-MM-DD string. Out-of-range values such as
// 2025-13-40 or 2025-02-30 are rejected rather than normalized.
func ParseDate(raw string) (CalendarDate, error) {
	raw = strings.TrimSpace(raw)
	if !datePattern.MatchString(raw) {
		return CalendarDate{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, raw)
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return CalendarDate{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidDate, raw)
	}
	return DateOf(t), nil
}

// Midnight returns 00:00 of the date in loc.
func (d CalendarDate) Midnight(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// At anchors a time of day to the date in loc. Out-of-range hours roll into
// the neighbouring day and DST gaps are normalized by time.Date.
func (d CalendarDate) At(hour, minute, second int, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, hour, minute, second, 0, loc)
}

// AddDays moves the date by n calendar days.
func (d CalendarDate) AddDays(n int) CalendarDate {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 12, 0, 0, 0, time.UTC))
}

// Weekday of the date.
func (d CalendarDate) Weekday() time.Weekday {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC).Weekday()
}

// WeekdayName is the canonical English day name used by weekly templates.
func (d CalendarDate) WeekdayName() string {
	return d.Weekday().String()
}

func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }
func (d CalendarDate) After(o CalendarDate) bool  { return d.Compare(o) > 0 }

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

var weekdaysByName = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday resolves one of the seven English day names. Matching ignores
// case and surrounding space; anything else is ErrInvalidWeekday.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdaysByName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidWeekday, name)
	}
	return wd, nil
}
