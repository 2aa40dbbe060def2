package schedule

import "time"

// Scope names the kind of window a computation covers.
type Scope string

const (
	ScopeWeek Scope = "week"
	ScopeDay  Scope = "day"
)

// Window is a contiguous run of calendar dates in the organizational timezone.
// Start is 00:00 of the first date and End is 23:59:59.999 of the last one.
type Window struct {
	Scope Scope
	Start time.Time
	End   time.Time
	Dates []CalendarDate
}

// CurrentWeek returns Monday through Sunday of the week containing asOf, as
// seen from loc.
func CurrentWeek(asOf time.Time, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	today := DateOf(asOf.In(loc))
	// Monday-based offset: Monday=0 ... Sunday=6.
	offset := (int(today.Weekday()) + 6) % 7
	monday := today.AddDays(-offset)
	return newWindow(ScopeWeek, monday, 7, loc)
}

// SingleDay validates raw as YYYY-MM-DD and returns the one-date window.
func SingleDay(raw string, loc *time.Location) (Window, error) {
	date, err := ParseDate(raw)
	if err != nil {
		return Window{}, err
	}
	return DayWindow(date, loc), nil
}

// DayWindow returns the window covering exactly date.
func DayWindow(date CalendarDate, loc *time.Location) Window {
	if loc == nil {
		loc = time.UTC
	}
	return newWindow(ScopeDay, date, 1, loc)
}

func newWindow(scope Scope, first CalendarDate, days int, loc *time.Location) Window {
	dates := make([]CalendarDate, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, first.AddDays(i))
	}
	last := dates[len(dates)-1]
	return Window{
		Scope: scope,
		Start: first.Midnight(loc),
		End:   time.Date(last.Year, last.Month, last.Day, 23, 59, 59, int(999*time.Millisecond), loc),
		Dates: dates,
	}
}

// Contains reports whether date is one of the window's dates.
func (w Window) Contains(date CalendarDate) bool {
	if len(w.Dates) == 0 {
		return false
	}
	return !date.Before(w.Dates[0]) && !date.After(w.Dates[len(w.Dates)-1])
}
