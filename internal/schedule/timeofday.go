package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

var timeOfDayPattern = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)

// ParseTimeOfDay accepts H:MM, HH:MM or HH:MM:SS with in-range fields.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	if !timeOfDayPattern.MatchString(raw) {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
	}
	parts := strings.Split(raw, ":")
	fields := [3]int{}
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, raw)
		}
		fields[i] = v
	}
	tod := TimeOfDay{Hour: fields[0], Minute: fields[1], Second: fields[2]}
	if tod.Hour > 23 || tod.Minute > 59 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("%w: %q out of range", ErrInvalidTimeOfDay, raw)
	}
	return tod, nil
}

// ClockOf returns the wall-clock time of t in its own location.
func ClockOf(t time.Time) TimeOfDay {
	h, m, s := t.Clock()
	return TimeOfDay{Hour: h, Minute: m, Second: s}
}

// Seconds since midnight.
func (t TimeOfDay) Seconds() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// String renders HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
