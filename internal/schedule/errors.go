package schedule

import "errors"

var (
	// ErrInvalidDate is returned when an explicit date is not a real YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidTimeOfDay is returned for slot strings outside H:MM, HH:MM or HH:MM:SS.
	ErrInvalidTimeOfDay = errors.New("invalid time of day")

	// ErrInvalidWeekday is returned for day names that are not canonical English weekdays.
	ErrInvalidWeekday = errors.New("invalid weekday name")
)

// Kinds of records dropped while reading partially corrupt data.
const (
	SkipSlot        = "slot"
	SkipCapability  = "capability"
	SkipTemplate    = "template"
	SkipTemplateDay = "template_day"
	SkipAppointment = "appointment"
)

// SkipRecorder counts records dropped during a computation.
type SkipRecorder interface {
	RecordSkip(kind string)
}

type noopRecorder struct{}

func (noopRecorder) RecordSkip(string) {}
