package appointments

import "errors"

var (
	// ErrNotFound is returned when no event has the requested id.
	ErrNotFound = errors.New("event not found")

	// ErrInvalidID is returned for ids that are not UUIDs.
	ErrInvalidID = errors.New("invalid event id")

	// ErrMissingFields is returned when a create request lacks required fields.
	ErrMissingFields = errors.New("event_type, scheduled_time and status are required")

	// ErrEndBeforeStart is returned when end_time precedes scheduled_time.
	ErrEndBeforeStart = errors.New("end_time must not be before scheduled_time")

	// ErrConflictingEndTime is returned when an update both sets and clears end_time.
	ErrConflictingEndTime = errors.New("end_time and clear_end_time cannot be combined")

	// ErrEmptyUpdate is returned for an update request that changes nothing.
	ErrEmptyUpdate = errors.New("no update data provided")
)

// IsValidation reports whether err was caused by request content.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingFields) ||
		errors.Is(err, ErrEndBeforeStart) ||
		errors.Is(err, ErrConflictingEndTime) ||
		errors.Is(err, ErrEmptyUpdate) ||
		errors.Is(err, ErrInvalidID)
}
