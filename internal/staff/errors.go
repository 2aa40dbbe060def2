package staff

import "errors"

var (
	// ErrTemplateNotFound is returned when a staff member has no stored template.
	ErrTemplateNotFound = errors.New("availability template not found")

	// ErrUnknownStaff is returned when writing a template for a staff id that does not exist.
	ErrUnknownStaff = errors.New("unknown staff member")

	// ErrInvalidTemplate is returned when a submitted template fails validation.
	ErrInvalidTemplate = errors.New("invalid availability template")
)
