package availability

import "fmt"

// Collaborator names used in FetchError.
const (
	SourceRoster       = "roster"
	SourceTemplates    = "templates"
	SourceAppointments = "appointments"
)

// FetchError reports a failed collaborator fetch. It fails the whole request.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("availability: fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
