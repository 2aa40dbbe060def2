package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/wolfman30/salesrep-scheduling/internal/observability/metrics"
	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

var availabilityTracer = otel.Tracer("scheduling.internal.availability")

const (
	MessageFound    = "Availability slots retrieved successfully"
	MessageNotFound = "No availability slots found"
)

// Roster lists staff eligible for appointment scheduling.
type Roster interface {
	ListSchedulableStaff(ctx context.Context) ([]schedule.RawStaff, error)
}

// TemplateSource loads weekly templates for a set of staff.
type TemplateSource interface {
	ListTemplates(ctx context.Context, staffIDs []string) ([]schedule.RawTemplate, error)
}

// AppointmentSource loads appointments for a set of staff overlapping [from, to].
type AppointmentSource interface {
	ListForStaff(ctx context.Context, staffIDs []string, from, to time.Time) ([]schedule.Appointment, error)
}

// Response is the envelope returned by both availability operations.
type Response struct {
	Success bool                         `json:"success"`
	Message string                       `json:"message"`
	Data    []schedule.StaffAvailability `json:"data"`
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the as-of instant source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetrics wires Prometheus collectors.
func WithMetrics(m *metrics.AvailabilityMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// Service computes sales-rep availability by fanning out to its collaborators
// and running the schedule engine over the results.
type Service struct {
	roster       Roster
	templates    TemplateSource
	appointments AppointmentSource
	normalizer   *schedule.Normalizer
	metrics      *metrics.AvailabilityMetrics
	now          func() time.Time
	logger       *logging.Logger
}

// NewService constructs an availability service. tz may be nil, in which case
// all computations run in UTC.
func NewService(roster Roster, templates TemplateSource, appointments AppointmentSource, tz schedule.TimezoneSource, logger *logging.Logger, opts ...Option) *Service {
	if roster == nil || templates == nil || appointments == nil {
		panic("availability: roster, template and appointment sources required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{
		roster:       roster,
		templates:    templates,
		appointments: appointments,
		normalizer:   schedule.NewNormalizer(tz, logger),
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WeeklyAvailability computes free slots for Monday through Sunday of the
// current week in the organizational timezone.
func (s *Service) WeeklyAvailability(ctx context.Context) (*Response, error) {
	return s.compute(ctx, schedule.ScopeWeek, func(loc *time.Location) schedule.Window {
		return schedule.CurrentWeek(s.now(), loc)
	})
}

// DayAvailability computes free slots for one YYYY-MM-DD date. A malformed
// date returns schedule.ErrInvalidDate before any collaborator is called.
func (s *Service) DayAvailability(ctx context.Context, rawDate string) (*Response, error) {
	date, err := schedule.ParseDate(rawDate)
	if err != nil {
		s.metrics.ObserveRequest(string(schedule.ScopeDay), "invalid_date", 0)
		return nil, err
	}
	return s.compute(ctx, schedule.ScopeDay, func(loc *time.Location) schedule.Window {
		return schedule.DayWindow(date, loc)
	})
}

func (s *Service) compute(ctx context.Context, scope schedule.Scope, windowFor func(*time.Location) schedule.Window) (resp *Response, err error) {
	ctx, span := availabilityTracer.Start(ctx, "availability.compute")
	defer span.End()
	span.SetAttributes(attribute.String("scheduling.scope", string(scope)))

	started := time.Now()
	defer func() {
		outcome := "error"
		switch {
		case err == nil && hasSlots(resp.Data):
			outcome = "found"
		case err == nil:
			outcome = "empty"
		}
		s.metrics.ObserveRequest(string(scope), outcome, time.Since(started).Seconds())
		if err != nil {
			span.RecordError(err)
		}
	}()

	// Roster and timezone are independent; a timezone failure falls back to UTC.
	var (
		rawStaff []schedule.RawStaff
		loc      = time.UTC
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		staff, ferr := s.roster.ListSchedulableStaff(gctx)
		if ferr != nil {
			return &FetchError{Source: SourceRoster, Err: ferr}
		}
		rawStaff = staff
		return nil
	})
	g.Go(func() error {
		loc = s.normalizer.Resolve(gctx)
		return nil
	})
	if err = g.Wait(); err != nil {
		s.logger.Error("availability roster fetch failed", "scope", string(scope), "error", err)
		return nil, err
	}

	window := windowFor(loc)
	span.SetAttributes(
		attribute.String("scheduling.org_tz", loc.String()),
		attribute.Int("scheduling.staff_count", len(rawStaff)),
	)

	if len(rawStaff) == 0 {
		return &Response{Success: true, Message: notFoundMessage(scope, window), Data: []schedule.StaffAvailability{}}, nil
	}

	ids := make([]string, 0, len(rawStaff))
	for _, st := range rawStaff {
		ids = append(ids, st.ID)
	}

	var (
		templates    []schedule.RawTemplate
		appointments []schedule.Appointment
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, ferr := s.templates.ListTemplates(gctx, ids)
		if ferr != nil {
			return &FetchError{Source: SourceTemplates, Err: ferr}
		}
		templates = rows
		return nil
	})
	g.Go(func() error {
		rows, ferr := s.appointments.ListForStaff(gctx, ids, window.Start, window.End)
		if ferr != nil {
			return &FetchError{Source: SourceAppointments, Err: ferr}
		}
		appointments = rows
		return nil
	})
	if err = g.Wait(); err != nil {
		s.logger.Error("availability collaborator fetch failed", "scope", string(scope), "error", err)
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("availability: %w", err)
	}

	engine := schedule.NewEngine(s.logger, s.skipRecorder())
	data := engine.Compute(schedule.Input{
		Window:       window,
		Location:     loc,
		Staff:        rawStaff,
		Templates:    templates,
		Appointments: appointments,
	})

	s.logger.Info("availability computed",
		"scope", string(scope),
		"org_tz", loc.String(),
		"from", window.Start.Format(time.RFC3339),
		"staff_count", len(data),
		"appointment_count", len(appointments),
	)

	if !hasSlots(data) {
		return &Response{Success: true, Message: notFoundMessage(scope, window), Data: data}, nil
	}
	return &Response{Success: true, Message: MessageFound, Data: data}, nil
}

func (s *Service) skipRecorder() schedule.SkipRecorder {
	if s.metrics == nil {
		return nil
	}
	return s.metrics
}

func hasSlots(data []schedule.StaffAvailability) bool {
	for _, st := range data {
		for _, day := range st.Availability {
			if len(day.Slots) > 0 {
				return true
			}
		}
	}
	return false
}

func notFoundMessage(scope schedule.Scope, window schedule.Window) string {
	if scope == schedule.ScopeDay && len(window.Dates) > 0 {
		return fmt.Sprintf("%s for %s", MessageNotFound, window.Dates[0].String())
	}
	return MessageNotFound
}

// IsClientError reports whether err was caused by caller input.
func IsClientError(err error) bool {
	return errors.Is(err, schedule.ErrInvalidDate)
}
