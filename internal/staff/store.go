package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

var staffTracer = otel.Tracer("scheduling.internal.staff")

const foreignKeyViolation = "23503"

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store reads the scheduling roster and weekly templates from Postgres.
type Store struct {
	db  DB
	now func() time.Time
}

// NewStore creates a new staff store.
func NewStore(db DB) *Store {
	if db == nil {
		panic("staff: db required")
	}
	return &Store{db: db, now: time.Now}
}

// ListSchedulableStaff returns active staff enabled for appointment booking.
func (s *Store) ListSchedulableStaff(ctx context.Context) ([]schedule.RawStaff, error) {
	ctx, span := staffTracer.Start(ctx, "staff.list_schedulable")
	defer span.End()

	rows, err := s.db.Query(ctx, `
		SELECT id, name, project_categories
		FROM users
		WHERE est_app_login = TRUE AND active = TRUE
		ORDER BY name ASC, id ASC`)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("staff: list schedulable: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.RawStaff, 0)
	for rows.Next() {
		var st schedule.RawStaff
		if err := rows.Scan(&st.ID, &st.Name, &st.ProjectCategories); err != nil {
			return nil, fmt.Errorf("staff: scan staff: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("staff: list schedulable: %w", err)
	}
	span.SetAttributes(attribute.Int("scheduling.staff_count", len(out)))
	return out, nil
}

// ListTemplates returns stored templates for the given staff ids.
func (s *Store) ListTemplates(ctx context.Context, staffIDs []string) ([]schedule.RawTemplate, error) {
	ctx, span := staffTracer.Start(ctx, "staff.list_templates")
	defer span.End()
	span.SetAttributes(attribute.Int("scheduling.staff_count", len(staffIDs)))

	if len(staffIDs) == 0 {
		return []schedule.RawTemplate{}, nil
	}
	rows, err := s.db.Query(ctx, `
		SELECT user_id, availability_slots, max_appointments_per_day
		FROM user_appointments_availability
		WHERE user_id = ANY($1)`, staffIDs)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("staff: list templates: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.RawTemplate, 0, len(staffIDs))
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("staff: scan template: %w", err)
		}
		out = append(out, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("staff: list templates: %w", err)
	}
	return out, nil
}

// GetTemplate returns the stored template of one staff member.
func (s *Store) GetTemplate(ctx context.Context, staffID string) (*schedule.RawTemplate, error) {
	row := s.db.QueryRow(ctx, `
		SELECT user_id, availability_slots, max_appointments_per_day
		FROM user_appointments_availability
		WHERE user_id = $1`, staffID)
	tmpl, err := scanTemplate(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTemplateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("staff: get template: %w", err)
	}
	return &tmpl, nil
}

// UpsertTemplate stores a template, replacing any previous one.
func (s *Store) UpsertTemplate(ctx context.Context, tmpl schedule.RawTemplate) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO user_appointments_availability (user_id, availability_slots, max_appointments_per_day, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET availability_slots = EXCLUDED.availability_slots,
			max_appointments_per_day = EXCLUDED.max_appointments_per_day,
			updated_at = EXCLUDED.updated_at`,
		tmpl.StaffID, tmpl.AvailabilitySlots, tmpl.MaxAppointments, s.now().UTC(),
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
		return fmt.Errorf("%w: %s", ErrUnknownStaff, tmpl.StaffID)
	}
	if err != nil {
		return fmt.Errorf("staff: upsert template: %w", err)
	}
	return nil
}

func scanTemplate(row pgx.Row) (schedule.RawTemplate, error) {
	var tmpl schedule.RawTemplate
	if err := row.Scan(&tmpl.StaffID, &tmpl.AvailabilitySlots, &tmpl.MaxAppointments); err != nil {
		return schedule.RawTemplate{}, err
	}
	return tmpl, nil
}
