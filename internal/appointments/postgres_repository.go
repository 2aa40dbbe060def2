package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

var appointmentsTracer = otel.Tracer("scheduling.internal.appointments")

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const eventColumns = `id, event_type, status, scheduled_time, end_time, staff, title, notes, details, created_at, updated_at`

// PostgresRepository persists events in the events table.
type PostgresRepository struct {
	db  DB
	now func() time.Time
}

// NewPostgresRepository creates a Postgres-backed repository.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresRepository{db: db, now: time.Now}
}

// Create inserts a new event.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateEventRequest) (*Event, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	e := NewEvent(req, r.now())
	_, err := r.db.Exec(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.EventType, e.Status, e.ScheduledTime, e.EndTime, e.Staff, e.Title, e.Notes,
		detailsOrEmpty(e.Details), e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: create event: %w", err)
	}
	return e, nil
}

// Get retrieves an event by id.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get event: %w", err)
	}
	return e, nil
}

// List returns matching events ordered by scheduled time.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Event, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Staff != "" {
		args = append(args, filter.Staff)
		clauses = append(clauses, fmt.Sprintf("staff = $%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("scheduled_time >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("scheduled_time <= $%d", len(args)))
	}
	query := `SELECT ` + eventColumns + ` FROM events`
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, " AND ")
	}
	query += ` ORDER BY scheduled_time ASC NULLS LAST, created_at ASC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list events: %w", err)
	}
	defer rows.Close()

	events := make([]*Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list events: %w", err)
	}
	return events, nil
}

// Update applies a partial update and persists the merged event.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateEventRequest) (*Event, error) {
	if req.IsEmpty() {
		if err := validateID(id); err != nil {
			return nil, err
		}
		return nil, ErrEmptyUpdate
	}
	e, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(e, r.now()); err != nil {
		return nil, err
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE events
		SET event_type = $2, status = $3, scheduled_time = $4, end_time = $5, staff = $6,
			title = $7, notes = $8, details = $9, updated_at = $10
		WHERE id = $1`,
		e.ID, e.EventType, e.Status, e.ScheduledTime, e.EndTime, e.Staff, e.Title, e.Notes,
		detailsOrEmpty(e.Details), e.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return e, nil
}

// Delete removes an event and returns the deleted row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	row := r.db.QueryRow(ctx, `DELETE FROM events WHERE id = $1 RETURNING `+eventColumns, id)
	e, err := scanEvent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: delete event: %w", err)
	}
	return e, nil
}

// ListForStaff returns appointments of the given staff overlapping [from, to].
// Multi-day events that started before the window are included, as are rows
// with a NULL scheduled_time, which the engine logs and skips.
func (r *PostgresRepository) ListForStaff(ctx context.Context, staffIDs []string, from, to time.Time) ([]schedule.Appointment, error) {
	ctx, span := appointmentsTracer.Start(ctx, "appointments.list_for_staff")
	defer span.End()
	span.SetAttributes(attribute.Int("scheduling.staff_count", len(staffIDs)))

	if len(staffIDs) == 0 {
		return []schedule.Appointment{}, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT id, staff, scheduled_time, end_time
		FROM events
		WHERE staff = ANY($1)
			AND (scheduled_time IS NULL OR (scheduled_time <= $3
				AND (end_time >= $2 OR (end_time IS NULL AND scheduled_time >= $2))))
		ORDER BY scheduled_time ASC NULLS LAST`,
		staffIDs, from.UTC(), to.UTC(),
	)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("appointments: list for staff: %w", err)
	}
	defer rows.Close()

	out := make([]schedule.Appointment, 0)
	for rows.Next() {
		var (
			id    uuid.UUID
			staff string
			start *time.Time
			end   *time.Time
		)
		if err := rows.Scan(&id, &staff, &start, &end); err != nil {
			return nil, fmt.Errorf("appointments: scan appointment: %w", err)
		}
		e := Event{ID: id.String(), Staff: &staff, ScheduledTime: start, EndTime: end}
		out = append(out, e.Appointment())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list for staff: %w", err)
	}
	span.SetAttributes(attribute.Int("scheduling.appointment_count", len(out)))
	return out, nil
}

func scanEvent(row pgx.Row) (*Event, error) {
	var (
		e       Event
		id      uuid.UUID
		details []byte
	)
	if err := row.Scan(
		&id, &e.EventType, &e.Status, &e.ScheduledTime, &e.EndTime, &e.Staff,
		&e.Title, &e.Notes, &details, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.ID = id.String()
	if len(details) > 0 && string(details) != "{}" {
		e.Details = json.RawMessage(details)
	}
	return &e, nil
}

func detailsOrEmpty(details json.RawMessage) []byte {
	if len(details) == 0 {
		return []byte("{}")
	}
	return details
}
