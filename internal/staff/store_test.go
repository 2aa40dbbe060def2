package staff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

func intPtr(v int) *int { return &v }

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	store := NewStore(mock)
	store.now = func() time.Time { return time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC) }
	return store, mock
}

func TestStoreListSchedulableStaff(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, name, project_categories").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "project_categories"}).
			AddRow("rep-1", "Alex Rivera", []string{`{"name":"Solar"}`}).
			AddRow("rep-2", "Blake Chen", []string{}))

	staff, err := store.ListSchedulableStaff(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []schedule.RawStaff{
		{ID: "rep-1", Name: "Alex Rivera", ProjectCategories: []string{`{"name":"Solar"}`}},
		{ID: "rep-2", Name: "Blake Chen", ProjectCategories: []string{}},
	}, staff)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListSchedulableStaffError(t *testing.T) {
	store, mock := newMockStore(t)
	boom := errors.New("timeout")
	mock.ExpectQuery("SELECT id, name").WillReturnError(boom)

	_, err := store.ListSchedulableStaff(context.Background())

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreListTemplates(t *testing.T) {
	store, mock := newMockStore(t)
	ids := []string{"rep-1", "rep-2"}

	mock.ExpectQuery("FROM user_appointments_availability").WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "availability_slots", "max_appointments_per_day"}).
			AddRow("rep-1", []string{`{"day":"Monday","slots":["09:00"]}`}, intPtr(2)).
			AddRow("rep-2", []string{`{"day":"Friday","slots":[]}`}, nil))

	tmpls, err := store.ListTemplates(context.Background(), ids)

	require.NoError(t, err)
	require.Len(t, tmpls, 2)
	assert.Equal(t, 2, *tmpls[0].MaxAppointments)
	assert.Nil(t, tmpls[1].MaxAppointments)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := store.ListTemplates(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStoreGetTemplateNotFound(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery("FROM user_appointments_availability").WithArgs("rep-9").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "availability_slots", "max_appointments_per_day"}))

	_, err := store.GetTemplate(context.Background(), "rep-9")

	assert.ErrorIs(t, err, ErrTemplateNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreUpsertTemplate(t *testing.T) {
	store, mock := newMockStore(t)
	tmpl := schedule.RawTemplate{StaffID: "rep-1", AvailabilitySlots: []string{`{"day":"Monday","slots":["09:00"]}`}, MaxAppointments: intPtr(2)}

	mock.ExpectExec("INSERT INTO user_appointments_availability").
		WithArgs("rep-1", tmpl.AvailabilitySlots, tmpl.MaxAppointments, store.now()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, store.UpsertTemplate(context.Background(), tmpl))

	mock.ExpectExec("INSERT INTO user_appointments_availability").
		WithArgs("ghost", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	err := store.UpsertTemplate(context.Background(), schedule.RawTemplate{StaffID: "ghost"})
	assert.ErrorIs(t, err, ErrUnknownStaff)

	assert.NoError(t, mock.ExpectationsWereMet())
}
