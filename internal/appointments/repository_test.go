package appointments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()

	created, err := repo.Create(ctx, &CreateEventRequest{EventType: "appointment", ScheduledTime: ts(10, 9), Status: "scheduled", Staff: strPtr("rep-1")})
	require.NoError(t, err)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := repo.Update(ctx, created.ID, &UpdateEventRequest{Status: strPtr("confirmed")})
	require.NoError(t, err)
	assert.Equal(t, "confirmed", updated.Status)

	_, err = repo.Update(ctx, created.ID, &UpdateEventRequest{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", deleted.Status)

	_, err = repo.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = repo.Update(ctx, uuid.NewString(), &UpdateEventRequest{Status: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryRepositoryCreateValidates(t *testing.T) {
	_, err := NewInMemoryRepository().Create(context.Background(), &CreateEventRequest{EventType: "appointment"})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestInMemoryRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	created, err := repo.Create(ctx, &CreateEventRequest{EventType: "appointment", ScheduledTime: ts(10, 9), Status: "scheduled"})
	require.NoError(t, err)

	created.Status = "mutated"
	*created.ScheduledTime = *ts(20, 9)

	got, err := repo.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "scheduled", got.Status)
	assert.Equal(t, ts(10, 9), got.ScheduledTime)
}

func TestInMemoryRepositoryList(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	for _, req := range []*CreateEventRequest{
		{EventType: "a", ScheduledTime: ts(12, 9), Status: "s", Staff: strPtr("rep-1")},
		{EventType: "b", ScheduledTime: ts(10, 9), Status: "s", Staff: strPtr("rep-1")},
		{EventType: "c", ScheduledTime: ts(11, 9), Status: "s", Staff: strPtr("rep-2")},
	} {
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].EventType, all[1].EventType, all[2].EventType})

	rep1, err := repo.List(ctx, ListFilter{Staff: "rep-1", From: ts(11, 0)})
	require.NoError(t, err)
	require.Len(t, rep1, 1)
	assert.Equal(t, "a", rep1[0].EventType)
}

func TestInMemoryRepositoryListForStaff(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryRepository()
	for _, req := range []*CreateEventRequest{
		{EventType: "inside", ScheduledTime: ts(11, 9), Status: "s", Staff: strPtr("rep-1")},
		{EventType: "spans-into-window", ScheduledTime: ts(8, 9), EndTime: ts(10, 12), Status: "s", Staff: strPtr("rep-1")},
		{EventType: "before", ScheduledTime: ts(8, 9), Status: "s", Staff: strPtr("rep-1")},
		{EventType: "other-rep", ScheduledTime: ts(11, 9), Status: "s", Staff: strPtr("rep-9")},
		{EventType: "unassigned", ScheduledTime: ts(11, 9), Status: "s"},
	} {
		_, err := repo.Create(ctx, req)
		require.NoError(t, err)
	}

	// Rows written outside the API may lack a scheduled time.
	repo.events["unscheduled"] = &Event{ID: "unscheduled", EventType: "legacy", Status: "s", Staff: strPtr("rep-1")}

	appts, err := repo.ListForStaff(ctx, []string{"rep-1", "rep-2"}, *ts(10, 0), *ts(16, 23))
	require.NoError(t, err)
	require.Len(t, appts, 3)
	assert.Equal(t, *ts(8, 9), appts[0].Start)
	require.NotNil(t, appts[0].End)
	assert.Equal(t, *ts(11, 9), appts[1].Start)
	assert.Equal(t, "unscheduled", appts[2].ID)
	assert.True(t, appts[2].Start.IsZero())
	for _, a := range appts {
		assert.Equal(t, "rep-1", a.StaffID)
	}
}
