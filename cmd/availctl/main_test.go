package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salesrep-scheduling/internal/availability"
	"github.com/wolfman30/salesrep-scheduling/internal/schedule"
)

type stubComputer struct {
	day string
}

func (s *stubComputer) WeeklyAvailability(context.Context) (*availability.Response, error) {
	return &availability.Response{
		Success: true,
		Message: availability.MessageFound,
		Data: []schedule.StaffAvailability{{
			StaffID:      "u-1",
			StaffName:    "Dana",
			Capabilities: []string{},
			Availability: []schedule.DayAvailability{{Day: "2025-03-10", Slots: []string{"09:00:00"}}},
		}},
	}, nil
}

func (s *stubComputer) DayAvailability(_ context.Context, raw string) (*availability.Response, error) {
	s.day = raw
	if _, err := schedule.ParseDate(raw); err != nil {
		return nil, err
	}
	return &availability.Response{Success: true, Message: availability.MessageNotFound + " for " + raw, Data: []schedule.StaffAvailability{}}, nil
}

func execute(t *testing.T, factory computerFactory, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, factory)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestWeekCommandPrintsResponse(t *testing.T) {
	stub := &stubComputer{}
	var got options
	factory := func(_ context.Context, opts options) (availability.Computer, func(), error) {
		got = opts
		return stub, func() {}, nil
	}

	out, err := execute(t, factory, "week", "--database-url", "postgres://x", "--as-of", "2025-03-12T15:00:00Z")
	require.NoError(t, err)

	assert.Equal(t, "postgres://x", got.DatabaseURL)
	assert.Equal(t, "2025-03-12T15:00:00Z", got.AsOf)

	var resp availability.Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, []string{"09:00:00"}, resp.Data[0].Availability[0].Slots)
}

func TestDayCommandPassesDate(t *testing.T) {
	stub := &stubComputer{}
	factory := func(context.Context, options) (availability.Computer, func(), error) {
		return stub, func() {}, nil
	}

	out, err := execute(t, factory, "day", "2025-03-11")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", stub.day)
	assert.Contains(t, out, "No availability slots found for 2025-03-11")
}

func TestDayCommandRejectsBadInput(t *testing.T) {
	factory := func(context.Context, options) (availability.Computer, func(), error) {
		return &stubComputer{}, func() {}, nil
	}

	_, err := execute(t, factory, "day")
	assert.Error(t, err)

	_, err = execute(t, factory, "day", "11/03/2025")
	assert.ErrorIs(t, err, schedule.ErrInvalidDate)
}

func TestFactoryErrorSurfaces(t *testing.T) {
	boom := errors.New("no database")
	cleaned := false
	factory := func(context.Context, options) (availability.Computer, func(), error) {
		return nil, func() { cleaned = true }, boom
	}

	_, err := execute(t, factory, "week")
	assert.ErrorIs(t, err, boom)
	assert.False(t, cleaned)
}

func TestParseAsOf(t *testing.T) {
	now, err := parseAsOf("")
	require.NoError(t, err)
	assert.Nil(t, now)

	now, err = parseAsOf("2025-03-12T15:00:00Z")
	require.NoError(t, err)
	require.NotNil(t, now)
	assert.Equal(t, time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC), now().UTC())

	_, err = parseAsOf("yesterday")
	assert.Error(t, err)
}

func TestOpenComputerRequiresDatabaseURL(t *testing.T) {
	_, _, err := openComputer(context.Background(), options{})
	assert.Error(t, err)

	_, _, err = openComputer(context.Background(), options{DatabaseURL: "postgres://x", AsOf: "bad"})
	assert.Error(t, err)
}
