package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	valid := map[string]string{
		"9:00":     "09:00:00",
		"09:00":    "09:00:00",
		"13:30:15": "13:30:15",
		"0:00":     "00:00:00",
		"23:59:59": "23:59:59",
	}
	for raw, want := range valid {
		tod, err := ParseTimeOfDay(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, tod.String(), raw)
	}

	for _, raw := range []string{"25:99", "abc", "24:00", "09:60", "09:00:60", "9", "9:0", "09:00:00:00", " 09:00", ""} {
		_, err := ParseTimeOfDay(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeOfDay, raw)
	}
}

func TestTimeOfDayRoundTripInOrgZone(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	date := CalendarDate{2025, time.March, 10}
	for _, raw := range []string{"09:00", "7:45", "16:20:30"} {
		tod, err := ParseTimeOfDay(raw)
		require.NoError(t, err)
		anchor := date.At(tod.Hour, tod.Minute, tod.Second, ny)
		assert.Equal(t, tod.String(), ClockOf(anchor.UTC().In(ny)).String())
	}
}
