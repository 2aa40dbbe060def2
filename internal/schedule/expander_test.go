package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/salesrep-scheduling/pkg/logging"
)

func clocks(slots []CandidateSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, ClockOf(s.At).String())
	}
	return out
}

func TestExpandProducesBufferedSortedSlots(t *testing.T) {
	skips := countingRecorder{}
	e := NewExpander(time.UTC, logging.Discard(), skips)
	date := CalendarDate{2025, time.March, 10}

	slots := e.Expand(date, []string{"13:30:15", "09:00"})

	require.Len(t, slots, 6)
	assert.Equal(t, []string{"08:00:00", "09:00:00", "10:00:00", "12:30:15", "13:30:15", "14:30:15"}, clocks(slots))
	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].At.Before(slots[i-1].At))
	}
	assert.Equal(t, -1, slots[0].Offset)
	assert.Equal(t, 0, slots[1].Offset)
	assert.Equal(t, 1, slots[2].Offset)
	assert.Empty(t, skips)
}

func TestExpandDropsMalformedEntries(t *testing.T) {
	skips := countingRecorder{}
	e := NewExpander(time.UTC, logging.Discard(), skips)

	slots := e.Expand(CalendarDate{2025, time.March, 10}, []string{"25:99", "abc", "10:00"})

	assert.Equal(t, []string{"09:00:00", "10:00:00", "11:00:00"}, clocks(slots))
	assert.Equal(t, 2, skips[SkipSlot])
}

func TestExpandTimeOfDayRollsAcrossMidnight(t *testing.T) {
	date := CalendarDate{2025, time.March, 10}

	early := ExpandTimeOfDay(date, TimeOfDay{Hour: 0, Minute: 30}, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 9, 23, 30, 0, 0, time.UTC), early[0].At)
	assert.Equal(t, time.Date(2025, time.March, 10, 1, 30, 0, 0, time.UTC), early[2].At)

	late := ExpandTimeOfDay(date, TimeOfDay{Hour: 23, Minute: 15}, time.UTC)
	assert.Equal(t, time.Date(2025, time.March, 11, 0, 15, 0, 0, time.UTC), late[2].At)
}

func TestExpandTimeOfDayKeepsWallClockAcrossDST(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	nine := TimeOfDay{Hour: 9}

	// The week before and after the March 9, 2025 transition.
	before := ExpandTimeOfDay(CalendarDate{2025, time.March, 7}, nine, ny)
	after := ExpandTimeOfDay(CalendarDate{2025, time.March, 10}, nine, ny)

	assert.Equal(t, []string{"08:00:00", "09:00:00", "10:00:00"}, clocks(before))
	assert.Equal(t, []string{"08:00:00", "09:00:00", "10:00:00"}, clocks(after))
	assert.Equal(t, 14, before[1].At.UTC().Hour())
	assert.Equal(t, 13, after[1].At.UTC().Hour())

	// On the transition day itself 04:00 still buffers to 03:00 and 05:00.
	dstDay := ExpandTimeOfDay(CalendarDate{2025, time.March, 9}, TimeOfDay{Hour: 4}, ny)
	assert.Equal(t, []string{"03:00:00", "04:00:00", "05:00:00"}, clocks(dstDay))
	assert.Equal(t, time.Hour, dstDay[1].At.Sub(dstDay[0].At))
}

func TestExpandTimeOfDaySkipsSpringForwardGap(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	dstDay := CalendarDate{2025, time.March, 9}

	// 02:00 to 02:59 do not exist on March 9, 2025 in New York.
	three := ExpandTimeOfDay(dstDay, TimeOfDay{Hour: 3}, ny)
	assert.Equal(t, []string{"03:00:00", "04:00:00"}, clocks(three))
	assert.Equal(t, []int{0, 1}, []int{three[0].Offset, three[1].Offset})

	halfPastTwo := ExpandTimeOfDay(dstDay, TimeOfDay{Hour: 2, Minute: 30}, ny)
	assert.Equal(t, []string{"01:30:00", "03:30:00"}, clocks(halfPastTwo))
	assert.Equal(t, []int{-1, 1}, []int{halfPastTwo[0].Offset, halfPastTwo[1].Offset})

	for _, slot := range append(three, halfPastTwo...) {
		assert.Equal(t, dstDay, DateOf(slot.At))
		assert.Equal(t, slot.Source.Hour+slot.Offset, slot.At.Hour())
	}
}

func TestExpandOnSpringForwardDayRendersRealTimes(t *testing.T) {
	ny := mustLoad(t, "America/New_York")
	dstDay := CalendarDate{2025, time.March, 9}
	e := NewExpander(ny, logging.Discard(), nil)

	slots := e.Expand(dstDay, []string{"02:30", "03:00"})

	assert.Equal(t, []string{"01:30:00", "03:00:00", "03:30:00", "04:00:00"}, RenderSlots(dstDay, slots, ny))
}
