package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workdiary/backend/internal/domain"
)

func TestDeriveGrid_FutureDayIsEmpty(t *testing.T) {
	day := testWeekStart.AddDays(2)
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{ev(at(day, 8, 0), domain.KindWork)},
		Date:   day,
		Clock:  Clock{Now: at(testWeekStart.AddDays(1), 12, 0)},
	})
	assert.Equal(t, domain.DayGrid{}, grid)
}

func TestDeriveGrid_TodayStopsAtNow(t *testing.T) {
	day := testWeekStart.AddDays(2)
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{ev(at(day, 8, 0), domain.KindWork)},
		Date:   day,
		Clock:  Clock{Now: at(day, 10, 15)},
	})

	assert.Equal(t, span(16, 21), grid.Work)
	assert.Equal(t, span(0, 16), grid.NonWork)
	assert.Zero(t, grid.Break.Count())
	for i := 21; i < domain.SlotsPerDay; i++ {
		assert.False(t, grid.Work[i] || grid.Break[i] || grid.NonWork[i], "slot %d is after now", i)
	}
}

func TestDeriveGrid_AssumeIdleCapsWorkOnly(t *testing.T) {
	day := testWeekStart.AddDays(2)
	idle := at(day, 9, 0)
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{ev(at(day, 8, 0), domain.KindWork)},
		Date:   day,
		Clock:  Clock{Now: at(day, 10, 15), AssumeIdleFrom: &idle},
	})

	assert.Equal(t, span(16, 18), grid.Work)
	assert.True(t, grid.NonWork[18])
	assert.True(t, grid.NonWork[20])
	assert.False(t, grid.NonWork[21])
}

func TestDeriveGrid_AssumeIdleOnlyCapsToday(t *testing.T) {
	day := testWeekStart.AddDays(2)
	idle := at(day, 9, 0)
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{ev(at(day, 8, 0), domain.KindWork)},
		Date:   day,
		Clock:  Clock{Now: at(day.AddDays(1), 10, 0), AssumeIdleFrom: &idle},
	})

	assert.Equal(t, span(16, domain.SlotsPerDay), grid.Work)
}

func TestDeriveGrid_ShortBreakCountsAsWork(t *testing.T) {
	day := testWeekStart
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{
			ev(at(day, 8, 0), domain.KindWork),
			ev(at(day, 9, 0), domain.KindBreak),
			ev(at(day, 9, 5), domain.KindWork),
			ev(at(day, 10, 0), domain.KindStop),
		},
		Date: day,
	})

	assert.Equal(t, span(16, 20), grid.Work)
	assert.Zero(t, grid.Break.Count())
	assert.Equal(t, domain.SlotsPerDay-4, grid.NonWork.Count())
}

func TestDeriveGrid_ShortGapBecomesBreak(t *testing.T) {
	day := testWeekStart
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{
			ev(at(day, 8, 0), domain.KindWork),
			ev(at(day, 10, 0), domain.KindStop),
			ev(at(day, 10, 30), domain.KindWork),
			ev(at(day, 12, 0), domain.KindStop),
		},
		Date: day,
	})

	assert.True(t, grid.Break[20])
	assert.False(t, grid.NonWork[20])
	assert.True(t, grid.Work[19])
	assert.True(t, grid.Work[21])
	assert.True(t, grid.NonWork[24], "long rest is left alone")
}

func TestDeriveGrid_ShortGapProperty(t *testing.T) {
	day := testWeekStart
	for gapStart := 2; gapStart < 44; gapStart += 3 {
		grid := DeriveGrid(DeriveInput{
			Events: []domain.ActivityEvent{
				ev(at(day, 0, 30), domain.KindWork),
				ev(at(day, gapStart/2, (gapStart%2)*30), domain.KindStop),
				ev(at(day, (gapStart+1)/2, ((gapStart+1)%2)*30), domain.KindWork),
			},
			Date: day,
		})
		for _, r := range runs(grid.NonWork[:]) {
			if r.length() > shortGapSlots {
				continue
			}
			left := r.start > 0 && grid.Work[r.start-1]
			right := r.end < domain.SlotsPerDay && grid.Work[r.end]
			assert.False(t, left || right, "gap at slot %d left as non-work", r.start)
		}
		assert.True(t, grid.Break[gapStart], "gap at slot %d", gapStart)
	}
}

func TestDeriveGrid_CarryOverPrefill(t *testing.T) {
	grid := DeriveGrid(DeriveInput{
		Date:             testWeekStart,
		CarryOverKind:    domain.KindWork,
		CarryOverEndSlot: 4,
	})
	assert.Equal(t, span(0, 4), grid.Work)
	assert.Equal(t, span(4, domain.SlotsPerDay), grid.NonWork)
}

func TestDeriveGrid_StopOnlyIsRest(t *testing.T) {
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{ev(at(testWeekStart, 6, 0), domain.KindStop)},
		Date:   testWeekStart,
	})
	assert.Equal(t, span(0, domain.SlotsPerDay), grid.NonWork)
}

func TestDeriveGrid_DoesNotReorderCallerEvents(t *testing.T) {
	events := []domain.ActivityEvent{
		ev(at(testWeekStart, 12, 0), domain.KindStop),
		ev(at(testWeekStart, 8, 0), domain.KindWork),
	}
	grid := DeriveGrid(DeriveInput{Events: events, Date: testWeekStart})

	require.Len(t, events, 2)
	assert.Equal(t, at(testWeekStart, 12, 0), events[0].Time)
	assert.Equal(t, span(16, 24), grid.Work)
}

func TestDeriveGrid_AtMostOneTagPerSlot(t *testing.T) {
	day := testWeekStart
	grid := DeriveGrid(DeriveInput{
		Events: []domain.ActivityEvent{
			ev(at(day, 5, 10), domain.KindWork),
			ev(at(day, 7, 20), domain.KindBreak),
			ev(at(day, 7, 50), domain.KindWork),
			ev(at(day, 13, 5), domain.KindBreak),
			ev(at(day, 13, 40), domain.KindStop),
		},
		Date: day,
	})
	for i := 0; i < domain.SlotsPerDay; i++ {
		n := 0
		for _, v := range []bool{grid.Work[i], grid.Break[i], grid.NonWork[i]} {
			if v {
				n++
			}
		}
		assert.Equal(t, 1, n, "slot %d", i)
	}
}

func TestClock_TodayAndFuture(t *testing.T) {
	c := Clock{Now: at(testWeekStart, 10, 0)}
	assert.True(t, c.IsToday(testWeekStart))
	assert.False(t, c.IsFuture(testWeekStart))
	assert.True(t, c.IsFuture(testWeekStart.AddDays(1)))
	assert.False(t, Clock{}.IsFuture(testWeekStart), "no clock means nothing is in the future")

	sydney, err := time.LoadLocation("Australia/Sydney")
	if err == nil {
		local := Clock{Now: time.Date(2026, time.October, 12, 23, 30, 0, 0, time.UTC), Location: sydney}
		assert.True(t, local.IsToday(testWeekStart.AddDays(1)), "local midnight follows the configured zone")
	}
}
