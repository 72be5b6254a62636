package compliance

import (
	"time"

	"github.com/workdiary/backend/internal/domain"
	"github.com/workdiary/backend/pkg/utils"
)

// asOf is the single resolved "now" of an evaluation
type asOf struct {
	now        time.Time
	positioned bool // dayIndex/slot point inside the current week
	dayIndex   int
	slot       int // slots elapsed in the current day, 0..48
}

// resolveAsOf reconciles the wall-clock with the client's day/slot position.
// A known AsOf plus week start wins; otherwise the position rebuilds the clock.
func resolveAsOf(opts domain.ComplianceOptions, weekStart domain.Date, days int, loc *time.Location) asOf {
	if days <= 0 {
		days = 7
	}
	if !opts.AsOf.IsZero() {
		a := asOf{now: opts.AsOf}
		if !weekStart.IsZero() {
			for i := 0; i < days; i++ {
				start := weekStart.AddDays(i).Midnight(loc)
				end := start.AddDate(0, 0, 1)
				if a.now.Before(start) || !a.now.Before(end) {
					continue
				}
				elapsed := a.now.Sub(start)
				slot := int((elapsed + slotDuration - 1) / slotDuration)
				return asOf{now: a.now, positioned: true, dayIndex: i, slot: utils.Clamp(slot, 0, domain.SlotsPerDay)}
			}
			return a
		}
		if opts.CurrentDayIndex != nil {
			a.positioned = true
			a.dayIndex = utils.Clamp(*opts.CurrentDayIndex, 0, days-1)
			a.slot = utils.Clamp(deref(opts.SlotsElapsedToday), 0, domain.SlotsPerDay)
		}
		return a
	}

	if opts.CurrentDayIndex == nil {
		return asOf{}
	}
	a := asOf{
		positioned: true,
		dayIndex:   utils.Clamp(*opts.CurrentDayIndex, 0, days-1),
		slot:       utils.Clamp(deref(opts.SlotsElapsedToday), 0, domain.SlotsPerDay),
	}
	if !weekStart.IsZero() {
		a.now = weekStart.AddDays(a.dayIndex).Midnight(loc).Add(time.Duration(a.slot) * slotDuration)
	}
	return a
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
