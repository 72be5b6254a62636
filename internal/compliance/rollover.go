package compliance

import (
	"github.com/workdiary/backend/internal/domain"
)

// derivedDay is a composed day plus what the rules need beyond its grid
type derivedDay struct {
	date      domain.Date
	grid      domain.DayGrid
	intervals []interval
	fromEvent bool
	today     bool
}

// ComposeWeek derives a grid for every day, continuing an unterminated
// work or break across midnight. carryIn is the last event before days[0], if any.
func ComposeWeek(days []domain.DayRecord, dates []domain.Date, carryIn *domain.ActivityEvent, clock Clock) []domain.DayGrid {
	composed := composeWeek(days, dates, carryIn, clock)
	grids := make([]domain.DayGrid, len(composed))
	for i, d := range composed {
		grids[i] = d.grid
	}
	return grids
}

func composeWeek(days []domain.DayRecord, dates []domain.Date, carryIn *domain.ActivityEvent, clock Clock) []derivedDay {
	out := make([]derivedDay, len(days))
	prevLast := carryIn

	for i, rec := range days {
		events := sortedEvents(rec.Events)
		date := resolveDate(dates, i, events, clock)
		today := clock.IsToday(date)

		in := DeriveInput{Events: events, Date: date, Clock: clock}
		if prevLast != nil && prevLast.Kind.Continues() && (today || len(events) > 0) {
			in.CarryOverKind = prevLast.Kind
			if len(events) > 0 {
				in.CarryOverUntil = events[0].Time
			} else {
				in.CarryOverEndSlot = domain.SlotsPerDay
			}
		}

		d := derivedDay{date: date, today: today}
		switch {
		case date.IsZero() || (len(events) == 0 && in.CarryOverKind == ""):
			if !clock.IsFuture(date) {
				d.grid = rec.Grid.Normalized()
			}
		default:
			d.grid, d.intervals = deriveDay(in)
			d.fromEvent = true
		}
		out[i] = d

		prevLast = nil
		if len(events) > 0 {
			prevLast = &events[len(events)-1]
		}
	}
	return out
}

// resolveDate prefers the supplied date, then the first event's local date
func resolveDate(dates []domain.Date, i int, events []domain.ActivityEvent, clock Clock) domain.Date {
	if i < len(dates) && !dates[i].IsZero() {
		return dates[i]
	}
	if len(events) > 0 {
		return domain.DateOf(events[0].Time.In(clock.location()))
	}
	return domain.Date{}
}

// ApplyDeclaredBreak withholds non-work credit from days before the declared
// 24h break that have no recorded work
func ApplyDeclaredBreak(grids []domain.DayGrid, dates []domain.Date, declared *domain.Date) []domain.DayGrid {
	out := make([]domain.DayGrid, len(grids))
	copy(out, grids)
	if declared == nil || declared.IsZero() {
		return out
	}
	for i := range out {
		if i < len(dates) && beforeDeclared(dates[i], declared) && out[i].Work.Count() == 0 {
			out[i].NonWork = domain.Slots{}
		}
	}
	return out
}

func beforeDeclared(date domain.Date, declared *domain.Date) bool {
	return declared != nil && !declared.IsZero() && !date.IsZero() && date.Before(*declared)
}
