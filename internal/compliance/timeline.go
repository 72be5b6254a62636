package compliance

import (
	"sort"
	"time"

	"github.com/workdiary/backend/internal/domain"
)

const (
	slotDuration = domain.SlotMinutes * time.Minute

	// Breaks shorter than this are incidental and count as work
	minBreakBlock = 10 * time.Minute
	// Non-work runs up to this many slots beside work are pauses, not rest
	shortGapSlots = 1
)

// activityState is the driver's state between two events
type activityState int

const (
	stateIdle activityState = iota
	stateWorking
	stateOnBreak
)

func stateFor(kind domain.ActivityKind) activityState {
	switch kind {
	case domain.KindWork:
		return stateWorking
	case domain.KindBreak:
		return stateOnBreak
	default:
		return stateIdle
	}
}

// interval is a span during which the state machine held one state.
// closed is false for the last span of a day, which runs to "now" or midnight.
type interval struct {
	state  activityState
	start  time.Time
	end    time.Time
	closed bool
}

func (iv interval) duration() time.Duration {
	return iv.end.Sub(iv.start)
}

// Clock fixes the wall-clock position used while deriving grids
type Clock struct {
	// Now is the evaluation instant; zero treats every day as complete
	Now time.Time
	// AssumeIdleFrom caps work/break for the day containing Now; other days ignore it
	AssumeIdleFrom *time.Time
	// Location defines local midnight; nil means UTC
	Location *time.Location
}

func (c Clock) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

func (c Clock) bounds(date domain.Date) (time.Time, time.Time) {
	start := date.Midnight(c.location())
	return start, start.AddDate(0, 0, 1)
}

// IsFuture reports whether the whole day lies after Now
func (c Clock) IsFuture(date domain.Date) bool {
	if c.Now.IsZero() || date.IsZero() {
		return false
	}
	start, _ := c.bounds(date)
	return start.After(c.Now)
}

// IsToday reports whether Now falls inside the day
func (c Clock) IsToday(date domain.Date) bool {
	if c.Now.IsZero() || date.IsZero() {
		return false
	}
	start, end := c.bounds(date)
	return !c.Now.Before(start) && c.Now.Before(end)
}

// DeriveInput describes one day to rasterize
type DeriveInput struct {
	Events []domain.ActivityEvent
	Date   domain.Date

	// CarryOverKind continues the previous day's unterminated state from midnight
	CarryOverKind domain.ActivityKind
	// CarryOverUntil ends the carried state; when zero, CarryOverEndSlot is used
	CarryOverUntil   time.Time
	CarryOverEndSlot int

	Clock Clock
}

// DeriveGrid converts a day's events into a half-hour grid
func DeriveGrid(in DeriveInput) domain.DayGrid {
	grid, _ := deriveDay(in)
	return grid
}

// deriveDay returns the grid plus the unreclassified intervals the break rule walks
func deriveDay(in DeriveInput) (domain.DayGrid, []interval) {
	if in.Date.IsZero() || in.Clock.IsFuture(in.Date) {
		return domain.DayGrid{}, nil
	}

	dayStart, dayEnd := in.Clock.bounds(in.Date)
	evalEnd := dayEnd
	if in.Clock.IsToday(in.Date) {
		evalEnd = in.Clock.Now
	}
	activeEnd := evalEnd
	if cut := in.Clock.AssumeIdleFrom; cut != nil && in.Clock.IsToday(in.Date) && cut.Before(activeEnd) {
		activeEnd = *cut
		if activeEnd.Before(dayStart) {
			activeEnd = dayStart
		}
	}

	carry := in.CarryOverUntil
	if carry.IsZero() && in.CarryOverEndSlot > 0 {
		carry = dayStart.Add(time.Duration(in.CarryOverEndSlot) * slotDuration)
	}

	raw := buildIntervals(sortedEvents(in.Events), dayStart, evalEnd, in.CarryOverKind, carry)
	raw = clipActive(raw, activeEnd)

	grid := rasterize(reclassifyShortBreaks(raw), dayStart, evalEnd)
	return reclassifyShortGaps(grid), raw
}

func sortedEvents(events []domain.ActivityEvent) []domain.ActivityEvent {
	out := make([]domain.ActivityEvent, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// buildIntervals runs the Idle/Working/OnBreak state machine over the day.
// Time before the first event (and carry-over) is not represented.
func buildIntervals(events []domain.ActivityEvent, dayStart, evalEnd time.Time, carryKind domain.ActivityKind, carryUntil time.Time) []interval {
	var out []interval
	if carryKind.Continues() && carryUntil.After(dayStart) {
		out = append(out, interval{state: stateFor(carryKind), start: dayStart, end: carryUntil, closed: true})
	}

	for i, ev := range events {
		iv := interval{state: stateFor(ev.Kind), start: ev.Time, end: evalEnd}
		if i+1 < len(events) {
			iv.end = events[i+1].Time
			iv.closed = true
		}
		out = append(out, iv)
	}

	return mergeIntervals(clipIntervals(out, dayStart, evalEnd))
}

func clipIntervals(in []interval, from, to time.Time) []interval {
	out := make([]interval, 0, len(in))
	for _, iv := range in {
		if iv.start.Before(from) {
			iv.start = from
		}
		if iv.end.After(to) {
			iv.end = to
			iv.closed = false
		}
		if iv.end.After(iv.start) {
			out = append(out, iv)
		}
	}
	return out
}

// clipActive turns work/break past the idle cutoff into idle time
func clipActive(in []interval, activeEnd time.Time) []interval {
	out := make([]interval, 0, len(in))
	for _, iv := range in {
		if iv.state == stateIdle || !iv.end.After(activeEnd) {
			out = append(out, iv)
			continue
		}
		if iv.start.Before(activeEnd) {
			out = append(out, interval{state: iv.state, start: iv.start, end: activeEnd, closed: false})
		}
		idleStart := activeEnd
		if iv.start.After(idleStart) {
			idleStart = iv.start
		}
		out = append(out, interval{state: stateIdle, start: idleStart, end: iv.end, closed: iv.closed})
	}
	return mergeIntervals(out)
}

func mergeIntervals(in []interval) []interval {
	out := make([]interval, 0, len(in))
	for _, iv := range in {
		if n := len(out); n > 0 && out[n-1].state == iv.state && !iv.start.After(out[n-1].end) {
			if iv.end.After(out[n-1].end) {
				out[n-1].end = iv.end
				out[n-1].closed = iv.closed
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// reclassifyShortBreaks turns completed breaks under minBreakBlock into work
func reclassifyShortBreaks(in []interval) []interval {
	out := make([]interval, len(in))
	for i, iv := range in {
		if iv.state == stateOnBreak && iv.closed && iv.duration() < minBreakBlock {
			iv.state = stateWorking
		}
		out[i] = iv
	}
	return mergeIntervals(out)
}

// rasterize samples intervals into slots. A slot touched by work or break takes
// whichever covers more of it (ties go to work); untouched slots before evalEnd are non-work.
func rasterize(intervals []interval, dayStart, evalEnd time.Time) domain.DayGrid {
	var grid domain.DayGrid
	for slot := 0; slot < domain.SlotsPerDay; slot++ {
		slotStart := dayStart.Add(time.Duration(slot) * slotDuration)
		if !slotStart.Before(evalEnd) {
			break
		}
		slotEnd := slotStart.Add(slotDuration)

		var work, rest time.Duration
		for _, iv := range intervals {
			o := overlap(iv.start, iv.end, slotStart, slotEnd)
			switch {
			case o <= 0:
			case iv.state == stateWorking:
				work += o
			case iv.state == stateOnBreak:
				rest += o
			}
		}

		switch {
		case work == 0 && rest == 0:
			grid.NonWork[slot] = true
		case work >= rest:
			grid.Work[slot] = true
		default:
			grid.Break[slot] = true
		}
	}
	return grid
}

func overlap(aStart, aEnd, bStart, bEnd time.Time) time.Duration {
	start := aStart
	if bStart.After(start) {
		start = bStart
	}
	end := aEnd
	if bEnd.Before(end) {
		end = bEnd
	}
	return end.Sub(start)
}

// reclassifyShortGaps marks brief non-work runs next to work as break
func reclassifyShortGaps(grid domain.DayGrid) domain.DayGrid {
	out := grid
	for _, r := range runs(grid.NonWork[:]) {
		if r.length() > shortGapSlots {
			continue
		}
		before := r.start > 0 && grid.Work[r.start-1]
		after := r.end < domain.SlotsPerDay && grid.Work[r.end]
		if !before && !after {
			continue
		}
		for i := r.start; i < r.end; i++ {
			out.NonWork[i] = false
			out.Break[i] = true
		}
	}
	return out
}

// slotRun is a half-open range [start, end) of slot indices
type slotRun struct {
	start, end int
}

func (r slotRun) length() int {
	return r.end - r.start
}

// runs returns the maximal runs of true values
func runs(values []bool) []slotRun {
	var out []slotRun
	start := -1
	for i, v := range values {
		switch {
		case v && start < 0:
			start = i
		case !v && start >= 0:
			out = append(out, slotRun{start, i})
			start = -1
		}
	}
	if start >= 0 {
		out = append(out, slotRun{start, len(values)})
	}
	return out
}

func longestRun(values []bool) int {
	longest := 0
	for _, r := range runs(values) {
		if r.length() > longest {
			longest = r.length()
		}
	}
	return longest
}
