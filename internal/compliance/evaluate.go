// Package compliance evaluates work diary days against the fatigue rules.
// It is pure: no I/O, no shared state, and it never mutates its inputs.
package compliance

import (
	"fmt"
	"time"

	"github.com/workdiary/backend/internal/domain"
)

// Number of previous-week days that give the 24h-reset rules context
const trailingContextDays = 3

// dayView is one day as the rules see it
type dayView struct {
	derivedDay
	record   domain.DayRecord
	previous bool
	index    int // index within its own week
}

type evaluation struct {
	opts     domain.ComplianceOptions
	clock    asOf
	declared *domain.Date
	current  []dayView
	previous []dayView
}

// Evaluate runs every rule over the week and returns the findings in rule order
func Evaluate(days []domain.DayRecord, opts domain.ComplianceOptions) []domain.Finding {
	ev := newEvaluation(days, opts)

	var out findings
	ev.checkBreaks(&out)
	if ev.opts.DriverType != domain.DriverTwoUp {
		ev.checkDailyNonWork(&out)
		ev.check17Hour(&out)
		ev.check72Hour(&out)
	} else {
		ev.checkTwoUp(&out)
	}
	ev.checkFourteenDay(&out)
	ev.checkGPS(&out)
	return out.list()
}

func newEvaluation(days []domain.DayRecord, opts domain.ComplianceOptions) *evaluation {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}

	weekStart := dateOrZero(opts.WeekStartDate)
	if weekStart.IsZero() && len(days) > 0 {
		weekStart = days[0].Date
	}
	prevStart := dateOrZero(opts.PreviousWeekStart)
	if prevStart.IsZero() && !weekStart.IsZero() {
		prevStart = weekStart.AddDays(-7)
	}

	ev := &evaluation{
		opts:     opts,
		clock:    resolveAsOf(opts, weekStart, len(days), loc),
		declared: opts.DeclaredLast24hBreak,
	}
	if ev.declared != nil && ev.declared.IsZero() {
		ev.declared = nil
	}
	clock := Clock{Now: ev.clock.now, AssumeIdleFrom: opts.AssumeIdleFrom, Location: loc}

	prevDays := opts.PreviousWeekDays
	ev.previous = ev.buildViews(prevDays, weekDates(prevDays, prevStart), nil, clock, true)

	var carryIn *domain.ActivityEvent
	if n := len(prevDays); n > 0 {
		last := sortedEvents(prevDays[n-1].Events)
		if len(last) > 0 {
			carryIn = &last[len(last)-1]
		}
	}
	ev.current = ev.buildViews(days, weekDates(days, weekStart), carryIn, clock, false)
	return ev
}

func (ev *evaluation) buildViews(days []domain.DayRecord, dates []domain.Date, carryIn *domain.ActivityEvent, clock Clock, previous bool) []dayView {
	composed := composeWeek(days, dates, carryIn, clock)

	grids := make([]domain.DayGrid, len(composed))
	resolved := make([]domain.Date, len(composed))
	for i, d := range composed {
		grids[i] = d.grid
		resolved[i] = d.date
	}
	grids = ApplyDeclaredBreak(grids, resolved, ev.declared)

	views := make([]dayView, len(composed))
	for i, d := range composed {
		d.grid = grids[i]
		views[i] = dayView{derivedDay: d, record: days[i], previous: previous, index: i}
	}
	return views
}

func weekDates(days []domain.DayRecord, start domain.Date) []domain.Date {
	dates := make([]domain.Date, len(days))
	for i, d := range days {
		switch {
		case !d.Date.IsZero():
			dates[i] = d.Date
		case !start.IsZero():
			dates[i] = start.AddDays(i)
		}
	}
	return dates
}

func dateOrZero(d *domain.Date) domain.Date {
	if d == nil {
		return domain.Date{}
	}
	return *d
}

// extended returns up to trailingContextDays previous-week days followed by
// the current week, plus the offset of the current week's first day
func (ev *evaluation) extended() ([]dayView, int) {
	start := len(ev.previous) - trailingContextDays
	if start < 0 {
		start = 0
	}
	out := make([]dayView, 0, len(ev.previous)-start+len(ev.current))
	out = append(out, ev.previous[start:]...)
	offset := len(out)
	return append(out, ev.current...), offset
}

// horizon is the flat slot index of "now" in views whose current week starts at offset
func (ev *evaluation) horizon(views []dayView, offset int) int {
	total := len(views) * domain.SlotsPerDay
	if !ev.clock.positioned {
		return total
	}
	now := (offset+ev.clock.dayIndex)*domain.SlotsPerDay + ev.clock.slot
	if now > total {
		return total
	}
	return now
}

func gridsOf(views []dayView) []domain.DayGrid {
	out := make([]domain.DayGrid, len(views))
	for i, v := range views {
		out[i] = v.grid
	}
	return out
}

func (ev *evaluation) isDeclaredDay(d dayView) bool {
	return ev.declared != nil && !d.date.IsZero() && d.date == *ev.declared
}

// skipBeforeDeclared reports days before the declared break with no proven work
func (ev *evaluation) skipBeforeDeclared(d dayView) bool {
	return beforeDeclared(d.date, ev.declared) && d.grid.Work.Count() == 0
}

// weekInProgress reports whether "now" sits before the last day of the week
func (ev *evaluation) weekInProgress() bool {
	return ev.clock.positioned && ev.clock.dayIndex < len(ev.current)-1
}

// label names a day for display
func (d dayView) label() string {
	name := fmt.Sprintf("Day %d", d.index+1)
	if !d.date.IsZero() {
		name = d.date.Midnight(time.UTC).Format("Mon 02 Jan")
	}
	if d.previous {
		return "Prev " + name
	}
	return name
}

func spanLabel(views []dayView, first, last int) string {
	if first == last {
		return views[first].label()
	}
	return views[first].label() + " – " + views[last].label()
}

// findings accumulates results; list hands back an independent copy
type findings struct {
	items []domain.Finding
}

func (f *findings) add(sev domain.Severity, icon domain.RuleIcon, period, format string, args ...interface{}) {
	f.items = append(f.items, domain.Finding{
		Severity:    sev,
		RuleIcon:    icon,
		PeriodLabel: period,
		Message:     fmt.Sprintf(format, args...),
	})
}

func (f *findings) violation(icon domain.RuleIcon, period, format string, args ...interface{}) {
	f.add(domain.SeverityViolation, icon, period, format, args...)
}

func (f *findings) warning(icon domain.RuleIcon, period, format string, args ...interface{}) {
	f.add(domain.SeverityWarning, icon, period, format, args...)
}

func (f *findings) list() []domain.Finding {
	out := make([]domain.Finding, len(f.items))
	copy(out, f.items)
	return out
}
