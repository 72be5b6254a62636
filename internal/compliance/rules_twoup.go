package compliance

import (
	"github.com/workdiary/backend/internal/domain"
)

const (
	twoUpDayWindow      = 48 // 24h
	twoUpPairWindow     = 96 // 48h
	twoUpMinDayActivity = 32 // 16h
	twoUpWeekRestSlots  = 96 // 48h
	twoUpWeekBlockSlots = 48 // 24h
)

// prefix holds running counts so any window total is two lookups
type prefix []int

func prefixOf(values []bool) prefix {
	p := make(prefix, len(values)+1)
	for i, v := range values {
		p[i+1] = p[i]
		if v {
			p[i+1]++
		}
	}
	return p
}

func (p prefix) sum(from, to int) int {
	return p[to] - p[from]
}

func (ev *evaluation) checkTwoUp(out *findings) {
	if len(ev.current) == 0 {
		return
	}
	grids := gridsOf(ev.current)
	activity := make([]bool, 0, len(grids)*domain.SlotsPerDay)
	for _, g := range grids {
		for i := 0; i < domain.SlotsPerDay; i++ {
			activity = append(activity, g.Work[i] || g.Break[i])
		}
	}
	nonWork := flatten(grids, func(g domain.DayGrid) domain.Slots { return g.NonWork })
	act, rest := prefixOf(activity), prefixOf(nonWork)
	n := len(activity)

	windowLabel := func(from, size int) string {
		last := (from + size - 1) / domain.SlotsPerDay
		if last >= len(ev.current) {
			last = len(ev.current) - 1
		}
		return spanLabel(ev.current, from/domain.SlotsPerDay, last)
	}

	for s := 0; s+twoUpDayWindow <= n; {
		if act.sum(s, s+twoUpDayWindow) >= twoUpMinDayActivity && rest.sum(s, s+twoUpDayWindow) < restBlockSlots {
			out.violation(domain.IconTwoUp, windowLabel(s, twoUpDayWindow),
				"Less than 7 hrs non-work in 24 hrs with 16 hrs or more activity (two-up)")
			s += twoUpDayWindow
			continue
		}
		s++
	}

	for s := 0; s+twoUpPairWindow <= n; {
		if act.sum(s, s+twoUpPairWindow) > 0 && longestRun(nonWork[s:s+twoUpPairWindow]) < restBlockSlots {
			out.warning(domain.IconTwoUp, windowLabel(s, twoUpPairWindow),
				"No 7 continuous hrs non-work in 48 hrs (two-up)")
			s += twoUpPairWindow
			continue
		}
		s++
	}

	if act.sum(0, n) == 0 || ev.weekInProgress() {
		return
	}
	total := rest.sum(0, n)
	switch {
	case total < twoUpWeekRestSlots:
		out.warning(domain.IconTwoUp, "Week",
			"Less than 48 hrs non-work this week (%s hrs, two-up)", formatHours(total))
	case longestRun(nonWork) < twoUpWeekBlockSlots:
		out.warning(domain.IconTwoUp, "Week",
			"48 hrs non-work this week but no 24 continuous hrs (two-up)")
	}
}
